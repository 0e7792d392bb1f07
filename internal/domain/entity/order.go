package entity

import (
	"encoding/json"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order represents one sale. Total holds the amount actually
// collected (the sum of payments), which is authoritative over the
// nominal subtotal when the sale settles under discount.
type Order struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Code          string           `gorm:"size:100;unique;not null" json:"code"`
	Channel       string           `gorm:"size:50;default:'store'" json:"channel"`
	CustomerID    *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	SalespersonID uuid.UUID        `gorm:"type:uuid;not null;index" json:"salesperson_id"`
	Status        enum.OrderStatus `gorm:"default:0" json:"status"`
	SubTotal      int64            `gorm:"default:0" json:"-"` // Stored in cents
	Discount      int64            `gorm:"default:0" json:"-"` // Stored in cents
	Total         int64            `gorm:"default:0" json:"-"` // Stored in cents
	OrderDate     time.Time        `gorm:"not null" json:"order_date"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Customer    *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Salesperson User        `gorm:"foreignKey:SalespersonID" json:"-"`
	Lines       []OrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
	Payments    []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"sub_total"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(o),
		SubTotal: float64(o.SubTotal) / 100,
		Discount: float64(o.Discount) / 100,
		Total:    float64(o.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderLine binds one piece to one order at the price actually
// charged, which may be below the piece's list price. A piece may
// appear in at most one non-cancelled line at a time.
type OrderLine struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	PieceID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"piece_id"`
	ChargedPrice int64          `gorm:"not null" json:"-"` // Stored in cents
	ListPrice    int64          `gorm:"not null" json:"-"` // Stored in cents
	Cancelled    bool           `gorm:"default:false" json:"cancelled"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
	Piece Piece `gorm:"foreignKey:PieceID" json:"piece,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (l OrderLine) MarshalJSON() ([]byte, error) {
	type Alias OrderLine
	return json.Marshal(&struct {
		Alias
		ChargedPrice float64 `json:"charged_price"`
		ListPrice    float64 `json:"list_price"`
	}{
		Alias:        Alias(l),
		ChargedPrice: float64(l.ChargedPrice) / 100,
		ListPrice:    float64(l.ListPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order line
func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderLine model
func (OrderLine) TableName() string {
	return "order_lines"
}

// Payment is one tender applied to an order
type Payment struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"order_id"`
	Method       enum.PaymentMethod `gorm:"default:0" json:"method"`
	Amount       int64              `gorm:"not null" json:"-"` // Stored in cents
	Installments int                `gorm:"default:1" json:"installments"`
	// CreditGrantID links a store-credit payment to the grant it consumed.
	CreditGrantID *uuid.UUID     `gorm:"type:uuid" json:"credit_grant_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
