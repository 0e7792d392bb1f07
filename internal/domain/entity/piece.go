package entity

import (
	"encoding/json"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Piece represents one unique physical item in stock. Pieces are never
// hard-deleted while a ledger entry references them; the DeletedAt soft
// delete keeps traceability intact.
type Piece struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	LabelCode       int                  `gorm:"uniqueIndex;not null" json:"label_code"`
	Description     string               `gorm:"size:255;not null" json:"description"`
	AcquisitionType enum.AcquisitionType `gorm:"default:0" json:"acquisition_type"`
	Status          enum.PieceStatus     `gorm:"default:0;index" json:"status"`
	SalePrice       int64                `gorm:"default:0" json:"-"` // Stored in cents
	CostPrice       int64                `gorm:"default:0" json:"-"` // Stored in cents
	SupplierID      *uuid.UUID           `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	EntryDate       time.Time            `gorm:"not null" json:"entry_date"`
	SaleDate        *time.Time           `json:"sale_date,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	DeletedAt       gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Piece) MarshalJSON() ([]byte, error) {
	type Alias Piece
	return json.Marshal(&struct {
		Alias
		SalePrice float64 `json:"sale_price"`
		CostPrice float64 `json:"cost_price"`
	}{
		Alias:     Alias(p),
		SalePrice: float64(p.SalePrice) / 100,
		CostPrice: float64(p.CostPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new piece
func (p *Piece) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Piece model
func (Piece) TableName() string {
	return "pieces"
}

// CommissionFor computes the supplier commission in cents for the
// price actually charged. The rate applies to realized revenue, never
// to the list price, so discounted sales pay commission on what was
// collected.
func (p *Piece) CommissionFor(chargedCents int64, rate int) int64 {
	return chargedCents * int64(rate) / 100
}

// StockMovement is an audit row written on every piece status change.
// Movements are append-only; a movement is never edited or removed.
type StockMovement struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	PieceID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"piece_id"`
	FromStatus enum.PieceStatus `json:"from_status"`
	ToStatus   enum.PieceStatus `json:"to_status"`
	OrderID    *uuid.UUID       `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Note       string           `gorm:"size:255" json:"note"`
	CreatedAt  time.Time        `json:"created_at"`

	// Relationships
	Piece Piece `gorm:"foreignKey:PieceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock movement
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}
