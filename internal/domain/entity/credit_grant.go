package entity

import (
	"encoding/json"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditGrant is a time-boxed store credit owned by a customer, issued
// as cashback or by a return. A grant is consumed whole: applying it
// as payment zeroes the amount and marks it Used. Partial consumption
// is intentionally unsupported.
type CreditGrant struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id"`
	Amount     int64             `gorm:"not null" json:"-"` // Stored in cents
	Status     enum.CreditStatus `gorm:"default:0;index" json:"status"`
	ExpiresAt  time.Time         `gorm:"not null;index" json:"expires_at"`
	CouponCode *string           `gorm:"size:100;index" json:"coupon_code,omitempty"`
	// OrderID points at the sale that issued the cashback, if any.
	OrderID   *uuid.UUID     `gorm:"type:uuid" json:"order_id,omitempty"`
	UsedAt    *time.Time     `json:"used_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (g CreditGrant) MarshalJSON() ([]byte, error) {
	type Alias CreditGrant
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(g),
		Amount: float64(g.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new credit grant
func (g *CreditGrant) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CreditGrant model
func (CreditGrant) TableName() string {
	return "credit_grants"
}

// Usable reports whether the grant can be applied as payment right now
func (g *CreditGrant) Usable(now time.Time) bool {
	return g.Status == enum.CreditActive && now.Before(g.ExpiresAt)
}
