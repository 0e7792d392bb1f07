package entity

import (
	"encoding/json"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DrawerSession is one operator's open-to-close cash accounting
// period. OpenKey carries the operator id while the session is open
// and is NULLed on close; the unique index on it is what the database
// enforces so two concurrent opens for the same operator cannot both
// succeed.
type DrawerSession struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	OperatorID uuid.UUID         `gorm:"type:uuid;not null;index" json:"operator_id"`
	OpenKey    *string           `gorm:"size:64;uniqueIndex" json:"-"`
	Status     enum.DrawerStatus `gorm:"default:0;index" json:"status"`
	// OpeningFloat is the change money counted in at open.
	OpeningFloat int64 `gorm:"default:0" json:"-"` // Stored in cents
	// CashIn accumulates the cash portion of sales during the session.
	CashIn int64 `gorm:"default:0" json:"-"` // Stored in cents
	// ClosingComputed = OpeningFloat + CashIn + topUps - withdrawals.
	ClosingComputed int64 `gorm:"default:0" json:"-"` // Stored in cents
	// ClosingCounted is what the operator physically counted.
	ClosingCounted int64 `gorm:"default:0" json:"-"` // Stored in cents
	// Variance = counted - computed, persisted for audit.
	Variance  int64          `gorm:"default:0" json:"-"` // Stored in cents
	OpenedAt  time.Time      `gorm:"not null" json:"opened_at"`
	ClosedAt  *time.Time     `json:"closed_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Operator    User               `gorm:"foreignKey:OperatorID" json:"-"`
	Adjustments []DrawerAdjustment `gorm:"foreignKey:SessionID" json:"adjustments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s DrawerSession) MarshalJSON() ([]byte, error) {
	type Alias DrawerSession
	return json.Marshal(&struct {
		Alias
		OpeningFloat    float64 `json:"opening_float"`
		CashIn          float64 `json:"cash_in"`
		ClosingComputed float64 `json:"closing_computed"`
		ClosingCounted  float64 `json:"closing_counted"`
		Variance        float64 `json:"variance"`
	}{
		Alias:           Alias(s),
		OpeningFloat:    float64(s.OpeningFloat) / 100,
		CashIn:          float64(s.CashIn) / 100,
		ClosingComputed: float64(s.ClosingComputed) / 100,
		ClosingCounted:  float64(s.ClosingCounted) / 100,
		Variance:        float64(s.Variance) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new drawer session
func (s *DrawerSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DrawerSession model
func (DrawerSession) TableName() string {
	return "drawer_sessions"
}

// ComputedBalance folds the session figures and its adjustments into
// the expected closing cash amount.
func (s *DrawerSession) ComputedBalance() int64 {
	total := s.OpeningFloat + s.CashIn
	for _, adj := range s.Adjustments {
		if adj.Type == enum.AdjustmentTopUp {
			total += adj.Amount
		} else {
			total -= adj.Amount
		}
	}
	return total
}

// DrawerAdjustment is a manual cash movement (sangria or suprimento)
// on an open session. Adjustments are append-only.
type DrawerAdjustment struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	SessionID uuid.UUID           `gorm:"type:uuid;not null;index" json:"session_id"`
	Type      enum.AdjustmentType `gorm:"not null" json:"type"`
	Amount    int64               `gorm:"not null" json:"-"` // Stored in cents, always > 0
	Reason    string              `gorm:"size:255;not null" json:"reason"`
	CreatedAt time.Time           `json:"created_at"`

	// Relationships
	Session DrawerSession `gorm:"foreignKey:SessionID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (a DrawerAdjustment) MarshalJSON() ([]byte, error) {
	type Alias DrawerAdjustment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(a),
		Amount: float64(a.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new drawer adjustment
func (a *DrawerAdjustment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DrawerAdjustment model
func (DrawerAdjustment) TableName() string {
	return "drawer_adjustments"
}
