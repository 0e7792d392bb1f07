package entity

import (
	"encoding/json"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerEntry is one append-only credit/debit row in a person's
// account. Entries are immutable once written; corrections are posted
// as new offsetting entries so the history stays auditable. The
// running balance is always derived from the entries, never stored.
type LedgerEntry struct {
	ID         uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	PersonType enum.PersonType      `gorm:"not null;index:idx_ledger_person" json:"person_type"`
	PersonID   uuid.UUID            `gorm:"type:uuid;not null;index:idx_ledger_person" json:"person_id"`
	Direction  enum.LedgerDirection `gorm:"not null" json:"direction"`
	Amount     int64                `gorm:"not null" json:"-"` // Stored in cents, always > 0
	Reason     string               `gorm:"size:255;not null" json:"reason"`
	// OriginPieceID links the entry to the piece that generated it
	// (e.g. a consignment commission).
	OriginPieceID *uuid.UUID `gorm:"type:uuid;index" json:"origin_piece_id,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	type Alias LedgerEntry
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: float64(e.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new ledger entry
func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// Signed returns the entry amount with its direction applied
func (e *LedgerEntry) Signed() int64 {
	return e.Direction.Sign() * e.Amount
}

// StatementLine annotates a ledger entry with the running balance
// after it was applied.
type StatementLine struct {
	Entry   LedgerEntry `json:"entry"`
	Balance int64       `json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (l StatementLine) MarshalJSON() ([]byte, error) {
	type Alias StatementLine
	return json.Marshal(&struct {
		Alias
		Balance float64 `json:"balance"`
	}{
		Alias:   Alias(l),
		Balance: float64(l.Balance) / 100,
	})
}

// PersonBalance is one row of the payout report: a person and what the
// store currently owes them.
type PersonBalance struct {
	PersonType enum.PersonType `json:"person_type"`
	PersonID   uuid.UUID       `json:"person_id"`
	Balance    int64           `json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b PersonBalance) MarshalJSON() ([]byte, error) {
	type Alias PersonBalance
	return json.Marshal(&struct {
		Alias
		Balance float64 `json:"balance"`
	}{
		Alias:   Alias(b),
		Balance: float64(b.Balance) / 100,
	})
}
