package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreSettings is the single row of operational configuration. The
// scheduler and the checkout read it at run time, not at process
// start, so the monthly schedule can change without a restart.
type StoreSettings struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	// Monthly credit cycle schedule.
	CreditResetDay  int `gorm:"default:1" json:"credit_reset_day"`
	CreditResetHour int `gorm:"default:8" json:"credit_reset_hour"`

	// CashbackPercent of the collected amount granted as store credit
	// when the buyer is identified.
	CashbackPercent int `gorm:"default:5" json:"cashback_percent"`

	// DefaultCommissionRate for suppliers created without one.
	DefaultCommissionRate int `gorm:"default:50" json:"default_commission_rate"`

	// LastMonthlyCycleAt guards the cycle against double runs within
	// the same month.
	LastMonthlyCycleAt *time.Time `json:"last_monthly_cycle_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating the settings row
func (s *StoreSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}

// NextReset returns the next monthly reset boundary after now.
func (s *StoreSettings) NextReset(now time.Time) time.Time {
	reset := time.Date(now.Year(), now.Month(), s.CreditResetDay, s.CreditResetHour, 0, 0, 0, now.Location())
	if !reset.After(now) {
		reset = reset.AddDate(0, 1, 0)
	}
	return reset
}

// CycleDue reports whether the monthly cycle should run at now. The
// cycle is due once a reset boundary has passed with no run since, so
// a scheduler outage spanning the boundary is caught up on the next
// check instead of silently skipping the month.
func (s *StoreSettings) CycleDue(now time.Time) bool {
	if s.LastMonthlyCycleAt == nil {
		boundary := time.Date(now.Year(), now.Month(), s.CreditResetDay, s.CreditResetHour, 0, 0, 0, now.Location())
		return !now.Before(boundary)
	}
	return !now.Before(s.NextReset(*s.LastMonthlyCycleAt))
}

// EndOfMonth returns the last instant of the month containing t.
func EndOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.Add(-time.Second)
}
