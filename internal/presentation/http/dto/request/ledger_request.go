package request

import "github.com/google/uuid"

// PostEntryRequest represents a manual ledger posting
type PostEntryRequest struct {
	Direction     string     `json:"direction" binding:"required,oneof=Credit Debit"`
	Amount        float64    `json:"amount" binding:"required,gt=0"`
	Reason        string     `json:"reason" binding:"required,max=255"`
	OriginPieceID *uuid.UUID `json:"origin_piece_id"`
}

// SettlePayoutRequest represents a payout settlement request
type SettlePayoutRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason" binding:"max=255"`
}

// GrantCreditRequest represents a manual credit grant request
type GrantCreditRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Amount     float64   `json:"amount" binding:"required,gt=0"`
	Pending    bool      `json:"pending"`
	ExpiresAt  *string   `json:"expires_at"` // RFC 3339
	WithCoupon bool      `json:"with_coupon"`
}

// UpdateSettingsRequest represents the store settings update
type UpdateSettingsRequest struct {
	CreditResetDay        *int `json:"credit_reset_day" binding:"omitempty,min=1,max=28"`
	CreditResetHour       *int `json:"credit_reset_hour" binding:"omitempty,min=0,max=23"`
	CashbackPercent       *int `json:"cashback_percent" binding:"omitempty,min=0,max=100"`
	DefaultCommissionRate *int `json:"default_commission_rate" binding:"omitempty,min=0,max=100"`
}
