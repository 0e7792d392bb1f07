package request

import "github.com/google/uuid"

// CheckoutLineRequest is one piece in a checkout request
type CheckoutLineRequest struct {
	PieceID      uuid.UUID `json:"piece_id" binding:"required"`
	ChargedPrice *float64  `json:"charged_price" binding:"omitempty,min=0"`
}

// CheckoutPaymentRequest is one tender in a checkout request
type CheckoutPaymentRequest struct {
	Method       string     `json:"method" binding:"required,oneof=Cash CardCredit CardDebit Pix StoreCredit BarterVoucher"`
	Amount       float64    `json:"amount" binding:"required,gt=0"`
	Installments int        `json:"installments" binding:"omitempty,min=1,max=12"`
	GrantID      *uuid.UUID `json:"grant_id"`
	CouponCode   *string    `json:"coupon_code"`
}

// CheckoutRequest represents a complete sale request
type CheckoutRequest struct {
	CustomerID *uuid.UUID               `json:"customer_id"`
	Channel    string                   `json:"channel" binding:"omitempty,oneof=store online"`
	Lines      []CheckoutLineRequest    `json:"lines" binding:"required,min=1,dive"`
	Payments   []CheckoutPaymentRequest `json:"payments" binding:"required,min=1,dive"`
}

// ReturnLineRequest represents the return of one sold piece
type ReturnLineRequest struct {
	PieceID uuid.UUID `json:"piece_id" binding:"required"`
	Reason  string    `json:"reason" binding:"required,max=255"`
}

// OrderFilterRequest represents order filter parameters
type OrderFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
