package request

import "github.com/google/uuid"

// IntakePieceRequest represents a stock intake request. Prices arrive
// as decimals and are converted to cents at the boundary.
type IntakePieceRequest struct {
	Description     string     `json:"description" binding:"required,min=2,max=255"`
	AcquisitionType string     `json:"acquisition_type" binding:"required,oneof=Purchase Consignment Barter"`
	SalePrice       float64    `json:"sale_price" binding:"min=0"`
	CostPrice       float64    `json:"cost_price" binding:"min=0"`
	SupplierID      *uuid.UUID `json:"supplier_id"`
	Available       bool       `json:"available"`
}

// UpdatePieceRequest represents a piece update request
type UpdatePieceRequest struct {
	Description *string    `json:"description" binding:"omitempty,min=2,max=255"`
	SalePrice   *float64   `json:"sale_price" binding:"omitempty,min=0"`
	CostPrice   *float64   `json:"cost_price" binding:"omitempty,min=0"`
	SupplierID  *uuid.UUID `json:"supplier_id"`
}

// TransitionPieceRequest represents a manual status transition
type TransitionPieceRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=255"`
}

// ReservePieceRequest represents a reservation request
type ReservePieceRequest struct {
	Online bool   `json:"online"`
	Note   string `json:"note" binding:"max=255"`
}

// PieceFilterRequest represents piece filter parameters
type PieceFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
