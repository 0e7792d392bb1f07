package request

// OpenDrawerRequest represents a drawer open request
type OpenDrawerRequest struct {
	OpeningFloat float64 `json:"opening_float" binding:"min=0"`
}

// AdjustDrawerRequest represents a sangria or suprimento
type AdjustDrawerRequest struct {
	Type   string  `json:"type" binding:"required,oneof=Withdrawal TopUp"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason" binding:"required,max=255"`
}

// CloseDrawerRequest represents a drawer close request. A nil counted
// amount means "trust the computed figure".
type CloseDrawerRequest struct {
	CountedAmount *float64 `json:"counted_amount" binding:"omitempty,min=0"`
}

// DrawerFilterRequest represents drawer history filter parameters
type DrawerFilterRequest struct {
	OperatorID string `form:"operator_id"`
	OnlyOpen   bool   `form:"only_open"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
