package request

// CreateSupplierRequest represents a supplier creation request
type CreateSupplierRequest struct {
	Name           string  `json:"name" binding:"required,min=2,max=255"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone" binding:"omitempty,max=50"`
	Address        *string `json:"address"`
	CommissionRate *int    `json:"commission_rate" binding:"omitempty,min=0,max=100"`
	AccountHolder  *string `json:"account_holder" binding:"omitempty,max=255"`
	AccountNumber  *string `json:"account_number" binding:"omitempty,max=100"`
	BankName       *string `json:"bank_name" binding:"omitempty,max=255"`
	PixKey         *string `json:"pix_key" binding:"omitempty,max=255"`
}

// UpdateSupplierRequest represents a supplier update request
type UpdateSupplierRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone" binding:"omitempty,max=50"`
	Address        *string `json:"address"`
	CommissionRate *int    `json:"commission_rate" binding:"omitempty,min=0,max=100"`
	AccountHolder  *string `json:"account_holder" binding:"omitempty,max=255"`
	AccountNumber  *string `json:"account_number" binding:"omitempty,max=100"`
	BankName       *string `json:"bank_name" binding:"omitempty,max=255"`
	PixKey         *string `json:"pix_key" binding:"omitempty,max=255"`
}

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address"`
}
