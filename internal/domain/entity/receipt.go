package entity

// Receipt is the presentation model handed to the ESC/POS formatter.
// Amounts are plain decimals here because this struct never touches
// persistence.
type Receipt struct {
	Header    ReceiptHeader    `json:"header"`
	OrderCode string           `json:"order_code"`
	Date      string           `json:"date"`
	Cashier   string           `json:"cashier,omitempty"`
	Customer  string           `json:"customer,omitempty"`
	Items     []ReceiptItem    `json:"items"`
	Payments  []ReceiptPayment `json:"payments"`
	SubTotal  float64          `json:"sub_total"`
	Discount  float64          `json:"discount"`
	Total     float64          `json:"total"`
	// Cashback granted by this sale, zero when the buyer is anonymous.
	Cashback float64 `json:"cashback,omitempty"`
}

// ReceiptHeader holds the store identification block
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem is one sold piece on the receipt
type ReceiptItem struct {
	LabelCode int     `json:"label_code"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// ReceiptPayment is one tender line on the receipt
type ReceiptPayment struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}
