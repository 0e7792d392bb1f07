package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod represents one tender type applied to an order
type PaymentMethod int

const (
	PaymentCash          PaymentMethod = 0
	PaymentCardCredit    PaymentMethod = 1
	PaymentCardDebit     PaymentMethod = 2
	PaymentPix           PaymentMethod = 3
	PaymentStoreCredit   PaymentMethod = 4
	PaymentBarterVoucher PaymentMethod = 5
)

func (m PaymentMethod) String() string {
	return [...]string{"Cash", "CardCredit", "CardDebit", "Pix", "StoreCredit", "BarterVoucher"}[m]
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMethod(i)
		return nil
	}
	switch str {
	case "Cash":
		*m = PaymentCash
	case "CardCredit":
		*m = PaymentCardCredit
	case "CardDebit":
		*m = PaymentCardDebit
	case "Pix":
		*m = PaymentPix
	case "StoreCredit":
		*m = PaymentStoreCredit
	case "BarterVoucher":
		*m = PaymentBarterVoucher
	}
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	}
	return nil
}
