package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// AcquisitionType represents how a piece entered the store's stock
type AcquisitionType int

const (
	// AcquisitionPurchase is store-owned stock bought outright.
	AcquisitionPurchase AcquisitionType = 0
	// AcquisitionConsignment is supplier stock; the supplier is paid a
	// commission only when the piece sells.
	AcquisitionConsignment AcquisitionType = 1
	// AcquisitionBarter is stock taken in exchange for a store voucher.
	AcquisitionBarter AcquisitionType = 2
)

func (t AcquisitionType) String() string {
	return [...]string{"Purchase", "Consignment", "Barter"}[t]
}

func (t AcquisitionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *AcquisitionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = AcquisitionType(i)
		return nil
	}
	switch str {
	case "Purchase":
		*t = AcquisitionPurchase
	case "Consignment":
		*t = AcquisitionConsignment
	case "Barter":
		*t = AcquisitionBarter
	}
	return nil
}

func (t AcquisitionType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *AcquisitionType) Scan(value interface{}) error {
	if value == nil {
		*t = AcquisitionPurchase
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = AcquisitionType(v)
	case int:
		*t = AcquisitionType(v)
	}
	return nil
}
