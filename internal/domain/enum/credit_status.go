package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CreditStatus represents the lifecycle of a store credit grant
type CreditStatus int

const (
	// CreditPendingActivation waits for the next monthly cycle.
	CreditPendingActivation CreditStatus = 0
	// CreditActive is spendable until its expiry.
	CreditActive CreditStatus = 1
	// CreditUsed was consumed as a payment. Grants are all-or-nothing.
	CreditUsed CreditStatus = 2
	// CreditExpired lapsed, either by its own expiry or by the monthly
	// reset.
	CreditExpired CreditStatus = 3
)

func (s CreditStatus) String() string {
	return [...]string{"PendingActivation", "Active", "Used", "Expired"}[s]
}

func (s CreditStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CreditStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = CreditStatus(i)
		return nil
	}
	switch str {
	case "PendingActivation":
		*s = CreditPendingActivation
	case "Active":
		*s = CreditActive
	case "Used":
		*s = CreditUsed
	case "Expired":
		*s = CreditExpired
	}
	return nil
}

func (s CreditStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CreditStatus) Scan(value interface{}) error {
	if value == nil {
		*s = CreditPendingActivation
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = CreditStatus(v)
	case int:
		*s = CreditStatus(v)
	}
	return nil
}
