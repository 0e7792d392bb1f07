package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// LedgerDirection represents the accounting side of a ledger entry
type LedgerDirection int

const (
	// LedgerCredit increases what the store owes the person.
	LedgerCredit LedgerDirection = 0
	// LedgerDebit decreases it (payout, store-credit spend, correction).
	LedgerDebit LedgerDirection = 1
)

func (d LedgerDirection) String() string {
	return [...]string{"Credit", "Debit"}[d]
}

// Sign returns +1 for credits and -1 for debits, so a balance is the
// signed sum over entries.
func (d LedgerDirection) Sign() int64 {
	if d == LedgerDebit {
		return -1
	}
	return 1
}

func (d LedgerDirection) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *LedgerDirection) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*d = LedgerDirection(i)
		return nil
	}
	switch str {
	case "Credit", "CREDIT":
		*d = LedgerCredit
	case "Debit", "DEBIT":
		*d = LedgerDebit
	}
	return nil
}

func (d LedgerDirection) Value() (driver.Value, error) {
	return int64(d), nil
}

func (d *LedgerDirection) Scan(value interface{}) error {
	if value == nil {
		*d = LedgerCredit
		return nil
	}
	switch v := value.(type) {
	case int64:
		*d = LedgerDirection(v)
	case int:
		*d = LedgerDirection(v)
	}
	return nil
}

// PersonType distinguishes the two kinds of ledger account holders
type PersonType int

const (
	PersonSupplier PersonType = 0
	PersonCustomer PersonType = 1
)

func (t PersonType) String() string {
	return [...]string{"Supplier", "Customer"}[t]
}

func (t PersonType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *PersonType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = PersonType(i)
		return nil
	}
	switch str {
	case "Supplier":
		*t = PersonSupplier
	case "Customer":
		*t = PersonCustomer
	}
	return nil
}

func (t PersonType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *PersonType) Scan(value interface{}) error {
	if value == nil {
		*t = PersonSupplier
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = PersonType(v)
	case int:
		*t = PersonType(v)
	}
	return nil
}
