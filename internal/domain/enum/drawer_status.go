package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DrawerStatus represents the state of a cash drawer session
type DrawerStatus int

const (
	DrawerOpen   DrawerStatus = 0
	DrawerClosed DrawerStatus = 1
)

func (s DrawerStatus) String() string {
	return [...]string{"Open", "Closed"}[s]
}

func (s DrawerStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DrawerStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = DrawerStatus(i)
		return nil
	}
	switch str {
	case "Open":
		*s = DrawerOpen
	case "Closed":
		*s = DrawerClosed
	}
	return nil
}

func (s DrawerStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DrawerStatus) Scan(value interface{}) error {
	if value == nil {
		*s = DrawerOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = DrawerStatus(v)
	case int:
		*s = DrawerStatus(v)
	}
	return nil
}

// AdjustmentType represents a manual cash movement on an open drawer
type AdjustmentType int

const (
	// AdjustmentWithdrawal (sangria) takes cash out of the drawer.
	AdjustmentWithdrawal AdjustmentType = 0
	// AdjustmentTopUp (suprimento) puts change money in.
	AdjustmentTopUp AdjustmentType = 1
)

func (t AdjustmentType) String() string {
	return [...]string{"Withdrawal", "TopUp"}[t]
}

func (t AdjustmentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *AdjustmentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = AdjustmentType(i)
		return nil
	}
	switch str {
	case "Withdrawal":
		*t = AdjustmentWithdrawal
	case "TopUp":
		*t = AdjustmentTopUp
	}
	return nil
}

func (t AdjustmentType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *AdjustmentType) Scan(value interface{}) error {
	if value == nil {
		*t = AdjustmentWithdrawal
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = AdjustmentType(v)
	case int:
		*t = AdjustmentType(v)
	}
	return nil
}
