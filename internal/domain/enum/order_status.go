package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the status of a sale order
type OrderStatus int

const (
	OrderStatusDraft     OrderStatus = 0
	OrderStatusPaid      OrderStatus = 1
	OrderStatusDelivered OrderStatus = 2
	OrderStatusCancelled OrderStatus = 3
	OrderStatusReturned  OrderStatus = 4
)

func (s OrderStatus) String() string {
	return [...]string{"Draft", "Paid", "Delivered", "Cancelled", "Returned"}[s]
}

// Active reports whether the order still binds its pieces. Cancelled
// and returned orders release their lines for resale.
func (s OrderStatus) Active() bool {
	return s != OrderStatusCancelled && s != OrderStatusReturned
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = OrderStatusDraft
	case "Paid":
		*s = OrderStatusPaid
	case "Delivered":
		*s = OrderStatusDelivered
	case "Cancelled":
		*s = OrderStatusCancelled
	case "Returned":
		*s = OrderStatusReturned
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}
