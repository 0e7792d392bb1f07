package notifier

import "log"

// Event identifies which notification template to send
type Event string

const (
	EventSaleReceipt    Event = "sale_receipt"
	EventCreditGranted  Event = "credit_granted"
	EventCreditExpiring Event = "credit_expiring"
	EventPayoutReady    Event = "payout_ready"
)

// Notifier delivers notifications to customers and suppliers. Callers
// fire notifications after commit and must not couple request handling
// to delivery.
type Notifier interface {
	Notify(recipient string, event Event, vars map[string]string) error
}

// NopNotifier logs notifications without delivering them. Used when
// SMTP is disabled and in tests.
type NopNotifier struct{}

func NewNopNotifier() *NopNotifier {
	return &NopNotifier{}
}

func (n *NopNotifier) Notify(recipient string, event Event, vars map[string]string) error {
	log.Printf("notification skipped (delivery disabled): event=%s recipient=%s", event, recipient)
	return nil
}
