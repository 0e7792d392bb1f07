package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateOrderCode generates a unique human-readable order code, e.g.
// VND-20260828-4F2A91BC.
func GenerateOrderCode(at time.Time) string {
	return "VND-" + at.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateCouponCode generates a unique coupon code for a barter voucher
func GenerateCouponCode() string {
	return "VALE-" + strings.ToUpper(uuid.New().String()[:8])
}
