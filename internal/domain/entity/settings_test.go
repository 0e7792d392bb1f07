package entity

import (
	"testing"
	"time"
)

func TestNextReset(t *testing.T) {
	s := StoreSettings{CreditResetDay: 1, CreditResetHour: 8}

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	got := s.NextReset(now)
	want := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	// Before the boundary on reset day, the reset is still today.
	now = time.Date(2026, 4, 1, 7, 0, 0, 0, time.UTC)
	got = s.NextReset(now)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestCycleDue(t *testing.T) {
	s := StoreSettings{CreditResetDay: 10, CreditResetHour: 8}

	if s.CycleDue(time.Date(2026, 3, 10, 7, 59, 0, 0, time.UTC)) {
		t.Fatalf("before the boundary must not be due")
	}
	if !s.CycleDue(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("reset day at the hour must be due")
	}
	// An outage over the reset day does not lose the month: the cycle
	// is still due on the next check.
	if !s.CycleDue(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("a missed boundary must stay due until a cycle runs")
	}

	ran := time.Date(2026, 3, 10, 8, 5, 0, 0, time.UTC)
	s.LastMonthlyCycleAt = &ran
	if s.CycleDue(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("a cycle that already ran this month must not be due again")
	}
	if s.CycleDue(time.Date(2026, 4, 10, 7, 0, 0, 0, time.UTC)) {
		t.Fatalf("next month before the boundary must not be due")
	}
	if !s.CycleDue(time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("next month at the boundary must be due again")
	}
	// Outage spanning the next boundary: still caught up.
	if !s.CycleDue(time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("a missed next-month boundary must stay due")
	}
}

func TestEndOfMonth(t *testing.T) {
	got := EndOfMonth(time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC))
	want := time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	got = EndOfMonth(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	want = time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
