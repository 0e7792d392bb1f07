package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	infra "github.com/brechoria/brecho-api/internal/infrastructure/repository"
	"github.com/brechoria/brecho-api/pkg/notifier"
)

// seedSettings creates the settings row with a cycle that just ran, so
// off-schedule checks are deterministically not due.
func (f *fixture) seedSettings(t *testing.T) *entity.StoreSettings {
	t.Helper()
	ran := time.Now()
	s := entity.StoreSettings{
		CreditResetDay:        time.Now().Day()%28 + 1,
		CreditResetHour:       0,
		CashbackPercent:       5,
		DefaultCommissionRate: 50,
		LastMonthlyCycleAt:    &ran,
	}
	if err := f.db.Create(&s).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	return &s
}

func TestGrantCreditDefaultsToEndOfMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t)

	grant, err := f.credits.GrantCredit(ctx, &GrantCreditInput{CustomerID: customer.ID, Amount: 1500})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if grant.Status != enum.CreditActive {
		t.Fatalf("expected active grant, got %s", grant.Status)
	}
	want := entity.EndOfMonth(time.Now())
	if !grant.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %s, got %s", want, grant.ExpiresAt)
	}

	balance, err := f.credits.ActiveBalance(ctx, customer.ID)
	if err != nil {
		t.Fatalf("active balance: %v", err)
	}
	if balance != 1500 {
		t.Fatalf("expected balance 1500, got %d", balance)
	}
}

func TestGrantCreditValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t)

	_, err := f.credits.GrantCredit(ctx, &GrantCreditInput{CustomerID: customer.ID, Amount: 0})
	assertAppError(t, err, http.StatusBadRequest)

	past := time.Now().Add(-time.Hour)
	_, err = f.credits.GrantCredit(ctx, &GrantCreditInput{CustomerID: customer.ID, Amount: 100, ExpiresAt: &past})
	assertAppError(t, err, http.StatusBadRequest)
}

func TestGrantCreditWithCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t)

	grant, err := f.credits.GrantCredit(ctx, &GrantCreditInput{CustomerID: customer.ID, Amount: 2000, WithCoupon: true})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if grant.CouponCode == nil || *grant.CouponCode == "" {
		t.Fatalf("expected coupon code on grant")
	}

	found, err := f.credits.GetGrantByCoupon(ctx, *grant.CouponCode)
	if err != nil {
		t.Fatalf("get by coupon: %v", err)
	}
	if found.ID != grant.ID {
		t.Fatalf("coupon resolved to wrong grant")
	}
}

func TestConsumeRejectsAnotherCustomersGrant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedCustomer(t)
	other := f.seedCustomer(t)

	grant, err := f.credits.GrantCredit(ctx, &GrantCreditInput{CustomerID: owner.ID, Amount: 500})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}

	_, err = f.credits.Consume(ctx, grant.ID, other.ID)
	assertAppError(t, err, http.StatusConflict)

	consumed, err := f.credits.Consume(ctx, grant.ID, owner.ID)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if consumed.Status != enum.CreditUsed || consumed.UsedAt == nil {
		t.Fatalf("expected used grant, got %s", consumed.Status)
	}

	// A used grant cannot be consumed twice.
	_, err = f.credits.Consume(ctx, grant.ID, owner.ID)
	assertAppError(t, err, http.StatusConflict)
}

func TestDailySweepExpiresOnlyDueGrants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t)

	overdue := entity.CreditGrant{
		CustomerID: customer.ID,
		Amount:     1000,
		Status:     enum.CreditActive,
		ExpiresAt:  time.Now().Add(-24 * time.Hour),
	}
	if err := f.db.Create(&overdue).Error; err != nil {
		t.Fatalf("seed overdue: %v", err)
	}
	if _, err := f.credits.GrantCredit(ctx, &GrantCreditInput{CustomerID: customer.ID, Amount: 2000}); err != nil {
		t.Fatalf("grant current: %v", err)
	}

	expired, err := f.credits.RunDailySweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected 1 expired, got %d", expired)
	}

	// The sweep is idempotent.
	expired, err = f.credits.RunDailySweep(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if expired != 0 {
		t.Fatalf("expected 0 expired on rerun, got %d", expired)
	}

	balance, err := f.credits.ActiveBalance(ctx, customer.ID)
	if err != nil {
		t.Fatalf("active balance: %v", err)
	}
	if balance != 2000 {
		t.Fatalf("expected only the current grant usable, got %d", balance)
	}
}

func TestMonthlyCycleExpiresActiveAndActivatesPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := f.seedSettings(t)
	customer := f.seedCustomer(t)

	if _, err := f.credits.GrantCredit(ctx, &GrantCreditInput{CustomerID: customer.ID, Amount: 1000}); err != nil {
		t.Fatalf("grant active: %v", err)
	}
	pending, err := f.credits.GrantCredit(ctx, &GrantCreditInput{CustomerID: customer.ID, Amount: 3000, Pending: true})
	if err != nil {
		t.Fatalf("grant pending: %v", err)
	}

	// Off schedule the cycle refuses to run.
	_, err = f.credits.RunMonthlyCycle(ctx, false)
	assertAppError(t, err, http.StatusConflict)

	result, err := f.credits.RunMonthlyCycle(ctx, true)
	if err != nil {
		t.Fatalf("forced cycle: %v", err)
	}
	if result.Expired != 1 || result.Activated != 1 {
		t.Fatalf("expected 1 expired and 1 activated, got %+v", result)
	}

	activated, err := f.credits.GetGrant(ctx, pending.ID)
	if err != nil {
		t.Fatalf("get activated: %v", err)
	}
	if activated.Status != enum.CreditActive {
		t.Fatalf("expected pending grant activated, got %s", activated.Status)
	}
	want := entity.EndOfMonth(time.Now())
	if !activated.ExpiresAt.Equal(want) {
		t.Fatalf("expected activation expiry %s, got %s", want, activated.ExpiresAt)
	}

	settings, err := f.settings.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings.LastMonthlyCycleAt == nil || !settings.LastMonthlyCycleAt.After(*seeded.LastMonthlyCycleAt) {
		t.Fatalf("expected last cycle timestamp advanced")
	}

	balance, err := f.credits.ActiveBalance(ctx, customer.ID)
	if err != nil {
		t.Fatalf("active balance: %v", err)
	}
	if balance != 3000 {
		t.Fatalf("expected only the activated grant usable, got %d", balance)
	}
}

// recordingNotifier collects delivered events for assertions.
type recordingNotifier struct {
	events chan notifier.Event
}

func (n *recordingNotifier) Notify(recipient string, event notifier.Event, vars map[string]string) error {
	n.events <- event
	return nil
}

func TestMonthlyCycleNotifiesExpiredAndActivatedHolders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedSettings(t)

	email := "clara@test.local"
	customer := entity.Customer{Name: "Clara", Email: &email}
	if err := f.db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	// Grants go in through the quiet fixture service; only the cycle
	// run below delivers through the recorder.
	if _, err := f.credits.GrantCredit(ctx, &GrantCreditInput{CustomerID: customer.ID, Amount: 1000}); err != nil {
		t.Fatalf("grant active: %v", err)
	}
	if _, err := f.credits.GrantCredit(ctx, &GrantCreditInput{CustomerID: customer.ID, Amount: 3000, Pending: true}); err != nil {
		t.Fatalf("grant pending: %v", err)
	}

	rec := &recordingNotifier{events: make(chan notifier.Event, 8)}
	credits := NewCreditService(
		infra.NewCreditRepository(f.db),
		infra.NewCustomerRepository(f.db),
		infra.NewSettingsRepository(f.db),
		infra.NewTxManager(f.db),
		rec,
	)

	if _, err := credits.RunMonthlyCycle(ctx, true); err != nil {
		t.Fatalf("forced cycle: %v", err)
	}

	// Both the force-expired holder and the activated holder hear about
	// it. Deliveries are asynchronous.
	got := map[notifier.Event]int{}
	deadline := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case event := <-rec.events:
			got[event]++
		case <-deadline:
			t.Fatalf("timed out waiting for cycle notifications, got %v", got)
		}
	}
	if got[notifier.EventCreditExpiring] != 1 {
		t.Fatalf("expected one expiry notice, got %v", got)
	}
	if got[notifier.EventCreditGranted] != 1 {
		t.Fatalf("expected one activation notice, got %v", got)
	}
}
