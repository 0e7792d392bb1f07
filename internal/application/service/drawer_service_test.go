package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
)

func TestDrawerOpenRejectsSecondSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)

	session, err := f.drawers.Open(ctx, operator.ID, 5000)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if session.Status != enum.DrawerOpen || session.OpeningFloat != 5000 {
		t.Fatalf("unexpected session: status=%s float=%d", session.Status, session.OpeningFloat)
	}

	_, err = f.drawers.Open(ctx, operator.ID, 1000)
	assertAppError(t, err, http.StatusConflict)
}

func TestDrawerAdjustments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)

	// Adjusting with no open session is a precondition failure.
	_, err := f.drawers.Adjust(ctx, operator.ID, enum.AdjustmentTopUp, 1000, "troco")
	assertAppError(t, err, http.StatusPreconditionFailed)

	if _, err := f.drawers.Open(ctx, operator.ID, 10000); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.drawers.Adjust(ctx, operator.ID, enum.AdjustmentTopUp, 5000, "suprimento"); err != nil {
		t.Fatalf("top up: %v", err)
	}
	if _, err := f.drawers.Adjust(ctx, operator.ID, enum.AdjustmentWithdrawal, 2000, "sangria"); err != nil {
		t.Fatalf("withdrawal: %v", err)
	}

	session, err := f.drawers.GetCurrent(ctx, operator.ID)
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if balance := session.ComputedBalance(); balance != 13000 {
		t.Fatalf("expected balance 13000, got %d", balance)
	}

	// Taking out more than the drawer holds is refused.
	_, err = f.drawers.Adjust(ctx, operator.ID, enum.AdjustmentWithdrawal, 20000, "sangria")
	assertAppError(t, err, http.StatusConflict)
}

func TestDrawerCloseRecordsVariance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)

	if _, err := f.drawers.Open(ctx, operator.ID, 10000); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.drawers.Adjust(ctx, operator.ID, enum.AdjustmentTopUp, 3000, "suprimento"); err != nil {
		t.Fatalf("top up: %v", err)
	}

	counted := int64(12500)
	session, err := f.drawers.Close(ctx, operator.ID, &counted)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if session.Status != enum.DrawerClosed {
		t.Fatalf("expected closed session, got %s", session.Status)
	}
	if session.ClosingComputed != 13000 || session.ClosingCounted != 12500 {
		t.Fatalf("unexpected closing figures: computed=%d counted=%d", session.ClosingComputed, session.ClosingCounted)
	}
	if session.Variance != -500 {
		t.Fatalf("expected variance -500, got %d", session.Variance)
	}
	if session.OpenKey != nil {
		t.Fatalf("expected open key released")
	}
	if session.ClosedAt == nil {
		t.Fatalf("expected closed at set")
	}

	// No session left to close.
	_, err = f.drawers.Close(ctx, operator.ID, nil)
	assertAppError(t, err, http.StatusPreconditionFailed)

	// The operator can open a fresh session afterwards.
	if _, err := f.drawers.Open(ctx, operator.ID, 0); err != nil {
		t.Fatalf("reopen: %v", err)
	}
}

func TestDrawerCloseWithoutCountTrustsComputed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)

	if _, err := f.drawers.Open(ctx, operator.ID, 8000); err != nil {
		t.Fatalf("open: %v", err)
	}
	session, err := f.drawers.Close(ctx, operator.ID, nil)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if session.Variance != 0 || session.ClosingCounted != 8000 {
		t.Fatalf("expected zero variance at computed 8000, got counted=%d variance=%d", session.ClosingCounted, session.Variance)
	}
}

func TestForceCloseStaleLeavesTodaysSessionsOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	yesterdayOp := f.seedOperator(t)
	todayOp := f.seedOperator(t)

	stale, err := f.drawers.Open(ctx, yesterdayOp.ID, 5000)
	if err != nil {
		t.Fatalf("open stale: %v", err)
	}
	// Backdate the session to yesterday; the overnight job only closes
	// sessions from previous days.
	yesterday := time.Now().Add(-24 * time.Hour)
	if err := f.db.Model(&entity.DrawerSession{}).Where("id = ?", stale.ID).Update("opened_at", yesterday).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	if _, err := f.drawers.Open(ctx, todayOp.ID, 3000); err != nil {
		t.Fatalf("open today: %v", err)
	}

	outcomes, err := f.drawers.ForceCloseStale(ctx, time.Now())
	if err != nil {
		t.Fatalf("force close: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].SessionID != stale.ID || !outcomes[0].Closed {
		t.Fatalf("expected stale session closed, got %+v", outcomes[0])
	}

	closed, err := f.drawers.GetSession(ctx, stale.ID)
	if err != nil {
		t.Fatalf("get stale: %v", err)
	}
	if closed.Status != enum.DrawerClosed || closed.Variance != 0 {
		t.Fatalf("expected stale session closed with zero variance, got status=%s variance=%d", closed.Status, closed.Variance)
	}

	// Today's session is untouched.
	if _, err := f.drawers.GetCurrent(ctx, todayOp.ID); err != nil {
		t.Fatalf("expected today's session still open: %v", err)
	}
}

func TestForceCloseAllClosesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	opA := f.seedOperator(t)
	opB := f.seedOperator(t)

	if _, err := f.drawers.Open(ctx, opA.ID, 1000); err != nil {
		t.Fatalf("open a: %v", err)
	}
	if _, err := f.drawers.Open(ctx, opB.ID, 2000); err != nil {
		t.Fatalf("open b: %v", err)
	}

	outcomes, err := f.drawers.ForceCloseAll(ctx)
	if err != nil {
		t.Fatalf("force close all: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if !o.Closed {
			t.Fatalf("expected session %s closed: %s", o.SessionID, o.Error)
		}
	}

	var open int64
	if err := f.db.Model(&entity.DrawerSession{}).Where("status = ?", enum.DrawerOpen).Count(&open).Error; err != nil {
		t.Fatalf("count open: %v", err)
	}
	if open != 0 {
		t.Fatalf("expected no open sessions, got %d", open)
	}
}
