package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/google/uuid"
)

func TestPostEntryValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.seedSupplier(t, 50)

	_, err := f.ledger.PostEntry(ctx, &PostEntryInput{
		PersonType: enum.PersonSupplier,
		PersonID:   supplier.ID,
		Direction:  enum.LedgerCredit,
		Amount:     0,
		Reason:     "acerto",
	})
	assertAppError(t, err, http.StatusBadRequest)

	_, err = f.ledger.PostEntry(ctx, &PostEntryInput{
		PersonType: enum.PersonSupplier,
		PersonID:   supplier.ID,
		Direction:  enum.LedgerCredit,
		Amount:     100,
	})
	assertAppError(t, err, http.StatusBadRequest)

	_, err = f.ledger.PostEntry(ctx, &PostEntryInput{
		PersonType: enum.PersonSupplier,
		PersonID:   uuid.New(),
		Direction:  enum.LedgerCredit,
		Amount:     100,
		Reason:     "acerto",
	})
	assertAppError(t, err, http.StatusNotFound)
}

func TestStatementCarriesRunningBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.seedSupplier(t, 50)

	post := func(dir enum.LedgerDirection, amount int64, reason string) {
		t.Helper()
		_, err := f.ledger.PostEntry(ctx, &PostEntryInput{
			PersonType: enum.PersonSupplier,
			PersonID:   supplier.ID,
			Direction:  dir,
			Amount:     amount,
			Reason:     reason,
		})
		if err != nil {
			t.Fatalf("post %s: %v", reason, err)
		}
	}
	post(enum.LedgerCredit, 10000, "comissao")
	post(enum.LedgerDebit, 3000, "adiantamento")
	post(enum.LedgerCredit, 500, "comissao")

	statement, err := f.ledger.GetStatement(ctx, enum.PersonSupplier, supplier.ID)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if len(statement) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(statement))
	}
	wantBalances := []int64{10000, 7000, 7500}
	for i, line := range statement {
		if line.Balance != wantBalances[i] {
			t.Fatalf("line %d: expected balance %d, got %d", i, wantBalances[i], line.Balance)
		}
	}

	balance, err := f.ledger.GetBalance(ctx, enum.PersonSupplier, supplier.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 7500 {
		t.Fatalf("expected balance 7500, got %d", balance)
	}
}

func TestListPayablesSkipsSettledAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owed := f.seedSupplier(t, 50)
	settled := f.seedSupplier(t, 50)

	entries := []struct {
		personID uuid.UUID
		dir      enum.LedgerDirection
		amount   int64
	}{
		{owed.ID, enum.LedgerCredit, 4000},
		{settled.ID, enum.LedgerCredit, 2000},
		{settled.ID, enum.LedgerDebit, 2000},
	}
	for _, e := range entries {
		_, err := f.ledger.PostEntry(ctx, &PostEntryInput{
			PersonType: enum.PersonSupplier,
			PersonID:   e.personID,
			Direction:  e.dir,
			Amount:     e.amount,
			Reason:     "acerto",
		})
		if err != nil {
			t.Fatalf("post: %v", err)
		}
	}

	payables, err := f.ledger.ListPayables(ctx, enum.PersonSupplier)
	if err != nil {
		t.Fatalf("payables: %v", err)
	}
	if len(payables) != 1 {
		t.Fatalf("expected 1 payable, got %d", len(payables))
	}
	if payables[0].PersonID != owed.ID || payables[0].Balance != 4000 {
		t.Fatalf("unexpected payable: %+v", payables[0])
	}
}

func TestSettlePayoutGuardsTheBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.seedSupplier(t, 50)

	_, err := f.ledger.PostEntry(ctx, &PostEntryInput{
		PersonType: enum.PersonSupplier,
		PersonID:   supplier.ID,
		Direction:  enum.LedgerCredit,
		Amount:     5000,
		Reason:     "comissao",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	_, err = f.ledger.SettlePayout(ctx, enum.PersonSupplier, supplier.ID, 6000, "")
	assertAppError(t, err, http.StatusConflict)

	entry, err := f.ledger.SettlePayout(ctx, enum.PersonSupplier, supplier.ID, 5000, "")
	if err != nil {
		t.Fatalf("payout: %v", err)
	}
	if entry.Direction != enum.LedgerDebit || entry.Amount != 5000 {
		t.Fatalf("unexpected payout entry: %s %d", entry.Direction, entry.Amount)
	}
	if entry.Reason != "payout" {
		t.Fatalf("expected default reason, got %q", entry.Reason)
	}

	balance, err := f.ledger.GetBalance(ctx, enum.PersonSupplier, supplier.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected settled account, got %d", balance)
	}

	// A drained account cannot be paid again.
	_, err = f.ledger.SettlePayout(ctx, enum.PersonSupplier, supplier.ID, 1, "")
	assertAppError(t, err, http.StatusConflict)
}
