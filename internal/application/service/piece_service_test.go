package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/brechoria/brecho-api/internal/domain/enum"
)

func TestIntakeAssignsSequentialLabels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.seedPurchasedPiece(t, 1000)
	second := f.seedPurchasedPiece(t, 2000)
	if first.LabelCode != 1 || second.LabelCode != 2 {
		t.Fatalf("expected labels 1 and 2, got %d and %d", first.LabelCode, second.LabelCode)
	}

	found, err := f.pieces.GetPieceByLabel(ctx, 2)
	if err != nil {
		t.Fatalf("get by label: %v", err)
	}
	if found.ID != second.ID {
		t.Fatalf("label 2 resolved to wrong piece")
	}

	// Labels are never reused, even after a delete.
	if err := f.pieces.DeletePiece(ctx, second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	third := f.seedPurchasedPiece(t, 3000)
	if third.LabelCode != 3 {
		t.Fatalf("expected label 3, got %d", third.LabelCode)
	}
}

func TestIntakeConsignmentRequiresSupplier(t *testing.T) {
	f := newFixture(t)

	_, err := f.pieces.IntakePiece(context.Background(), &IntakePieceInput{
		Description:     "Saia jeans",
		AcquisitionType: enum.AcquisitionConsignment,
		SalePrice:       2000,
	})
	assertAppError(t, err, http.StatusBadRequest)
}

func TestIntakeRecordsMovement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	piece := f.seedPurchasedPiece(t, 1500)

	movements, err := f.pieces.ListMovements(ctx, piece.ID)
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}
	if movements[0].ToStatus != enum.PieceStatusAvailable {
		t.Fatalf("expected intake to available, got %s", movements[0].ToStatus)
	}
}

func TestTransitionEnforcesStatusMachine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.seedSupplier(t, 50)

	piece, err := f.pieces.IntakePiece(ctx, &IntakePieceInput{
		Description:     "Blusa tricot",
		AcquisitionType: enum.AcquisitionConsignment,
		SalePrice:       3000,
		SupplierID:      &supplier.ID,
	})
	if err != nil {
		t.Fatalf("intake: %v", err)
	}
	if piece.Status != enum.PieceStatusNew {
		t.Fatalf("expected new piece, got %s", piece.Status)
	}

	// New pieces cannot jump straight to returned.
	_, err = f.pieces.Transition(ctx, piece.ID, enum.PieceStatusReturnedToSupplier, "")
	assertAppError(t, err, http.StatusConflict)

	piece, err = f.pieces.Transition(ctx, piece.ID, enum.PieceStatusPendingAuthorization, "aguardando dona")
	if err != nil {
		t.Fatalf("to pending: %v", err)
	}
	piece, err = f.pieces.Transition(ctx, piece.ID, enum.PieceStatusAvailable, "autorizada")
	if err != nil {
		t.Fatalf("to available: %v", err)
	}
	if piece.Status != enum.PieceStatusAvailable {
		t.Fatalf("expected available, got %s", piece.Status)
	}

	// Selling happens through checkout only.
	_, err = f.pieces.Transition(ctx, piece.ID, enum.PieceStatusSold, "")
	assertAppError(t, err, http.StatusConflict)

	movements, err := f.pieces.ListMovements(ctx, piece.ID)
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(movements) != 3 {
		t.Fatalf("expected 3 movements, got %d", len(movements))
	}
}

func TestReserveAndRelease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	piece := f.seedPurchasedPiece(t, 2500)

	reserved, err := f.pieces.Reserve(ctx, piece.ID, true, "checkout online")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if reserved.Status != enum.PieceStatusReservedOnline {
		t.Fatalf("expected reserved online, got %s", reserved.Status)
	}

	// A reserved piece cannot be reserved again.
	_, err = f.pieces.Reserve(ctx, piece.ID, false, "")
	assertAppError(t, err, http.StatusConflict)

	released, err := f.pieces.Release(ctx, piece.ID, "abandonou carrinho")
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released.Status != enum.PieceStatusAvailable {
		t.Fatalf("expected available, got %s", released.Status)
	}

	// Releasing an unreserved piece is refused.
	_, err = f.pieces.Release(ctx, piece.ID, "")
	assertAppError(t, err, http.StatusConflict)
}

func TestDeletePieceGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)
	supplier := f.seedSupplier(t, 50)
	piece := f.seedConsignedPiece(t, supplier.ID, 4000)

	if _, err := f.drawers.Open(ctx, operator.ID, 0); err != nil {
		t.Fatalf("open drawer: %v", err)
	}
	result, err := f.sales.Checkout(ctx, &CheckoutInput{
		OperatorID: operator.ID,
		Lines:      []CheckoutLineInput{{PieceID: piece.ID}},
		Payments:   []CheckoutPaymentInput{{Method: enum.PaymentCash, Amount: 4000}},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// Sold pieces stay on the books.
	err = f.pieces.DeletePiece(ctx, piece.ID)
	assertAppError(t, err, http.StatusConflict)

	// Back in stock the piece still carries its commission entries, so
	// it still cannot be deleted.
	if _, err := f.sales.ReturnLine(ctx, result.Order.ID, piece.ID, "arrependimento"); err != nil {
		t.Fatalf("return: %v", err)
	}
	err = f.pieces.DeletePiece(ctx, piece.ID)
	assertAppError(t, err, http.StatusConflict)
}
