package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/pkg/apperror"
	"github.com/google/uuid"
)

func TestCheckoutRequiresOpenDrawer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)
	piece := f.seedPurchasedPiece(t, 4000)

	_, err := f.sales.Checkout(ctx, &CheckoutInput{
		OperatorID: operator.ID,
		Lines:      []CheckoutLineInput{{PieceID: piece.ID}},
		Payments:   []CheckoutPaymentInput{{Method: enum.PaymentCash, Amount: 4000}},
	})
	assertAppError(t, err, http.StatusPreconditionFailed)

	// The sale rolled back, so the piece is still for sale.
	var count int64
	if err := f.db.Model(&entity.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orders, got %d", count)
	}
	got, err := f.pieces.GetPiece(ctx, piece.ID)
	if err != nil {
		t.Fatalf("get piece: %v", err)
	}
	if got.Status != enum.PieceStatusAvailable {
		t.Fatalf("expected piece still available, got %s", got.Status)
	}
}

func TestCheckoutCashSaleWithCommissionAndCashback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	settings := f.seedSettings(t)
	operator := f.seedOperator(t)
	supplier := f.seedSupplier(t, 50)
	customer := f.seedCustomer(t)
	piece := f.seedConsignedPiece(t, supplier.ID, 4000)

	if _, err := f.drawers.Open(ctx, operator.ID, 10000); err != nil {
		t.Fatalf("open drawer: %v", err)
	}

	result, err := f.sales.Checkout(ctx, &CheckoutInput{
		OperatorID: operator.ID,
		CustomerID: &customer.ID,
		Lines:      []CheckoutLineInput{{PieceID: piece.ID}},
		Payments:   []CheckoutPaymentInput{{Method: enum.PaymentCash, Amount: 4000}},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	order := result.Order
	if order.SubTotal != 4000 || order.Total != 4000 || order.Discount != 0 {
		t.Fatalf("unexpected totals: sub=%d total=%d discount=%d", order.SubTotal, order.Total, order.Discount)
	}
	if order.Status != enum.OrderStatusPaid {
		t.Fatalf("expected paid order, got %s", order.Status)
	}

	got, err := f.pieces.GetPiece(ctx, piece.ID)
	if err != nil {
		t.Fatalf("get piece: %v", err)
	}
	if got.Status != enum.PieceStatusSold {
		t.Fatalf("expected sold piece, got %s", got.Status)
	}
	if got.SaleDate == nil {
		t.Fatalf("expected sale date set")
	}

	// 50% of the charged price lands on the supplier's account.
	balance, err := f.ledger.GetBalance(ctx, enum.PersonSupplier, supplier.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 2000 {
		t.Fatalf("expected supplier balance 2000, got %d", balance)
	}

	// Cash lands in the operator's drawer.
	session, err := f.drawers.GetCurrent(ctx, operator.ID)
	if err != nil {
		t.Fatalf("get current drawer: %v", err)
	}
	if session.CashIn != 4000 {
		t.Fatalf("expected cash in 4000, got %d", session.CashIn)
	}

	// The identified buyer earns 5% cashback as active store credit.
	if result.Cashback == nil {
		t.Fatalf("expected cashback grant")
	}
	if result.Cashback.Amount != 200 {
		t.Fatalf("expected cashback 200, got %d", result.Cashback.Amount)
	}
	if result.Cashback.Status != enum.CreditActive {
		t.Fatalf("expected active cashback, got %s", result.Cashback.Status)
	}
	// Cashback expires at the configured monthly reset, not at a flat
	// end of month.
	wantExpiry := settings.NextReset(time.Now())
	if !result.Cashback.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected cashback expiry %s, got %s", wantExpiry, result.Cashback.ExpiresAt)
	}
}

func TestCheckoutDiscountPaysCommissionOnCharged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)
	supplier := f.seedSupplier(t, 50)
	piece := f.seedConsignedPiece(t, supplier.ID, 4000)

	if _, err := f.drawers.Open(ctx, operator.ID, 0); err != nil {
		t.Fatalf("open drawer: %v", err)
	}

	charged := int64(3000)
	result, err := f.sales.Checkout(ctx, &CheckoutInput{
		OperatorID: operator.ID,
		Lines:      []CheckoutLineInput{{PieceID: piece.ID, ChargedPrice: &charged}},
		Payments:   []CheckoutPaymentInput{{Method: enum.PaymentPix, Amount: 3000}},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if result.Order.SubTotal != 3000 || result.Order.Total != 3000 {
		t.Fatalf("unexpected totals: sub=%d total=%d", result.Order.SubTotal, result.Order.Total)
	}

	// Commission applies to what was collected, not the list price.
	balance, err := f.ledger.GetBalance(ctx, enum.PersonSupplier, supplier.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 1500 {
		t.Fatalf("expected commission 1500 on charged price, got %d", balance)
	}
}

func TestCheckoutRejectsSoldPiece(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)
	piece := f.seedPurchasedPiece(t, 2500)

	if _, err := f.drawers.Open(ctx, operator.ID, 0); err != nil {
		t.Fatalf("open drawer: %v", err)
	}

	sell := func() error {
		_, err := f.sales.Checkout(ctx, &CheckoutInput{
			OperatorID: operator.ID,
			Lines:      []CheckoutLineInput{{PieceID: piece.ID}},
			Payments:   []CheckoutPaymentInput{{Method: enum.PaymentCash, Amount: 2500}},
		})
		return err
	}
	if err := sell(); err != nil {
		t.Fatalf("first sale: %v", err)
	}
	assertAppError(t, sell(), http.StatusConflict)
}

func TestCheckoutRejectsPaymentsOverSubtotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)
	piece := f.seedPurchasedPiece(t, 4000)

	if _, err := f.drawers.Open(ctx, operator.ID, 0); err != nil {
		t.Fatalf("open drawer: %v", err)
	}

	_, err := f.sales.Checkout(ctx, &CheckoutInput{
		OperatorID: operator.ID,
		Lines:      []CheckoutLineInput{{PieceID: piece.ID}},
		Payments:   []CheckoutPaymentInput{{Method: enum.PaymentCash, Amount: 5000}},
	})
	assertAppError(t, err, http.StatusBadRequest)

	// Everything rolled back, including the piece status flip.
	got, err := f.pieces.GetPiece(ctx, piece.ID)
	if err != nil {
		t.Fatalf("get piece: %v", err)
	}
	if got.Status != enum.PieceStatusAvailable {
		t.Fatalf("expected piece still available, got %s", got.Status)
	}
	session, err := f.drawers.GetCurrent(ctx, operator.ID)
	if err != nil {
		t.Fatalf("get current drawer: %v", err)
	}
	if session.CashIn != 0 {
		t.Fatalf("expected no cash in after rollback, got %d", session.CashIn)
	}
}

func TestCheckoutStoreCreditConsumesGrantWhole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)
	customer := f.seedCustomer(t)
	piece := f.seedPurchasedPiece(t, 4000)

	if _, err := f.drawers.Open(ctx, operator.ID, 0); err != nil {
		t.Fatalf("open drawer: %v", err)
	}
	grant, err := f.credits.GrantCredit(ctx, &GrantCreditInput{CustomerID: customer.ID, Amount: 1000})
	if err != nil {
		t.Fatalf("grant credit: %v", err)
	}

	// Partial use of a grant is refused.
	_, err = f.sales.Checkout(ctx, &CheckoutInput{
		OperatorID: operator.ID,
		CustomerID: &customer.ID,
		Lines:      []CheckoutLineInput{{PieceID: piece.ID}},
		Payments: []CheckoutPaymentInput{
			{Method: enum.PaymentStoreCredit, Amount: 500, GrantID: &grant.ID},
			{Method: enum.PaymentCash, Amount: 3500},
		},
	})
	assertAppError(t, err, http.StatusConflict)

	// Matching the grant exactly goes through.
	result, err := f.sales.Checkout(ctx, &CheckoutInput{
		OperatorID: operator.ID,
		CustomerID: &customer.ID,
		Lines:      []CheckoutLineInput{{PieceID: piece.ID}},
		Payments: []CheckoutPaymentInput{
			{Method: enum.PaymentStoreCredit, Amount: 1000, GrantID: &grant.ID},
			{Method: enum.PaymentCash, Amount: 3000},
		},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if result.Order.Total != 4000 {
		t.Fatalf("expected total 4000, got %d", result.Order.Total)
	}

	used, err := f.credits.GetGrant(ctx, grant.ID)
	if err != nil {
		t.Fatalf("get grant: %v", err)
	}
	if used.Status != enum.CreditUsed {
		t.Fatalf("expected used grant, got %s", used.Status)
	}
	if used.Amount != 0 {
		t.Fatalf("consumed grant amount must be reduced to zero, got %d", used.Amount)
	}

	// The customer's account shows the full credit leaving.
	var debit entity.LedgerEntry
	err = f.db.
		Where("person_id = ? AND direction = ?", customer.ID, enum.LedgerDebit).
		First(&debit).Error
	if err != nil {
		t.Fatalf("find debit: %v", err)
	}
	if debit.Amount != 1000 {
		t.Fatalf("expected debit of 1000, got %d", debit.Amount)
	}

	// Only the cash portion reached the drawer.
	session, err := f.drawers.GetCurrent(ctx, operator.ID)
	if err != nil {
		t.Fatalf("get current drawer: %v", err)
	}
	if session.CashIn != 3000 {
		t.Fatalf("expected cash in 3000, got %d", session.CashIn)
	}
}

func TestCheckoutStoreCreditRequiresCustomer(t *testing.T) {
	f := newFixture(t)
	operator := f.seedOperator(t)
	piece := f.seedPurchasedPiece(t, 1000)

	_, err := f.sales.Checkout(context.Background(), &CheckoutInput{
		OperatorID: operator.ID,
		Lines:      []CheckoutLineInput{{PieceID: piece.ID}},
		Payments:   []CheckoutPaymentInput{{Method: enum.PaymentStoreCredit, Amount: 1000}},
	})
	assertAppError(t, err, http.StatusBadRequest)
}

func TestReturnLineRestoresPieceAndReversesCommission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)
	supplier := f.seedSupplier(t, 50)
	customer := f.seedCustomer(t)
	piece := f.seedConsignedPiece(t, supplier.ID, 4000)

	if _, err := f.drawers.Open(ctx, operator.ID, 0); err != nil {
		t.Fatalf("open drawer: %v", err)
	}
	result, err := f.sales.Checkout(ctx, &CheckoutInput{
		OperatorID: operator.ID,
		CustomerID: &customer.ID,
		Lines:      []CheckoutLineInput{{PieceID: piece.ID}},
		Payments:   []CheckoutPaymentInput{{Method: enum.PaymentCash, Amount: 4000}},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	order, err := f.sales.ReturnLine(ctx, result.Order.ID, piece.ID, "defeito")
	if err != nil {
		t.Fatalf("return line: %v", err)
	}
	if order.Status != enum.OrderStatusReturned {
		t.Fatalf("expected returned order, got %s", order.Status)
	}

	got, err := f.pieces.GetPiece(ctx, piece.ID)
	if err != nil {
		t.Fatalf("get piece: %v", err)
	}
	if got.Status != enum.PieceStatusAvailable {
		t.Fatalf("expected piece back in stock, got %s", got.Status)
	}
	if got.SaleDate != nil {
		t.Fatalf("expected sale date cleared")
	}

	// Commission credit and its reversal cancel out.
	balance, err := f.ledger.GetBalance(ctx, enum.PersonSupplier, supplier.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected zero supplier balance after reversal, got %d", balance)
	}

	// The buyer was refunded in store credit for what they paid.
	grants, err := f.credits.ListCustomerCredits(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list credits: %v", err)
	}
	var refund *entity.CreditGrant
	for i := range grants {
		if grants[i].Amount == 4000 {
			refund = &grants[i]
		}
	}
	if refund == nil {
		t.Fatalf("expected a 4000 refund grant, got %d grants", len(grants))
	}
	if refund.Status != enum.CreditActive {
		t.Fatalf("expected active refund grant, got %s", refund.Status)
	}
	settings, err := f.settings.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if want := settings.NextReset(time.Now()); !refund.ExpiresAt.Equal(want) {
		t.Fatalf("expected refund expiry %s, got %s", want, refund.ExpiresAt)
	}

	// A returned order cannot be returned again.
	_, err = f.sales.ReturnLine(ctx, result.Order.ID, piece.ID, "again")
	assertAppError(t, err, http.StatusConflict)
}

func TestRecomputeCommissionPostsTheDifference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)
	supplier := f.seedSupplier(t, 50)
	piece := f.seedConsignedPiece(t, supplier.ID, 4000)

	if _, err := f.drawers.Open(ctx, operator.ID, 0); err != nil {
		t.Fatalf("open drawer: %v", err)
	}
	if _, err := f.sales.Checkout(ctx, &CheckoutInput{
		OperatorID: operator.ID,
		Lines:      []CheckoutLineInput{{PieceID: piece.ID}},
		Payments:   []CheckoutPaymentInput{{Method: enum.PaymentCash, Amount: 4000}},
	}); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// Nothing changed yet, so there is nothing to post.
	posted, err := f.sales.RecomputeCommission(ctx, piece.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if len(posted) != 0 {
		t.Fatalf("expected no entries for an unchanged rate, got %d", len(posted))
	}

	// The rate was wrong; fixing it reposts only the difference.
	if err := f.db.Model(&entity.Supplier{}).Where("id = ?", supplier.ID).Update("commission_rate", 60).Error; err != nil {
		t.Fatalf("update rate: %v", err)
	}
	posted, err = f.sales.RecomputeCommission(ctx, piece.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if len(posted) != 1 {
		t.Fatalf("expected one diff entry, got %d", len(posted))
	}
	if posted[0].Direction != enum.LedgerCredit || posted[0].Amount != 400 {
		t.Fatalf("expected a 400 credit, got %s %d", posted[0].Direction, posted[0].Amount)
	}

	balance, err := f.ledger.GetBalance(ctx, enum.PersonSupplier, supplier.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 2400 {
		t.Fatalf("expected balance 2400 at the new rate, got %d", balance)
	}
}

func TestStockHookPanicDoesNotFailSaleOrReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)
	piece := f.seedPurchasedPiece(t, 4000)

	// A misbehaving hook must never surface; the one after it still runs.
	var seen []enum.PieceStatus
	f.sales.OnStockChanged(func(pieceID uuid.UUID, status enum.PieceStatus) {
		panic("storefront push blew up")
	})
	f.sales.OnStockChanged(func(pieceID uuid.UUID, status enum.PieceStatus) {
		seen = append(seen, status)
	})

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
	if _, err := f.sales.ReturnLine(ctx, result.Order.ID, piece.ID, "trocou de ideia"); err != nil {
		t.Fatalf("return: %v", err)
	}

	if len(seen) != 2 || seen[0] != enum.PieceStatusSold || seen[1] != enum.PieceStatusAvailable {
		t.Fatalf("expected hooks to fire for sale then return, got %v", seen)
	}
}

func TestConcurrentCheckoutsSellPieceOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	operator := f.seedOperator(t)
	piece := f.seedPurchasedPiece(t, 4000)

	if _, err := f.drawers.Open(ctx, operator.ID, 0); err != nil {
		t.Fatalf("open drawer: %v", err)
	}

	// One connection stands in for postgres row locks: concurrent
	// transactions serialize instead of corrupting each other.
	sqlDB, err := f.db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	const buyers = 8
	errs := make(chan error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sales.Checkout(ctx, &CheckoutInput{
				OperatorID: operator.ID,
				Lines:      []CheckoutLineInput{{PieceID: piece.ID}},
				Payments:   []CheckoutPaymentInput{{Method: enum.PaymentCash, Amount: 4000}},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var sold int
	for err := range errs {
		if err == nil {
			sold++
			continue
		}
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			t.Fatalf("expected AppError from losing checkout, got %T: %v", err, err)
		}
		if appErr.Code != http.StatusConflict && appErr.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 409 or 503 from losing checkout, got %d (%s)", appErr.Code, appErr.Message)
		}
	}
	if sold != 1 {
		t.Fatalf("expected exactly one winning checkout, got %d", sold)
	}

	got, err := f.pieces.GetPiece(ctx, piece.ID)
	if err != nil {
		t.Fatalf("get piece: %v", err)
	}
	if got.Status != enum.PieceStatusSold {
		t.Fatalf("expected piece sold once, got %s", got.Status)
	}
	var lines int64
	if err := f.db.Model(&entity.OrderLine{}).Where("piece_id = ?", piece.ID).Count(&lines).Error; err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if lines != 1 {
		t.Fatalf("expected one order line for the piece, got %d", lines)
	}
}
