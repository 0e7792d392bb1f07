package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/brechoria/brecho-api/pkg/apperror"
	"github.com/brechoria/brecho-api/pkg/notifier"
	"github.com/brechoria/brecho-api/pkg/pagination"
	"github.com/brechoria/brecho-api/pkg/utils"
	"github.com/google/uuid"
)

// StockChangedHook is called after a committed sale or return for each
// piece whose status changed, e.g. to push the change to an online
// storefront. Hooks run outside the transaction and their failures are
// logged, never propagated.
type StockChangedHook func(pieceID uuid.UUID, status enum.PieceStatus)

// SaleService is the checkout engine. Everything a sale touches
// (pieces, order, payments, ledger, credits, drawer) commits in one
// database transaction or not at all.
type SaleService struct {
	orderRepo    repository.OrderRepository
	pieceRepo    repository.PieceRepository
	ledgerRepo   repository.LedgerRepository
	creditRepo   repository.CreditRepository
	drawerRepo   repository.DrawerRepository
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
	settingsRepo repository.SettingsRepository
	txManager    repository.TxManager
	notify       notifier.Notifier
	stockHooks   []StockChangedHook
}

// NewSaleService creates a new sale service
func NewSaleService(
	orderRepo repository.OrderRepository,
	pieceRepo repository.PieceRepository,
	ledgerRepo repository.LedgerRepository,
	creditRepo repository.CreditRepository,
	drawerRepo repository.DrawerRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	settingsRepo repository.SettingsRepository,
	txManager repository.TxManager,
	notify notifier.Notifier,
) *SaleService {
	return &SaleService{
		orderRepo:    orderRepo,
		pieceRepo:    pieceRepo,
		ledgerRepo:   ledgerRepo,
		creditRepo:   creditRepo,
		drawerRepo:   drawerRepo,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
		notify:       notify,
	}
}

// OnStockChanged registers a post-commit stock change hook
func (s *SaleService) OnStockChanged(hook StockChangedHook) {
	s.stockHooks = append(s.stockHooks, hook)
}

// CheckoutLineInput is one piece in a checkout
type CheckoutLineInput struct {
	PieceID uuid.UUID
	// ChargedPrice overrides the list price (haggling). nil charges
	// the list price.
	ChargedPrice *int64
}

// CheckoutPaymentInput is one tender in a checkout
type CheckoutPaymentInput struct {
	Method       enum.PaymentMethod
	Amount       int64
	Installments int
	// GrantID identifies the store credit grant a StoreCredit payment
	// consumes; CouponCode does the same for a BarterVoucher payment.
	GrantID    *uuid.UUID
	CouponCode *string
}

// CheckoutInput represents a complete sale
type CheckoutInput struct {
	OperatorID uuid.UUID
	CustomerID *uuid.UUID
	Channel    string
	Lines      []CheckoutLineInput
	Payments   []CheckoutPaymentInput
}

// CheckoutResult is the committed sale plus the side effects the
// caller may want to surface.
type CheckoutResult struct {
	Order    *entity.Order       `json:"order"`
	Cashback *entity.CreditGrant `json:"cashback,omitempty"`
}

// Checkout processes a sale atomically. Pieces are locked and guarded,
// supplier commissions posted, store credit consumed, cash pushed into
// the operator's open drawer, and the order with its lines and
// payments persisted, all inside one transaction. Any failure rolls
// the whole sale back. Notifications and stock hooks fire only after
// commit.
func (s *SaleService) Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	if len(input.Lines) == 0 {
		return nil, apperror.NewBadRequestError("A sale requires at least one piece")
	}
	if len(input.Payments) == 0 {
		return nil, apperror.NewBadRequestError("A sale requires at least one payment")
	}
	if input.Channel == "" {
		input.Channel = "store"
	}
	for _, p := range input.Payments {
		if p.Amount <= 0 {
			return nil, apperror.NewBadRequestError("Payment amounts must be positive")
		}
		if (p.Method == enum.PaymentStoreCredit || p.Method == enum.PaymentBarterVoucher) && input.CustomerID == nil {
			return nil, apperror.NewBadRequestError("Store credit payments require an identified customer")
		}
	}

	var result CheckoutResult
	var soldPieces []entity.Piece

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// Selling cash requires somewhere to put it: the operator must
		// have an open drawer before a sale is accepted.
		drawer, err := s.drawerRepo.GetOpenByOperatorForUpdate(ctx, input.OperatorID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if drawer == nil {
			return apperror.NewPreconditionError("Open a cash drawer session before selling")
		}

		var customer *entity.Customer
		if input.CustomerID != nil {
			customer, err = s.customerRepo.GetByID(ctx, *input.CustomerID)
			if err != nil {
				return apperror.NewPersistenceError(err)
			}
			if customer == nil {
				return apperror.NewNotFoundError("Customer")
			}
		}

		now := time.Now()
		order := &entity.Order{
			Code:          utils.GenerateOrderCode(now),
			Channel:       input.Channel,
			CustomerID:    input.CustomerID,
			SalespersonID: input.OperatorID,
			Status:        enum.OrderStatusPaid,
			OrderDate:     now,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return apperror.NewPersistenceError(err)
		}

		// Lock and guard each piece, then mark it sold. Available
		// pieces sell directly; reserved pieces sell as the completion
		// of their reservation.
		lines := make([]entity.OrderLine, 0, len(input.Lines))
		var subTotal int64
		soldPieces = soldPieces[:0]
		for _, lineInput := range input.Lines {
			piece, err := s.pieceRepo.GetByIDForUpdate(ctx, lineInput.PieceID)
			if err != nil {
				return apperror.NewPersistenceError(err)
			}
			if piece == nil {
				return apperror.NewNotFoundError("Piece")
			}
			if !piece.Status.Sellable() && !piece.Status.Reserved() {
				return apperror.NewConflictError(fmt.Sprintf(
					"Piece %d is %s and cannot be sold", piece.LabelCode, piece.Status))
			}
			if active, err := s.orderRepo.ActiveLineForPiece(ctx, piece.ID); err != nil {
				return apperror.NewPersistenceError(err)
			} else if active != nil {
				return apperror.NewConflictError(fmt.Sprintf(
					"Piece %d is already on order", piece.LabelCode))
			}

			charged := piece.SalePrice
			if lineInput.ChargedPrice != nil {
				if *lineInput.ChargedPrice < 0 {
					return apperror.NewBadRequestError("Charged price cannot be negative")
				}
				charged = *lineInput.ChargedPrice
			}
			subTotal += charged

			from := piece.Status
			piece.Status = enum.PieceStatusSold
			piece.SaleDate = &now
			if err := s.pieceRepo.Update(ctx, piece); err != nil {
				return apperror.NewPersistenceError(err)
			}
			movement := &entity.StockMovement{
				PieceID:    piece.ID,
				FromStatus: from,
				ToStatus:   enum.PieceStatusSold,
				OrderID:    &order.ID,
				Note:       "sale " + order.Code,
			}
			if err := s.pieceRepo.CreateMovement(ctx, movement); err != nil {
				return apperror.NewPersistenceError(err)
			}

			// Consignment commission is a percentage of what was
			// actually charged, not of the list price.
			if piece.AcquisitionType == enum.AcquisitionConsignment && piece.SupplierID != nil {
				supplier, err := s.supplierRepo.GetByID(ctx, *piece.SupplierID)
				if err != nil {
					return apperror.NewPersistenceError(err)
				}
				if supplier == nil {
					return apperror.NewNotFoundError("Supplier")
				}
				commission := piece.CommissionFor(charged, supplier.CommissionRate)
				if commission > 0 {
					entry := &entity.LedgerEntry{
						PersonType:    enum.PersonSupplier,
						PersonID:      supplier.ID,
						Direction:     enum.LedgerCredit,
						Amount:        commission,
						Reason:        fmt.Sprintf("commission piece %d order %s", piece.LabelCode, order.Code),
						OriginPieceID: &piece.ID,
					}
					if err := s.ledgerRepo.Create(ctx, entry); err != nil {
						return apperror.NewPersistenceError(err)
					}
				}
			}

			lines = append(lines, entity.OrderLine{
				OrderID:      order.ID,
				PieceID:      piece.ID,
				ChargedPrice: charged,
				ListPrice:    piece.SalePrice,
			})
			soldPieces = append(soldPieces, *piece)
		}
		if err := s.orderRepo.CreateLines(ctx, lines); err != nil {
			return apperror.NewPersistenceError(err)
		}

		// Settle payments. The collected total is authoritative: the
		// order total is what the payments add up to.
		payments := make([]entity.Payment, 0, len(input.Payments))
		var total int64
		var cashIn int64
		for _, payInput := range input.Payments {
			payment := entity.Payment{
				OrderID:      order.ID,
				Method:       payInput.Method,
				Amount:       payInput.Amount,
				Installments: payInput.Installments,
			}
			if payment.Installments < 1 {
				payment.Installments = 1
			}

			switch payInput.Method {
			case enum.PaymentCash:
				cashIn += payInput.Amount
			case enum.PaymentStoreCredit, enum.PaymentBarterVoucher:
				grant, err := s.consumeGrantPayment(ctx, &payInput, *input.CustomerID)
				if err != nil {
					return err
				}
				payment.CreditGrantID = &grant.ID
				// The grant was zeroed on consumption; the payment
				// amount matched it whole.
				debit := &entity.LedgerEntry{
					PersonType: enum.PersonCustomer,
					PersonID:   *input.CustomerID,
					Direction:  enum.LedgerDebit,
					Amount:     payInput.Amount,
					Reason:     "store credit applied to order " + order.Code,
				}
				if err := s.ledgerRepo.Create(ctx, debit); err != nil {
					return apperror.NewPersistenceError(err)
				}
			}
			total += payInput.Amount
			payments = append(payments, payment)
		}
		if total > subTotal {
			return apperror.NewBadRequestError("Payments exceed the sale subtotal")
		}
		if err := s.orderRepo.CreatePayments(ctx, payments); err != nil {
			return apperror.NewPersistenceError(err)
		}

		if cashIn > 0 {
			drawer.CashIn += cashIn
			if err := s.drawerRepo.Update(ctx, drawer); err != nil {
				return apperror.NewPersistenceError(err)
			}
		}

		order.SubTotal = subTotal
		order.Discount = subTotal - total
		order.Total = total
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return apperror.NewPersistenceError(err)
		}

		// An identified buyer earns cashback on the collected amount.
		if customer != nil {
			settings, err := s.settingsRepo.Get(ctx)
			if err != nil {
				return apperror.NewPersistenceError(err)
			}
			cashback := total * int64(settings.CashbackPercent) / 100
			if cashback > 0 {
				// Cashback lives until the next configured monthly
				// reset, not a flat calendar month.
				grant := &entity.CreditGrant{
					CustomerID: customer.ID,
					Amount:     cashback,
					Status:     enum.CreditActive,
					ExpiresAt:  settings.NextReset(now),
					OrderID:    &order.ID,
				}
				if err := s.creditRepo.Create(ctx, grant); err != nil {
					return apperror.NewPersistenceError(err)
				}
				result.Cashback = grant
			}
		}

		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCheckout(ctx, &result, soldPieces)
	return &result, nil
}

// consumeGrantPayment resolves and consumes the grant backing a store
// credit or voucher payment. All-or-nothing: the payment amount must
// match the grant exactly.
func (s *SaleService) consumeGrantPayment(ctx context.Context, payInput *CheckoutPaymentInput, customerID uuid.UUID) (*entity.CreditGrant, error) {
	var grant *entity.CreditGrant
	var err error
	switch {
	case payInput.GrantID != nil:
		grant, err = s.creditRepo.GetByIDForUpdate(ctx, *payInput.GrantID)
	case payInput.CouponCode != nil:
		grant, err = s.creditRepo.GetByCoupon(ctx, *payInput.CouponCode)
		if err == nil && grant != nil {
			grant, err = s.creditRepo.GetByIDForUpdate(ctx, grant.ID)
		}
	default:
		return nil, apperror.NewBadRequestError("Store credit payments require a grant id or coupon code")
	}
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if grant == nil {
		return nil, apperror.NewNotFoundError("Credit grant")
	}
	if grant.CustomerID != customerID {
		return nil, apperror.NewConflictError("Credit grant belongs to another customer")
	}
	if !grant.Usable(time.Now()) {
		return nil, apperror.NewConflictError(fmt.Sprintf(
			"Credit grant is %s and cannot be used", grant.Status))
	}
	if grant.Amount != payInput.Amount {
		return nil, apperror.NewConflictError(fmt.Sprintf(
			"Credit grants are consumed whole: grant holds %d, payment is %d", grant.Amount, payInput.Amount))
	}

	now := time.Now()
	grant.Amount = 0
	grant.Status = enum.CreditUsed
	grant.UsedAt = &now
	if err := s.creditRepo.Update(ctx, grant); err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	return grant, nil
}

// fireStockHooks runs the registered hooks for one piece, recovering
// panics so a misbehaving hook cannot fail a committed sale or return.
func (s *SaleService) fireStockHooks(pieceID uuid.UUID, status enum.PieceStatus) {
	for _, hook := range s.stockHooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Stock hook panic for piece %s: %v", pieceID, r)
				}
			}()
			hook(pieceID, status)
		}()
	}
}

// afterCheckout fires the post-commit side effects. Nothing here may
// fail the sale: errors are logged and swallowed.
func (s *SaleService) afterCheckout(ctx context.Context, result *CheckoutResult, soldPieces []entity.Piece) {
	for _, piece := range soldPieces {
		s.fireStockHooks(piece.ID, enum.PieceStatusSold)
	}

	if result.Order.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *result.Order.CustomerID)
		if err != nil || customer == nil || customer.Email == nil {
			return
		}
		order := result.Order
		go func() {
			err := s.notify.Notify(*customer.Email, notifier.EventSaleReceipt, map[string]string{
				"name":       customer.Name,
				"order_code": order.Code,
				"total":      fmt.Sprintf("%.2f", float64(order.Total)/100),
			})
			if err != nil {
				log.Printf("Receipt notification failed for order %s: %v", order.Code, err)
			}
		}()
	}
}

// GetOrder retrieves an order with lines and payments
func (s *SaleService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering and pagination
func (s *SaleService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// ReturnLine processes the return of one sold piece: the piece goes
// back on the shelf, its line is cancelled, the supplier commission is
// reversed with an offsetting debit, and the customer receives the
// charged amount back as store credit. One transaction, like the sale.
func (s *SaleService) ReturnLine(ctx context.Context, orderID, pieceID uuid.UUID, reason string) (*entity.Order, error) {
	var order *entity.Order
	var returnedPiece *entity.Piece

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.GetWithDetails(ctx, orderID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if !order.Status.Active() {
			return apperror.NewConflictError("Order is " + order.Status.String())
		}

		var line *entity.OrderLine
		for i := range order.Lines {
			if order.Lines[i].PieceID == pieceID && !order.Lines[i].Cancelled {
				line = &order.Lines[i]
				break
			}
		}
		if line == nil {
			return apperror.NewNotFoundError("Order line")
		}

		piece, err := s.pieceRepo.GetByIDForUpdate(ctx, pieceID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if piece == nil {
			return apperror.NewNotFoundError("Piece")
		}
		if piece.Status != enum.PieceStatusSold {
			return apperror.NewConflictError(fmt.Sprintf(
				"Piece %d is %s, not sold", piece.LabelCode, piece.Status))
		}

		line.Cancelled = true
		if err := s.orderRepo.UpdateLine(ctx, line); err != nil {
			return apperror.NewPersistenceError(err)
		}

		piece.Status = enum.PieceStatusAvailable
		piece.SaleDate = nil
		if err := s.pieceRepo.Update(ctx, piece); err != nil {
			return apperror.NewPersistenceError(err)
		}
		movement := &entity.StockMovement{
			PieceID:    piece.ID,
			FromStatus: enum.PieceStatusSold,
			ToStatus:   enum.PieceStatusAvailable,
			OrderID:    &order.ID,
			Note:       "return: " + reason,
		}
		if err := s.pieceRepo.CreateMovement(ctx, movement); err != nil {
			return apperror.NewPersistenceError(err)
		}

		// Reverse the commission with an offsetting debit; the
		// original credit stays on the statement.
		if piece.AcquisitionType == enum.AcquisitionConsignment && piece.SupplierID != nil {
			if err := s.reverseCommission(ctx, piece, order.Code); err != nil {
				return err
			}
		}

		// The buyer gets the charged amount back as store credit,
		// valid until the next monthly reset.
		if order.CustomerID != nil {
			settings, err := s.settingsRepo.Get(ctx)
			if err != nil {
				return apperror.NewPersistenceError(err)
			}
			grant := &entity.CreditGrant{
				CustomerID: *order.CustomerID,
				Amount:     line.ChargedPrice,
				Status:     enum.CreditActive,
				ExpiresAt:  settings.NextReset(time.Now()),
				OrderID:    &order.ID,
			}
			if err := s.creditRepo.Create(ctx, grant); err != nil {
				return apperror.NewPersistenceError(err)
			}
		}

		allCancelled := true
		for i := range order.Lines {
			if !order.Lines[i].Cancelled {
				allCancelled = false
				break
			}
		}
		if allCancelled {
			order.Status = enum.OrderStatusReturned
			if err := s.orderRepo.Update(ctx, order); err != nil {
				return apperror.NewPersistenceError(err)
			}
		}

		returnedPiece = piece
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.fireStockHooks(returnedPiece.ID, enum.PieceStatusAvailable)
	return order, nil
}

// reverseCommission posts the offsetting debit for the commission the
// piece earned on this order. Posted entries are immutable, so the
// reversal is a new row, never an edit.
func (s *SaleService) reverseCommission(ctx context.Context, piece *entity.Piece, orderCode string) error {
	entries, err := s.ledgerRepo.ListByOriginPiece(ctx, piece.ID)
	if err != nil {
		return apperror.NewPersistenceError(err)
	}

	// The net of the piece's entries is what remains to reverse;
	// a piece sold, returned and resold carries several pairs.
	var net int64
	for _, e := range entries {
		net += e.Signed()
	}
	if net <= 0 {
		return nil
	}

	reversal := &entity.LedgerEntry{
		PersonType:    enum.PersonSupplier,
		PersonID:      *piece.SupplierID,
		Direction:     enum.LedgerDebit,
		Amount:        net,
		Reason:        fmt.Sprintf("commission reversal piece %d order %s", piece.LabelCode, orderCode),
		OriginPieceID: &piece.ID,
	}
	if err := s.ledgerRepo.Create(ctx, reversal); err != nil {
		return apperror.NewPersistenceError(err)
	}
	return nil
}

// RecomputeCommission reposts a piece's commission after a rate or
// price mistake: the existing net is reversed and the correct amount
// posted, both as new entries on top of the untouched history.
func (s *SaleService) RecomputeCommission(ctx context.Context, pieceID uuid.UUID) ([]entity.LedgerEntry, error) {
	var posted []entity.LedgerEntry

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		piece, err := s.pieceRepo.GetByIDForUpdate(ctx, pieceID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if piece == nil {
			return apperror.NewNotFoundError("Piece")
		}
		if piece.AcquisitionType != enum.AcquisitionConsignment || piece.SupplierID == nil {
			return apperror.NewConflictError("Piece is not consigned")
		}
		if piece.Status != enum.PieceStatusSold {
			return apperror.NewConflictError(fmt.Sprintf(
				"Piece %d is not sold; nothing to recompute", piece.LabelCode))
		}

		supplier, err := s.supplierRepo.GetByID(ctx, *piece.SupplierID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if supplier == nil {
			return apperror.NewNotFoundError("Supplier")
		}

		line, err := s.orderRepo.ActiveLineForPiece(ctx, piece.ID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if line == nil {
			return apperror.NewConflictError("Piece has no active order line")
		}

		entries, err := s.ledgerRepo.ListByOriginPiece(ctx, piece.ID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		var net int64
		for _, e := range entries {
			net += e.Signed()
		}

		correct := piece.CommissionFor(line.ChargedPrice, supplier.CommissionRate)
		diff := correct - net
		if diff == 0 {
			return nil
		}

		direction := enum.LedgerCredit
		amount := diff
		if diff < 0 {
			direction = enum.LedgerDebit
			amount = -diff
		}
		entry := &entity.LedgerEntry{
			PersonType:    enum.PersonSupplier,
			PersonID:      supplier.ID,
			Direction:     direction,
			Amount:        amount,
			Reason:        fmt.Sprintf("commission recompute piece %d", piece.LabelCode),
			OriginPieceID: &piece.ID,
		}
		if err := s.ledgerRepo.Create(ctx, entry); err != nil {
			return apperror.NewPersistenceError(err)
		}
		posted = append(posted, *entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return posted, nil
}

// DailySummary aggregates sales per day over a date range
func (s *SaleService) DailySummary(ctx context.Context, from, to time.Time) ([]repository.DailySales, error) {
	if to.Before(from) {
		return nil, apperror.NewBadRequestError("End date precedes start date")
	}
	return s.orderRepo.DailySummary(ctx, from, to)
}
