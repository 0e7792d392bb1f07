package service

import (
	"context"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/brechoria/brecho-api/pkg/apperror"
)

// ReportService produces the admin-facing aggregates: sales per day,
// inventory by status, and the payout worklist.
type ReportService struct {
	orderRepo    repository.OrderRepository
	pieceRepo    repository.PieceRepository
	ledgerRepo   repository.LedgerRepository
	supplierRepo repository.SupplierRepository
	customerRepo repository.CustomerRepository
}

// NewReportService creates a new report service
func NewReportService(
	orderRepo repository.OrderRepository,
	pieceRepo repository.PieceRepository,
	ledgerRepo repository.LedgerRepository,
	supplierRepo repository.SupplierRepository,
	customerRepo repository.CustomerRepository,
) *ReportService {
	return &ReportService{
		orderRepo:    orderRepo,
		pieceRepo:    pieceRepo,
		ledgerRepo:   ledgerRepo,
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
	}
}

// SalesReport returns collected totals per day over a date range.
// Cancelled and returned orders are excluded.
func (s *ReportService) SalesReport(ctx context.Context, from, to time.Time) ([]repository.DailySales, error) {
	if to.Before(from) {
		return nil, apperror.NewBadRequestError("End date precedes start date")
	}
	return s.orderRepo.DailySummary(ctx, from, to)
}

// InventoryReport returns the stock count per piece status
func (s *ReportService) InventoryReport(ctx context.Context) ([]repository.StatusCount, error) {
	return s.pieceRepo.StatusCounts(ctx)
}

// PayableRow is one person the store owes money, with their name
// resolved for display.
type PayableRow struct {
	entity.PersonBalance
	Name string `json:"name"`
}

// PayablesReport returns everyone the store currently owes, split by
// person type when one is given.
func (s *ReportService) PayablesReport(ctx context.Context, personType enum.PersonType) ([]PayableRow, error) {
	balances, err := s.ledgerRepo.PositiveBalances(ctx, personType)
	if err != nil {
		return nil, err
	}

	rows := make([]PayableRow, 0, len(balances))
	for _, b := range balances {
		row := PayableRow{PersonBalance: b}
		switch b.PersonType {
		case enum.PersonSupplier:
			if supplier, err := s.supplierRepo.GetByID(ctx, b.PersonID); err == nil && supplier != nil {
				row.Name = supplier.Name
			}
		case enum.PersonCustomer:
			if customer, err := s.customerRepo.GetByID(ctx, b.PersonID); err == nil && customer != nil {
				row.Name = customer.Name
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
