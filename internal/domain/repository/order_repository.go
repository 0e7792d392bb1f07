package repository

import (
	"context"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/pkg/pagination"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByCode(ctx context.Context, code string) (*entity.Order, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)

	CreateLines(ctx context.Context, lines []entity.OrderLine) error
	UpdateLine(ctx context.Context, line *entity.OrderLine) error
	// ActiveLineForPiece returns the non-cancelled line referencing
	// the piece, if one exists. This is the oversell check's witness.
	ActiveLineForPiece(ctx context.Context, pieceID uuid.UUID) (*entity.OrderLine, error)

	CreatePayments(ctx context.Context, payments []entity.Payment) error

	// DailySummary aggregates collected totals per day for reporting.
	DailySummary(ctx context.Context, from, to time.Time) ([]DailySales, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	Status        *enum.OrderStatus
	CustomerID    *uuid.UUID
	SalespersonID *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortOrder     string
}

// DailySales is one row of the sales summary report
type DailySales struct {
	Day        time.Time `json:"day"`
	OrderCount int64     `json:"order_count"`
	TotalCents int64     `json:"-"`
}
