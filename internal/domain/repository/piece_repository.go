package repository

import (
	"context"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/pkg/pagination"
	"github.com/google/uuid"
)

// PieceRepository defines the interface for piece data operations
type PieceRepository interface {
	Create(ctx context.Context, piece *entity.Piece) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Piece, error)
	// GetByIDForUpdate loads a piece under a row lock so concurrent
	// checkouts of the same piece serialize. Must run inside a
	// TxManager transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Piece, error)
	GetByLabelCode(ctx context.Context, labelCode int) (*entity.Piece, error)
	Update(ctx context.Context, piece *entity.Piece) error
	// SoftDelete marks the piece deleted; callers must first verify no
	// ledger entry references it.
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *PieceFilterParams) ([]entity.Piece, int64, error)
	// NextLabelCode reserves the next sequential label. Runs inside
	// the intake transaction so codes are never reused.
	NextLabelCode(ctx context.Context) (int, error)

	// CreateMovement appends a stock movement audit row.
	CreateMovement(ctx context.Context, movement *entity.StockMovement) error
	ListMovements(ctx context.Context, pieceID uuid.UUID) ([]entity.StockMovement, error)

	// StatusCounts aggregates the stock by status for reporting.
	StatusCounts(ctx context.Context) ([]StatusCount, error)
}

// StatusCount is one row of the inventory summary
type StatusCount struct {
	Status enum.PieceStatus `json:"status"`
	Count  int64            `json:"count"`
}

// PieceFilterParams contains filtering parameters for piece queries
type PieceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.PieceStatus
	SupplierID *uuid.UUID
	SortBy     string
	SortOrder  string
}
