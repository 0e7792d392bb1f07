package repository

import (
	"context"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/pkg/pagination"
	"github.com/google/uuid"
)

// DrawerRepository defines the interface for cash drawer session data
// operations
type DrawerRepository interface {
	Create(ctx context.Context, session *entity.DrawerSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DrawerSession, error)
	// GetWithAdjustments loads the session and its adjustments, for
	// computing the closing balance.
	GetWithAdjustments(ctx context.Context, id uuid.UUID) (*entity.DrawerSession, error)
	// GetOpenByOperator returns the operator's OPEN session, or nil.
	GetOpenByOperator(ctx context.Context, operatorID uuid.UUID) (*entity.DrawerSession, error)
	// GetOpenByOperatorForUpdate locks the open session row; used by
	// checkout to serialize cash-in updates. Must run inside a
	// TxManager transaction.
	GetOpenByOperatorForUpdate(ctx context.Context, operatorID uuid.UUID) (*entity.DrawerSession, error)
	Update(ctx context.Context, session *entity.DrawerSession) error
	ListOpen(ctx context.Context) ([]entity.DrawerSession, error)
	List(ctx context.Context, params *DrawerFilterParams) ([]entity.DrawerSession, int64, error)

	CreateAdjustment(ctx context.Context, adjustment *entity.DrawerAdjustment) error
}

// DrawerFilterParams contains filtering parameters for drawer session
// history queries
type DrawerFilterParams struct {
	Pagination *pagination.PaginationParams
	OperatorID *uuid.UUID
	OnlyOpen   bool
}
