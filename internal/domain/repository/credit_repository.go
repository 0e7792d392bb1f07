package repository

import (
	"context"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/google/uuid"
)

// CreditRepository defines the interface for store credit grant data
// operations
type CreditRepository interface {
	Create(ctx context.Context, grant *entity.CreditGrant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CreditGrant, error)
	// GetByIDForUpdate locks the grant row so concurrent consumption
	// attempts serialize. Must run inside a TxManager transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.CreditGrant, error)
	GetByCoupon(ctx context.Context, couponCode string) (*entity.CreditGrant, error)
	Update(ctx context.Context, grant *entity.CreditGrant) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CreditGrant, error)
	ListByStatus(ctx context.Context, status enum.CreditStatus) ([]entity.CreditGrant, error)
	// ActiveBalance sums the customer's usable (active, unexpired)
	// grants in cents.
	ActiveBalance(ctx context.Context, customerID uuid.UUID, now time.Time) (int64, error)
	// ExpireDue flips every active grant whose expiry has passed to
	// Expired. Idempotent: re-running when nothing qualifies is a
	// no-op. Returns the number of grants expired.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	// ExpireAllActive flips every active grant to Expired (monthly
	// reset). Returns the number of grants expired.
	ExpireAllActive(ctx context.Context) (int64, error)
	// ActivatePending flips every pending grant to Active with the
	// given expiry (monthly reset). Returns the number activated.
	ActivatePending(ctx context.Context, expiresAt time.Time) (int64, error)
}
