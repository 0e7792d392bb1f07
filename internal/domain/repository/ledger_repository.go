package repository

import (
	"context"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/google/uuid"
)

// LedgerRepository defines the interface for person ledger data
// operations. The table is append-only: there is deliberately no
// Update or Delete.
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	// ListByPerson returns all entries for one person in chronological
	// order, oldest first, so balances fold deterministically.
	ListByPerson(ctx context.Context, personType enum.PersonType, personID uuid.UUID) ([]entity.LedgerEntry, error)
	// SumByPerson returns sum(credits) - sum(debits) in cents.
	SumByPerson(ctx context.Context, personType enum.PersonType, personID uuid.UUID) (int64, error)
	// PositiveBalances returns every person the store currently owes
	// money, for the payout workflow.
	PositiveBalances(ctx context.Context, personType enum.PersonType) ([]entity.PersonBalance, error)
	// ListByOriginPiece returns the entries a piece generated, used by
	// the commission recompute and the return flow.
	ListByOriginPiece(ctx context.Context, pieceID uuid.UUID) ([]entity.LedgerEntry, error)
	// CountByOriginPiece guards piece deletion.
	CountByOriginPiece(ctx context.Context, pieceID uuid.UUID) (int64, error)
}
