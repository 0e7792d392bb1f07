package service

import (
	"context"
	"fmt"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/brechoria/brecho-api/pkg/apperror"
	"github.com/google/uuid"
)

// LedgerService handles the append-only person accounts. The running
// balance is always folded from the entries; nothing here ever stores
// a balance.
type LedgerService struct {
	ledgerRepo   repository.LedgerRepository
	supplierRepo repository.SupplierRepository
	customerRepo repository.CustomerRepository
	txManager    repository.TxManager
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	ledgerRepo repository.LedgerRepository,
	supplierRepo repository.SupplierRepository,
	customerRepo repository.CustomerRepository,
	txManager repository.TxManager,
) *LedgerService {
	return &LedgerService{
		ledgerRepo:   ledgerRepo,
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
		txManager:    txManager,
	}
}

// PostEntryInput represents a manual ledger posting
type PostEntryInput struct {
	PersonType    enum.PersonType
	PersonID      uuid.UUID
	Direction     enum.LedgerDirection
	Amount        int64
	Reason        string
	OriginPieceID *uuid.UUID
}

// PostEntry appends one entry to a person's account. Mistakes are
// fixed by posting the offsetting entry, never by editing; the history
// has to stay auditable.
func (s *LedgerService) PostEntry(ctx context.Context, input *PostEntryInput) (*entity.LedgerEntry, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Amount must be positive")
	}
	if input.Reason == "" {
		return nil, apperror.NewBadRequestError("Reason is required")
	}
	if err := s.personExists(ctx, input.PersonType, input.PersonID); err != nil {
		return nil, err
	}

	entry := &entity.LedgerEntry{
		PersonType:    input.PersonType,
		PersonID:      input.PersonID,
		Direction:     input.Direction,
		Amount:        input.Amount,
		Reason:        input.Reason,
		OriginPieceID: input.OriginPieceID,
	}

	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, apperror.NewPersistenceError(err)
	}

	return entry, nil
}

// GetBalance returns a person's current balance in cents. Positive
// means the store owes the person.
func (s *LedgerService) GetBalance(ctx context.Context, personType enum.PersonType, personID uuid.UUID) (int64, error) {
	if err := s.personExists(ctx, personType, personID); err != nil {
		return 0, err
	}
	return s.ledgerRepo.SumByPerson(ctx, personType, personID)
}

// GetStatement returns all entries for a person in chronological order
// with the running balance after each one.
func (s *LedgerService) GetStatement(ctx context.Context, personType enum.PersonType, personID uuid.UUID) ([]entity.StatementLine, error) {
	if err := s.personExists(ctx, personType, personID); err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.ListByPerson(ctx, personType, personID)
	if err != nil {
		return nil, err
	}

	lines := make([]entity.StatementLine, 0, len(entries))
	var balance int64
	for _, e := range entries {
		balance += e.Signed()
		lines = append(lines, entity.StatementLine{Entry: e, Balance: balance})
	}
	return lines, nil
}

// ListPayables returns every person of the given type the store
// currently owes money.
func (s *LedgerService) ListPayables(ctx context.Context, personType enum.PersonType) ([]entity.PersonBalance, error) {
	return s.ledgerRepo.PositiveBalances(ctx, personType)
}

// SettlePayout pays out (part of) a person's balance by posting the
// matching debit. The balance check and the posting run in one
// transaction so two concurrent payouts cannot both drain the account.
func (s *LedgerService) SettlePayout(ctx context.Context, personType enum.PersonType, personID uuid.UUID, amount int64, reason string) (*entity.LedgerEntry, error) {
	if amount <= 0 {
		return nil, apperror.NewBadRequestError("Payout amount must be positive")
	}
	if reason == "" {
		reason = "payout"
	}
	if err := s.personExists(ctx, personType, personID); err != nil {
		return nil, err
	}

	var entry *entity.LedgerEntry
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		balance, err := s.ledgerRepo.SumByPerson(ctx, personType, personID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if amount > balance {
			return apperror.NewConflictError(fmt.Sprintf(
				"Payout of %d exceeds balance of %d", amount, balance))
		}

		entry = &entity.LedgerEntry{
			PersonType: personType,
			PersonID:   personID,
			Direction:  enum.LedgerDebit,
			Amount:     amount,
			Reason:     reason,
		}
		if err := s.ledgerRepo.Create(ctx, entry); err != nil {
			return apperror.NewPersistenceError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// ListByOriginPiece returns the ledger entries a piece generated
func (s *LedgerService) ListByOriginPiece(ctx context.Context, pieceID uuid.UUID) ([]entity.LedgerEntry, error) {
	return s.ledgerRepo.ListByOriginPiece(ctx, pieceID)
}

func (s *LedgerService) personExists(ctx context.Context, personType enum.PersonType, personID uuid.UUID) error {
	switch personType {
	case enum.PersonSupplier:
		supplier, err := s.supplierRepo.GetByID(ctx, personID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return apperror.NewNotFoundError("Supplier")
		}
	case enum.PersonCustomer:
		customer, err := s.customerRepo.GetByID(ctx, personID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}
	default:
		return apperror.NewBadRequestError("Unknown person type")
	}
	return nil
}
