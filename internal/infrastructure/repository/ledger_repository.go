package repository

import (
	"context"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	domainRepo "github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new person ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	return db(ctx, r.db).Create(entry).Error
}

func (r *ledgerRepository) ListByPerson(ctx context.Context, personType enum.PersonType, personID uuid.UUID) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	// Chronological order with the id as tiebreaker keeps the fold
	// deterministic for entries written in the same instant.
	err := db(ctx, r.db).
		Where("person_type = ? AND person_id = ?", personType, personID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) SumByPerson(ctx context.Context, personType enum.PersonType, personID uuid.UUID) (int64, error) {
	var sum int64
	err := db(ctx, r.db).Model(&entity.LedgerEntry{}).
		Where("person_type = ? AND person_id = ?", personType, personID).
		Select("COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE -amount END), 0)", enum.LedgerCredit).
		Scan(&sum).Error
	return sum, err
}

func (r *ledgerRepository) PositiveBalances(ctx context.Context, personType enum.PersonType) ([]entity.PersonBalance, error) {
	type row struct {
		PersonID uuid.UUID
		Balance  int64
	}
	var rows []row
	err := db(ctx, r.db).Model(&entity.LedgerEntry{}).
		Where("person_type = ?", personType).
		Select("person_id, SUM(CASE WHEN direction = ? THEN amount ELSE -amount END) AS balance", enum.LedgerCredit).
		Group("person_id").
		Having("SUM(CASE WHEN direction = ? THEN amount ELSE -amount END) > 0", enum.LedgerCredit).
		Order("balance DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	balances := make([]entity.PersonBalance, len(rows))
	for i, r := range rows {
		balances[i] = entity.PersonBalance{
			PersonType: personType,
			PersonID:   r.PersonID,
			Balance:    r.Balance,
		}
	}
	return balances, nil
}

func (r *ledgerRepository) ListByOriginPiece(ctx context.Context, pieceID uuid.UUID) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	err := db(ctx, r.db).
		Where("origin_piece_id = ?", pieceID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) CountByOriginPiece(ctx context.Context, pieceID uuid.UUID) (int64, error) {
	var count int64
	err := db(ctx, r.db).Model(&entity.LedgerEntry{}).
		Where("origin_piece_id = ?", pieceID).
		Count(&count).Error
	return count, err
}
