package repository

import (
	"context"
	"errors"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	domainRepo "github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository creates a new store credit repository
func NewCreditRepository(db *gorm.DB) domainRepo.CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Create(ctx context.Context, grant *entity.CreditGrant) error {
	return db(ctx, r.db).Create(grant).Error
}

func (r *creditRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CreditGrant, error) {
	var grant entity.CreditGrant
	err := db(ctx, r.db).First(&grant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &grant, err
}

func (r *creditRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.CreditGrant, error) {
	var grant entity.CreditGrant
	err := forUpdate(db(ctx, r.db)).First(&grant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &grant, err
}

func (r *creditRepository) GetByCoupon(ctx context.Context, couponCode string) (*entity.CreditGrant, error) {
	var grant entity.CreditGrant
	err := db(ctx, r.db).First(&grant, "coupon_code = ?", couponCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &grant, err
}

func (r *creditRepository) Update(ctx context.Context, grant *entity.CreditGrant) error {
	return db(ctx, r.db).Save(grant).Error
}

func (r *creditRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CreditGrant, error) {
	var grants []entity.CreditGrant
	err := db(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&grants).Error
	return grants, err
}

func (r *creditRepository) ListByStatus(ctx context.Context, status enum.CreditStatus) ([]entity.CreditGrant, error) {
	var grants []entity.CreditGrant
	err := db(ctx, r.db).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&grants).Error
	return grants, err
}

func (r *creditRepository) ActiveBalance(ctx context.Context, customerID uuid.UUID, now time.Time) (int64, error) {
	var sum int64
	err := db(ctx, r.db).Model(&entity.CreditGrant{}).
		Where("customer_id = ? AND status = ? AND expires_at > ?", customerID, enum.CreditActive, now).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// ExpireDue is a bulk conditional UPDATE, so re-running it when
// nothing qualifies is a natural no-op and two overlapping sweeps
// cannot double-expire a grant.
func (r *creditRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res := db(ctx, r.db).Model(&entity.CreditGrant{}).
		Where("status = ? AND expires_at < ?", enum.CreditActive, now).
		Update("status", enum.CreditExpired)
	return res.RowsAffected, res.Error
}

func (r *creditRepository) ExpireAllActive(ctx context.Context) (int64, error) {
	res := db(ctx, r.db).Model(&entity.CreditGrant{}).
		Where("status = ?", enum.CreditActive).
		Update("status", enum.CreditExpired)
	return res.RowsAffected, res.Error
}

func (r *creditRepository) ActivatePending(ctx context.Context, expiresAt time.Time) (int64, error) {
	res := db(ctx, r.db).Model(&entity.CreditGrant{}).
		Where("status = ?", enum.CreditPendingActivation).
		Updates(map[string]interface{}{
			"status":     enum.CreditActive,
			"expires_at": expiresAt,
		})
	return res.RowsAffected, res.Error
}
