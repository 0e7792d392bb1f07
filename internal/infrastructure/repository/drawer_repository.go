package repository

import (
	"context"
	"errors"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	domainRepo "github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type drawerRepository struct {
	db *gorm.DB
}

// NewDrawerRepository creates a new cash drawer repository
func NewDrawerRepository(db *gorm.DB) domainRepo.DrawerRepository {
	return &drawerRepository{db: db}
}

func (r *drawerRepository) Create(ctx context.Context, session *entity.DrawerSession) error {
	return db(ctx, r.db).Create(session).Error
}

func (r *drawerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DrawerSession, error) {
	var session entity.DrawerSession
	err := db(ctx, r.db).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *drawerRepository) GetWithAdjustments(ctx context.Context, id uuid.UUID) (*entity.DrawerSession, error) {
	var session entity.DrawerSession
	err := db(ctx, r.db).
		Preload("Adjustments").
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *drawerRepository) GetOpenByOperator(ctx context.Context, operatorID uuid.UUID) (*entity.DrawerSession, error) {
	var session entity.DrawerSession
	err := db(ctx, r.db).
		First(&session, "operator_id = ? AND status = ?", operatorID, enum.DrawerOpen).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *drawerRepository) GetOpenByOperatorForUpdate(ctx context.Context, operatorID uuid.UUID) (*entity.DrawerSession, error) {
	var session entity.DrawerSession
	err := forUpdate(db(ctx, r.db)).
		First(&session, "operator_id = ? AND status = ?", operatorID, enum.DrawerOpen).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *drawerRepository) Update(ctx context.Context, session *entity.DrawerSession) error {
	return db(ctx, r.db).Save(session).Error
}

func (r *drawerRepository) ListOpen(ctx context.Context) ([]entity.DrawerSession, error) {
	var sessions []entity.DrawerSession
	err := db(ctx, r.db).
		Where("status = ?", enum.DrawerOpen).
		Order("opened_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *drawerRepository) List(ctx context.Context, params *domainRepo.DrawerFilterParams) ([]entity.DrawerSession, int64, error) {
	var sessions []entity.DrawerSession
	var total int64

	query := db(ctx, r.db).Model(&entity.DrawerSession{})

	if params.OperatorID != nil {
		query = query.Where("operator_id = ?", *params.OperatorID)
	}

	if params.OnlyOpen {
		query = query.Where("status = ?", enum.DrawerOpen)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Adjustments").
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}

func (r *drawerRepository) CreateAdjustment(ctx context.Context, adjustment *entity.DrawerAdjustment) error {
	return db(ctx, r.db).Create(adjustment).Error
}
