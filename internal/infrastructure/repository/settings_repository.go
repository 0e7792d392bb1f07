package repository

import (
	"context"
	"errors"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	domainRepo "github.com/brechoria/brecho-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new store settings repository
func NewSettingsRepository(db *gorm.DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the settings row, creating it with defaults on first
// use. Callers read it at run time so schedule changes take effect
// without a restart.
func (r *settingsRepository) Get(ctx context.Context) (*entity.StoreSettings, error) {
	var settings entity.StoreSettings
	err := db(ctx, r.db).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = entity.StoreSettings{
			CreditResetDay:        1,
			CreditResetHour:       8,
			CashbackPercent:       5,
			DefaultCommissionRate: 50,
		}
		if err := db(ctx, r.db).Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	return &settings, err
}

func (r *settingsRepository) Update(ctx context.Context, settings *entity.StoreSettings) error {
	return db(ctx, r.db).Save(settings).Error
}
