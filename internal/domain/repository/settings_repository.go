package repository

import (
	"context"

	"github.com/brechoria/brecho-api/internal/domain/entity"
)

// SettingsRepository defines the interface for store settings data
// access. The settings are a single row, created with defaults on
// first read.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.StoreSettings, error)
	Update(ctx context.Context, settings *entity.StoreSettings) error
}
