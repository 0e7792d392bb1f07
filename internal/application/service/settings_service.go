package service

import (
	"context"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/brechoria/brecho-api/pkg/apperror"
)

// SettingsService handles the store settings singleton
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings returns the store settings, creating defaults on first read
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.StoreSettings, error) {
	return s.settingsRepo.Get(ctx)
}

// UpdateSettingsInput represents the settings update input
type UpdateSettingsInput struct {
	CreditResetDay        *int
	CreditResetHour       *int
	CashbackPercent       *int
	DefaultCommissionRate *int
}

// UpdateSettings updates the store settings. Changes take effect on
// the next scheduler tick and the next checkout; nothing is cached.
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.StoreSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.CreditResetDay != nil {
		// Day 29-31 would skip short months.
		if *input.CreditResetDay < 1 || *input.CreditResetDay > 28 {
			return nil, apperror.NewBadRequestError("Credit reset day must be between 1 and 28")
		}
		settings.CreditResetDay = *input.CreditResetDay
	}
	if input.CreditResetHour != nil {
		if *input.CreditResetHour < 0 || *input.CreditResetHour > 23 {
			return nil, apperror.NewBadRequestError("Credit reset hour must be between 0 and 23")
		}
		settings.CreditResetHour = *input.CreditResetHour
	}
	if input.CashbackPercent != nil {
		if *input.CashbackPercent < 0 || *input.CashbackPercent > 100 {
			return nil, apperror.NewBadRequestError("Cashback percent must be between 0 and 100")
		}
		settings.CashbackPercent = *input.CashbackPercent
	}
	if input.DefaultCommissionRate != nil {
		if *input.DefaultCommissionRate < 0 || *input.DefaultCommissionRate > 100 {
			return nil, apperror.NewBadRequestError("Commission rate must be between 0 and 100")
		}
		settings.DefaultCommissionRate = *input.DefaultCommissionRate
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
