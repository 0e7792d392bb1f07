package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/brechoria/brecho-api/pkg/apperror"
	"github.com/brechoria/brecho-api/pkg/notifier"
	"github.com/brechoria/brecho-api/pkg/utils"
	"github.com/google/uuid"
)

// CreditService handles the store credit grant lifecycle: granting,
// consumption, the daily expiration sweep and the monthly cycle.
type CreditService struct {
	creditRepo   repository.CreditRepository
	customerRepo repository.CustomerRepository
	settingsRepo repository.SettingsRepository
	txManager    repository.TxManager
	notify       notifier.Notifier
}

// NewCreditService creates a new credit service
func NewCreditService(
	creditRepo repository.CreditRepository,
	customerRepo repository.CustomerRepository,
	settingsRepo repository.SettingsRepository,
	txManager repository.TxManager,
	notify notifier.Notifier,
) *CreditService {
	return &CreditService{
		creditRepo:   creditRepo,
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
		notify:       notify,
	}
}

// GrantCreditInput represents a manual credit grant
type GrantCreditInput struct {
	CustomerID uuid.UUID
	Amount     int64
	// Pending grants wait for the next monthly cycle to activate;
	// active grants are usable immediately.
	Pending bool
	// ExpiresAt overrides the default expiry (end of current month).
	ExpiresAt *time.Time
	// WithCoupon attaches a printable voucher code to the grant.
	WithCoupon bool
	OrderID    *uuid.UUID
}

// GrantCredit issues a store credit grant to a customer
func (s *CreditService) GrantCredit(ctx context.Context, input *GrantCreditInput) (*entity.CreditGrant, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Credit amount must be positive")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	now := time.Now()
	expiresAt := entity.EndOfMonth(now)
	if input.ExpiresAt != nil {
		expiresAt = *input.ExpiresAt
	}
	if !expiresAt.After(now) && !input.Pending {
		return nil, apperror.NewBadRequestError("Expiry must be in the future")
	}

	status := enum.CreditActive
	if input.Pending {
		status = enum.CreditPendingActivation
	}

	grant := &entity.CreditGrant{
		CustomerID: input.CustomerID,
		Amount:     input.Amount,
		Status:     status,
		ExpiresAt:  expiresAt,
		OrderID:    input.OrderID,
	}
	if input.WithCoupon {
		code := utils.GenerateCouponCode()
		grant.CouponCode = &code
	}

	if err := s.creditRepo.Create(ctx, grant); err != nil {
		return nil, apperror.NewPersistenceError(err)
	}

	if customer.Email != nil && status == enum.CreditActive {
		go s.notifyCustomer(*customer.Email, customer.Name, notifier.EventCreditGranted, grant)
	}

	return grant, nil
}

// GetGrant retrieves a credit grant by ID
func (s *CreditService) GetGrant(ctx context.Context, id uuid.UUID) (*entity.CreditGrant, error) {
	grant, err := s.creditRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, apperror.NewNotFoundError("Credit grant")
	}
	return grant, nil
}

// GetGrantByCoupon retrieves a credit grant by its voucher code
func (s *CreditService) GetGrantByCoupon(ctx context.Context, couponCode string) (*entity.CreditGrant, error) {
	grant, err := s.creditRepo.GetByCoupon(ctx, couponCode)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, apperror.NewNotFoundError("Credit grant")
	}
	return grant, nil
}

// ListCustomerCredits returns a customer's grants, newest first
func (s *CreditService) ListCustomerCredits(ctx context.Context, customerID uuid.UUID) ([]entity.CreditGrant, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return s.creditRepo.ListByCustomer(ctx, customerID)
}

// ActiveBalance sums a customer's usable credit in cents
func (s *CreditService) ActiveBalance(ctx context.Context, customerID uuid.UUID) (int64, error) {
	return s.creditRepo.ActiveBalance(ctx, customerID, time.Now())
}

// Consume applies a grant as payment. All-or-nothing: the full amount
// is spent, the grant goes to Used. The row lock serializes concurrent
// consumption attempts so a grant can never pay for two orders.
// Callers already inside a checkout transaction join it via ctx.
func (s *CreditService) Consume(ctx context.Context, grantID uuid.UUID, customerID uuid.UUID) (*entity.CreditGrant, error) {
	var grant *entity.CreditGrant
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		grant, err = s.creditRepo.GetByIDForUpdate(ctx, grantID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if grant == nil {
			return apperror.NewNotFoundError("Credit grant")
		}
		if grant.CustomerID != customerID {
			return apperror.NewConflictError("Credit grant belongs to another customer")
		}
		if !grant.Usable(time.Now()) {
			return apperror.NewConflictError(fmt.Sprintf(
				"Credit grant is %s and cannot be used", grant.Status))
		}

		now := time.Now()
		grant.Amount = 0
		grant.Status = enum.CreditUsed
		grant.UsedAt = &now
		if err := s.creditRepo.Update(ctx, grant); err != nil {
			return apperror.NewPersistenceError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return grant, nil
}

// RunDailySweep expires every active grant past its expiry. The bulk
// UPDATE makes the sweep idempotent; it runs daily but is safe at any
// frequency.
func (s *CreditService) RunDailySweep(ctx context.Context) (int64, error) {
	var expired int64
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		expired, err = s.creditRepo.ExpireDue(ctx, time.Now())
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		return nil
	})
	return expired, err
}

// CycleResult summarizes one monthly cycle run
type CycleResult struct {
	Expired   int64 `json:"expired"`
	Activated int64 `json:"activated"`
}

// RunMonthlyCycle executes the monthly credit reset: every active
// grant expires, every pending grant activates with expiry at the end
// of the current month. The whole cycle is one transaction and the
// last-run timestamp in settings guards against a second run in the
// same month. Customer notifications fire after commit.
func (s *CreditService) RunMonthlyCycle(ctx context.Context, force bool) (*CycleResult, error) {
	result := &CycleResult{}
	var expired, activated []entity.CreditGrant

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		settings, err := s.settingsRepo.Get(ctx)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		now := time.Now()
		if !force && !settings.CycleDue(now) {
			return apperror.NewConflictError("Monthly cycle is not due")
		}

		// Snapshot both sides before the bulk updates so the expiry
		// and activation notices can go out after commit.
		expired, err = s.creditRepo.ListByStatus(ctx, enum.CreditActive)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		activated, err = s.creditRepo.ListByStatus(ctx, enum.CreditPendingActivation)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}

		result.Expired, err = s.creditRepo.ExpireAllActive(ctx)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}

		result.Activated, err = s.creditRepo.ActivatePending(ctx, entity.EndOfMonth(now))
		if err != nil {
			return apperror.NewPersistenceError(err)
		}

		settings.LastMonthlyCycleAt = &now
		if err := s.settingsRepo.Update(ctx, settings); err != nil {
			return apperror.NewPersistenceError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyGrants(ctx, expired, notifier.EventCreditExpiring)
	s.notifyGrants(ctx, activated, notifier.EventCreditGranted)

	return result, nil
}

// notifyGrants fires one notice per grant to every holder the store
// has an email for. Post-commit, fire-and-forget.
func (s *CreditService) notifyGrants(ctx context.Context, grants []entity.CreditGrant, event notifier.Event) {
	for i := range grants {
		grant := grants[i]
		customer, err := s.customerRepo.GetByID(ctx, grant.CustomerID)
		if err != nil || customer == nil || customer.Email == nil {
			continue
		}
		go s.notifyCustomer(*customer.Email, customer.Name, event, &grant)
	}
}

func (s *CreditService) notifyCustomer(email, name string, event notifier.Event, grant *entity.CreditGrant) {
	err := s.notify.Notify(email, event, map[string]string{
		"name":       name,
		"amount":     fmt.Sprintf("%.2f", float64(grant.Amount)/100),
		"expires_at": grant.ExpiresAt.Format("02/01/2006"),
	})
	if err != nil {
		log.Printf("Credit notification failed for %s: %v", email, err)
	}
}
