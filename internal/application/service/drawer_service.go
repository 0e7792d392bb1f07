package service

import (
	"context"
	"fmt"
	"time"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/brechoria/brecho-api/pkg/apperror"
	"github.com/brechoria/brecho-api/pkg/pagination"
	"github.com/google/uuid"
)

// DrawerService handles cash drawer sessions: open, manual cash
// movements, close with variance, and the overnight force-close.
type DrawerService struct {
	drawerRepo repository.DrawerRepository
	userRepo   repository.UserRepository
	txManager  repository.TxManager
}

// NewDrawerService creates a new drawer service
func NewDrawerService(
	drawerRepo repository.DrawerRepository,
	userRepo repository.UserRepository,
	txManager repository.TxManager,
) *DrawerService {
	return &DrawerService{
		drawerRepo: drawerRepo,
		userRepo:   userRepo,
		txManager:  txManager,
	}
}

// Open starts a new session for the operator. One open session per
// operator: the locked lookup catches the common case and the unique
// index on the open key catches the race two concurrent opens lose.
func (s *DrawerService) Open(ctx context.Context, operatorID uuid.UUID, openingFloat int64) (*entity.DrawerSession, error) {
	if openingFloat < 0 {
		return nil, apperror.NewBadRequestError("Opening float cannot be negative")
	}

	operator, err := s.userRepo.GetByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, apperror.NewNotFoundError("Operator")
	}

	var session *entity.DrawerSession
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.drawerRepo.GetOpenByOperatorForUpdate(ctx, operatorID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if existing != nil {
			return apperror.NewConflictError("Operator already has an open drawer session")
		}

		openKey := operatorID.String()
		session = &entity.DrawerSession{
			OperatorID:   operatorID,
			OpenKey:      &openKey,
			Status:       enum.DrawerOpen,
			OpeningFloat: openingFloat,
			OpenedAt:     time.Now(),
		}
		if err := s.drawerRepo.Create(ctx, session); err != nil {
			return apperror.NewPersistenceError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// GetCurrent returns the operator's open session with its adjustments
func (s *DrawerService) GetCurrent(ctx context.Context, operatorID uuid.UUID) (*entity.DrawerSession, error) {
	session, err := s.drawerRepo.GetOpenByOperator(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Open drawer session")
	}
	return s.drawerRepo.GetWithAdjustments(ctx, session.ID)
}

// GetSession returns a session by ID with its adjustments
func (s *DrawerService) GetSession(ctx context.Context, id uuid.UUID) (*entity.DrawerSession, error) {
	session, err := s.drawerRepo.GetWithAdjustments(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Drawer session")
	}
	return session, nil
}

// ListSessions returns drawer session history
func (s *DrawerService) ListSessions(ctx context.Context, params *repository.DrawerFilterParams) (*pagination.PaginatedResult[entity.DrawerSession], error) {
	sessions, total, err := s.drawerRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sessions, pag), nil
}

// Adjust records a manual cash movement (sangria or suprimento) on the
// operator's open session. A withdrawal larger than the cash in the
// drawer is rejected.
func (s *DrawerService) Adjust(ctx context.Context, operatorID uuid.UUID, adjType enum.AdjustmentType, amount int64, reason string) (*entity.DrawerAdjustment, error) {
	if amount <= 0 {
		return nil, apperror.NewBadRequestError("Adjustment amount must be positive")
	}
	if reason == "" {
		return nil, apperror.NewBadRequestError("Adjustment reason is required")
	}

	var adjustment *entity.DrawerAdjustment
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		session, err := s.drawerRepo.GetOpenByOperatorForUpdate(ctx, operatorID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if session == nil {
			return apperror.NewPreconditionError("Operator has no open drawer session")
		}

		if adjType == enum.AdjustmentWithdrawal {
			full, err := s.drawerRepo.GetWithAdjustments(ctx, session.ID)
			if err != nil {
				return apperror.NewPersistenceError(err)
			}
			if balance := full.ComputedBalance(); amount > balance {
				return apperror.NewConflictError(fmt.Sprintf(
					"Withdrawal of %d exceeds drawer balance of %d", amount, balance))
			}
		}

		adjustment = &entity.DrawerAdjustment{
			SessionID: session.ID,
			Type:      adjType,
			Amount:    amount,
			Reason:    reason,
		}
		if err := s.drawerRepo.CreateAdjustment(ctx, adjustment); err != nil {
			return apperror.NewPersistenceError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return adjustment, nil
}

// Close ends the operator's open session. countedAmount is what the
// operator physically counted; nil means "trust the computed figure".
// The variance is persisted, never recomputed.
func (s *DrawerService) Close(ctx context.Context, operatorID uuid.UUID, countedAmount *int64) (*entity.DrawerSession, error) {
	var session *entity.DrawerSession
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		open, err := s.drawerRepo.GetOpenByOperatorForUpdate(ctx, operatorID)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if open == nil {
			return apperror.NewPreconditionError("Operator has no open drawer session")
		}

		session, err = s.closeSession(ctx, open.ID, countedAmount)
		return err
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// ForceCloseOutcome is one session's result in a bulk force-close
type ForceCloseOutcome struct {
	SessionID  uuid.UUID `json:"session_id"`
	OperatorID uuid.UUID `json:"operator_id"`
	Closed     bool      `json:"closed"`
	Error      string    `json:"error,omitempty"`
}

// ForceCloseAll closes every open session, counted = computed. Each
// session closes in its own transaction so one failure does not keep
// the rest open. Used by the overnight job and the admin endpoint.
func (s *DrawerService) ForceCloseAll(ctx context.Context) ([]ForceCloseOutcome, error) {
	open, err := s.drawerRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]ForceCloseOutcome, 0, len(open))
	for _, sess := range open {
		outcome := ForceCloseOutcome{SessionID: sess.ID, OperatorID: sess.OperatorID}
		err := s.txManager.Do(ctx, func(ctx context.Context) error {
			_, err := s.closeSession(ctx, sess.ID, nil)
			return err
		})
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.Closed = true
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// ForceCloseStale closes every session still open from a previous
// day, counted = computed. The overnight job calls this so a drawer
// left open never bleeds into the next day's accounting.
func (s *DrawerService) ForceCloseStale(ctx context.Context, now time.Time) ([]ForceCloseOutcome, error) {
	open, err := s.drawerRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var outcomes []ForceCloseOutcome
	for _, sess := range open {
		if !sess.OpenedAt.Before(startOfDay) {
			continue
		}
		outcome := ForceCloseOutcome{SessionID: sess.ID, OperatorID: sess.OperatorID}
		err := s.txManager.Do(ctx, func(ctx context.Context) error {
			_, err := s.closeSession(ctx, sess.ID, nil)
			return err
		})
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.Closed = true
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// closeSession computes the closing figures and releases the open key.
// Must run inside a transaction.
func (s *DrawerService) closeSession(ctx context.Context, sessionID uuid.UUID, countedAmount *int64) (*entity.DrawerSession, error) {
	session, err := s.drawerRepo.GetWithAdjustments(ctx, sessionID)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if session == nil || session.Status != enum.DrawerOpen {
		return nil, apperror.NewConflictError("Drawer session is not open")
	}

	computed := session.ComputedBalance()
	counted := computed
	if countedAmount != nil {
		counted = *countedAmount
	}

	now := time.Now()
	session.Status = enum.DrawerClosed
	session.OpenKey = nil
	session.ClosingComputed = computed
	session.ClosingCounted = counted
	session.Variance = counted - computed
	session.ClosedAt = &now

	if err := s.drawerRepo.Update(ctx, session); err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	return session, nil
}
