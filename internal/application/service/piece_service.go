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

// PieceService handles stock piece operations: intake, the status
// machine, and the movement audit trail.
type PieceService struct {
	pieceRepo  repository.PieceRepository
	ledgerRepo repository.LedgerRepository
	txManager  repository.TxManager
}

// NewPieceService creates a new piece service
func NewPieceService(
	pieceRepo repository.PieceRepository,
	ledgerRepo repository.LedgerRepository,
	txManager repository.TxManager,
) *PieceService {
	return &PieceService{
		pieceRepo:  pieceRepo,
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
	}
}

// IntakePieceInput represents the stock intake input
type IntakePieceInput struct {
	Description     string
	AcquisitionType enum.AcquisitionType
	SalePrice       int64
	CostPrice       int64
	SupplierID      *uuid.UUID
	// Available pieces skip the authorization step; everything else
	// enters as New.
	Available bool
}

// IntakePiece registers a new piece in stock. The label code is
// reserved inside the same transaction that creates the piece, so
// concurrent intakes never collide and every piece gets the next
// sequential number.
func (s *PieceService) IntakePiece(ctx context.Context, input *IntakePieceInput) (*entity.Piece, error) {
	if input.Description == "" {
		return nil, apperror.NewBadRequestError("Description is required")
	}
	if input.SalePrice < 0 || input.CostPrice < 0 {
		return nil, apperror.NewBadRequestError("Prices cannot be negative")
	}
	if input.AcquisitionType == enum.AcquisitionConsignment && input.SupplierID == nil {
		return nil, apperror.NewBadRequestError("Consignment pieces require a supplier")
	}

	var piece *entity.Piece
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		labelCode, err := s.pieceRepo.NextLabelCode(ctx)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}

		status := enum.PieceStatusNew
		if input.Available {
			status = enum.PieceStatusAvailable
		}

		piece = &entity.Piece{
			LabelCode:       labelCode,
			Description:     input.Description,
			AcquisitionType: input.AcquisitionType,
			Status:          status,
			SalePrice:       input.SalePrice,
			CostPrice:       input.CostPrice,
			SupplierID:      input.SupplierID,
			EntryDate:       time.Now(),
		}
		if err := s.pieceRepo.Create(ctx, piece); err != nil {
			return apperror.NewPersistenceError(err)
		}

		movement := &entity.StockMovement{
			PieceID:    piece.ID,
			FromStatus: enum.PieceStatusNew,
			ToStatus:   status,
			Note:       "intake",
		}
		return s.pieceRepo.CreateMovement(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	return piece, nil
}

// GetPiece retrieves a piece by ID
func (s *PieceService) GetPiece(ctx context.Context, id uuid.UUID) (*entity.Piece, error) {
	piece, err := s.pieceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if piece == nil {
		return nil, apperror.NewNotFoundError("Piece")
	}
	return piece, nil
}

// GetPieceByLabel retrieves a piece by its printed label code
func (s *PieceService) GetPieceByLabel(ctx context.Context, labelCode int) (*entity.Piece, error) {
	piece, err := s.pieceRepo.GetByLabelCode(ctx, labelCode)
	if err != nil {
		return nil, err
	}
	if piece == nil {
		return nil, apperror.NewNotFoundError("Piece")
	}
	return piece, nil
}

// ListPieces lists pieces with filtering and pagination
func (s *PieceService) ListPieces(ctx context.Context, params *repository.PieceFilterParams) (*pagination.PaginatedResult[entity.Piece], error) {
	pieces, total, err := s.pieceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(pieces, pag), nil
}

// UpdatePieceInput represents the editable piece fields. Status is
// deliberately absent: status only moves through Transition.
type UpdatePieceInput struct {
	ID          uuid.UUID
	Description *string
	SalePrice   *int64
	CostPrice   *int64
	SupplierID  *uuid.UUID
}

// UpdatePiece updates a piece's descriptive fields and prices
func (s *PieceService) UpdatePiece(ctx context.Context, input *UpdatePieceInput) (*entity.Piece, error) {
	piece, err := s.pieceRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if piece == nil {
		return nil, apperror.NewNotFoundError("Piece")
	}

	if input.Description != nil {
		piece.Description = *input.Description
	}
	if input.SalePrice != nil {
		if *input.SalePrice < 0 {
			return nil, apperror.NewBadRequestError("Sale price cannot be negative")
		}
		piece.SalePrice = *input.SalePrice
	}
	if input.CostPrice != nil {
		if *input.CostPrice < 0 {
			return nil, apperror.NewBadRequestError("Cost price cannot be negative")
		}
		piece.CostPrice = *input.CostPrice
	}
	if input.SupplierID != nil {
		piece.SupplierID = input.SupplierID
	}

	if err := s.pieceRepo.Update(ctx, piece); err != nil {
		return nil, err
	}

	return piece, nil
}

// Transition moves a piece to a new status, enforcing the status
// machine and appending a movement row in the same transaction. The
// sold status is owned by checkout and the return flow; moving a piece
// into or out of Sold by hand is rejected.
func (s *PieceService) Transition(ctx context.Context, id uuid.UUID, next enum.PieceStatus, note string) (*entity.Piece, error) {
	if next == enum.PieceStatusSold {
		return nil, apperror.NewConflictError("Pieces are sold through checkout, not by manual transition")
	}

	var piece *entity.Piece
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		piece, err = s.pieceRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if piece == nil {
			return apperror.NewNotFoundError("Piece")
		}
		if piece.Status == enum.PieceStatusSold {
			return apperror.NewConflictError(fmt.Sprintf("Piece %d is sold; use the return flow", piece.LabelCode))
		}
		if !piece.Status.CanTransition(next) {
			return apperror.NewConflictError(fmt.Sprintf(
				"Piece %d cannot move from %s to %s", piece.LabelCode, piece.Status, next))
		}

		return s.applyTransition(ctx, piece, next, note, nil)
	})
	if err != nil {
		return nil, err
	}

	return piece, nil
}

// Reserve holds an available piece for a bundle or an online checkout
func (s *PieceService) Reserve(ctx context.Context, id uuid.UUID, online bool, note string) (*entity.Piece, error) {
	next := enum.PieceStatusReservedBundle
	if online {
		next = enum.PieceStatusReservedOnline
	}
	return s.Transition(ctx, id, next, note)
}

// Release puts a reserved piece back on the shelf
func (s *PieceService) Release(ctx context.Context, id uuid.UUID, note string) (*entity.Piece, error) {
	var piece *entity.Piece
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		piece, err = s.pieceRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		if piece == nil {
			return apperror.NewNotFoundError("Piece")
		}
		if !piece.Status.Reserved() {
			return apperror.NewConflictError(fmt.Sprintf("Piece %d is not reserved", piece.LabelCode))
		}

		return s.applyTransition(ctx, piece, enum.PieceStatusAvailable, note, nil)
	})
	if err != nil {
		return nil, err
	}

	return piece, nil
}

// ListMovements returns the piece's full audit trail
func (s *PieceService) ListMovements(ctx context.Context, pieceID uuid.UUID) ([]entity.StockMovement, error) {
	piece, err := s.pieceRepo.GetByID(ctx, pieceID)
	if err != nil {
		return nil, err
	}
	if piece == nil {
		return nil, apperror.NewNotFoundError("Piece")
	}
	return s.pieceRepo.ListMovements(ctx, pieceID)
}

// DeletePiece soft-deletes a piece. Pieces that ever generated a
// ledger entry stay on the books for traceability.
func (s *PieceService) DeletePiece(ctx context.Context, id uuid.UUID) error {
	piece, err := s.pieceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if piece == nil {
		return apperror.NewNotFoundError("Piece")
	}
	if piece.Status == enum.PieceStatusSold {
		return apperror.NewConflictError(fmt.Sprintf("Piece %d is sold and cannot be deleted", piece.LabelCode))
	}

	count, err := s.ledgerRepo.CountByOriginPiece(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError(fmt.Sprintf(
			"Piece %d has ledger entries and cannot be deleted", piece.LabelCode))
	}

	return s.pieceRepo.SoftDelete(ctx, id)
}

// applyTransition persists the status change and its movement row.
// Callers must hold the piece row lock.
func (s *PieceService) applyTransition(ctx context.Context, piece *entity.Piece, next enum.PieceStatus, note string, orderID *uuid.UUID) error {
	from := piece.Status
	piece.Status = next
	if err := s.pieceRepo.Update(ctx, piece); err != nil {
		return apperror.NewPersistenceError(err)
	}

	movement := &entity.StockMovement{
		PieceID:    piece.ID,
		FromStatus: from,
		ToStatus:   next,
		OrderID:    orderID,
		Note:       note,
	}
	if err := s.pieceRepo.CreateMovement(ctx, movement); err != nil {
		return apperror.NewPersistenceError(err)
	}
	return nil
}
