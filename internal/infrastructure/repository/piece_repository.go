package repository

import (
	"context"
	"errors"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	domainRepo "github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pieceRepository struct {
	db *gorm.DB
}

// NewPieceRepository creates a new piece repository
func NewPieceRepository(db *gorm.DB) domainRepo.PieceRepository {
	return &pieceRepository{db: db}
}

func (r *pieceRepository) Create(ctx context.Context, piece *entity.Piece) error {
	return db(ctx, r.db).Create(piece).Error
}

func (r *pieceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Piece, error) {
	var piece entity.Piece
	err := db(ctx, r.db).
		Preload("Supplier").
		First(&piece, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &piece, err
}

func (r *pieceRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Piece, error) {
	var piece entity.Piece
	err := forUpdate(db(ctx, r.db)).First(&piece, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &piece, err
}

func (r *pieceRepository) GetByLabelCode(ctx context.Context, labelCode int) (*entity.Piece, error) {
	var piece entity.Piece
	err := db(ctx, r.db).Preload("Supplier").First(&piece, "label_code = ?", labelCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &piece, err
}

func (r *pieceRepository) Update(ctx context.Context, piece *entity.Piece) error {
	return db(ctx, r.db).Save(piece).Error
}

func (r *pieceRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return db(ctx, r.db).Delete(&entity.Piece{}, "id = ?", id).Error
}

func (r *pieceRepository) List(ctx context.Context, params *domainRepo.PieceFilterParams) ([]entity.Piece, int64, error) {
	var pieces []entity.Piece
	var total int64

	query := db(ctx, r.db).Model(&entity.Piece{})

	if params.Search != "" {
		query = query.Where("description LIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.SupplierID != nil {
		query = query.Where("supplier_id = ?", *params.SupplierID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "label_code"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Supplier").
		Order(sortBy + " " + sortOrder).
		Find(&pieces).Error

	return pieces, total, err
}

// NextLabelCode reserves the next sequential label. The max query runs
// against the ambient transaction, so intake calls racing each other
// are serialized by the insert's unique index on label_code.
func (r *pieceRepository) NextLabelCode(ctx context.Context) (int, error) {
	var maxLabel int64
	err := db(ctx, r.db).Model(&entity.Piece{}).
		Unscoped(). // soft-deleted pieces still hold their label
		Select("COALESCE(MAX(label_code), 0)").
		Scan(&maxLabel).Error
	if err != nil {
		return 0, err
	}
	return int(maxLabel) + 1, nil
}

func (r *pieceRepository) CreateMovement(ctx context.Context, movement *entity.StockMovement) error {
	return db(ctx, r.db).Create(movement).Error
}

func (r *pieceRepository) ListMovements(ctx context.Context, pieceID uuid.UUID) ([]entity.StockMovement, error) {
	var movements []entity.StockMovement
	err := db(ctx, r.db).
		Where("piece_id = ?", pieceID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

func (r *pieceRepository) StatusCounts(ctx context.Context) ([]domainRepo.StatusCount, error) {
	var counts []domainRepo.StatusCount
	err := db(ctx, r.db).Model(&entity.Piece{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status ASC").
		Scan(&counts).Error
	return counts, err
}
