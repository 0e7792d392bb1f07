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

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return db(ctx, r.db).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := db(ctx, r.db).
		Preload("Customer").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetByCode(ctx context.Context, code string) (*entity.Order, error) {
	var order entity.Order
	err := db(ctx, r.db).First(&order, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := db(ctx, r.db).
		Preload("Customer").
		Preload("Salesperson").
		Preload("Lines").
		Preload("Lines.Piece").
		Preload("Payments").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	return db(ctx, r.db).Save(order).Error
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return db(ctx, r.db).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := db(ctx, r.db).Model(&entity.Order{})

	if params.Search != "" {
		query = query.Where("code LIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.SalespersonID != nil {
		query = query.Where("salesperson_id = ?", *params.SalespersonID)
	}

	if params.StartDate != nil {
		query = query.Where("order_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("order_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) CreateLines(ctx context.Context, lines []entity.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return db(ctx, r.db).Create(&lines).Error
}

func (r *orderRepository) UpdateLine(ctx context.Context, line *entity.OrderLine) error {
	return db(ctx, r.db).Save(line).Error
}

func (r *orderRepository) ActiveLineForPiece(ctx context.Context, pieceID uuid.UUID) (*entity.OrderLine, error) {
	var line entity.OrderLine
	err := db(ctx, r.db).
		First(&line, "piece_id = ? AND cancelled = ?", pieceID, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &line, err
}

func (r *orderRepository) CreatePayments(ctx context.Context, payments []entity.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return db(ctx, r.db).Create(&payments).Error
}

func (r *orderRepository) DailySummary(ctx context.Context, from, to time.Time) ([]domainRepo.DailySales, error) {
	type row struct {
		Day        time.Time
		OrderCount int64
		TotalCents int64
	}
	var rows []row
	err := db(ctx, r.db).Model(&entity.Order{}).
		Where("status NOT IN ? AND order_date >= ? AND order_date <= ?",
			[]enum.OrderStatus{enum.OrderStatusCancelled, enum.OrderStatusReturned}, from, to).
		Select("DATE(order_date) AS day, COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS total_cents").
		Group("DATE(order_date)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := make([]domainRepo.DailySales, len(rows))
	for i, r := range rows {
		summary[i] = domainRepo.DailySales{
			Day:        r.Day,
			OrderCount: r.OrderCount,
			TotalCents: r.TotalCents,
		}
	}
	return summary, nil
}
