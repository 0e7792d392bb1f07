package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	infra "github.com/brechoria/brecho-api/internal/infrastructure/repository"
	"github.com/brechoria/brecho-api/pkg/apperror"
	"github.com/brechoria/brecho-api/pkg/notifier"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&entity.User{},
		&entity.Supplier{},
		&entity.Customer{},
		&entity.Piece{},
		&entity.StockMovement{},
		&entity.Order{},
		&entity.OrderLine{},
		&entity.Payment{},
		&entity.LedgerEntry{},
		&entity.CreditGrant{},
		&entity.DrawerSession{},
		&entity.DrawerAdjustment{},
		&entity.StoreSettings{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixture wires every service against one in-memory database, the same
// way cmd/api does against postgres.
type fixture struct {
	db        *gorm.DB
	pieces    *PieceService
	ledger    *LedgerService
	credits   *CreditService
	drawers   *DrawerService
	sales     *SaleService
	suppliers *SupplierService
	customers *CustomerService
	settings  *SettingsService
}

func newFixture(t *testing.T) *fixture {
	db := setupTestDB(t, t.Name())

	pieceRepo := infra.NewPieceRepository(db)
	orderRepo := infra.NewOrderRepository(db)
	ledgerRepo := infra.NewLedgerRepository(db)
	creditRepo := infra.NewCreditRepository(db)
	drawerRepo := infra.NewDrawerRepository(db)
	supplierRepo := infra.NewSupplierRepository(db)
	customerRepo := infra.NewCustomerRepository(db)
	userRepo := infra.NewUserRepository(db)
	settingsRepo := infra.NewSettingsRepository(db)
	txManager := infra.NewTxManager(db)
	notify := notifier.NewNopNotifier()

	return &fixture{
		db:        db,
		pieces:    NewPieceService(pieceRepo, ledgerRepo, txManager),
		ledger:    NewLedgerService(ledgerRepo, supplierRepo, customerRepo, txManager),
		credits:   NewCreditService(creditRepo, customerRepo, settingsRepo, txManager, notify),
		drawers:   NewDrawerService(drawerRepo, userRepo, txManager),
		sales:     NewSaleService(orderRepo, pieceRepo, ledgerRepo, creditRepo, drawerRepo, customerRepo, supplierRepo, settingsRepo, txManager, notify),
		suppliers: NewSupplierService(supplierRepo, settingsRepo),
		customers: NewCustomerService(customerRepo),
		settings:  NewSettingsService(settingsRepo),
	}
}

func (f *fixture) seedOperator(t *testing.T) *entity.User {
	t.Helper()
	u := entity.User{FirstName: "Ana", Email: fmt.Sprintf("op-%s@test.local", uuid.NewString()), Role: entity.RoleOperator, Active: true}
	if err := f.db.Create(&u).Error; err != nil {
		t.Fatalf("seed operator: %v", err)
	}
	return &u
}

func (f *fixture) seedSupplier(t *testing.T, rate int) *entity.Supplier {
	t.Helper()
	s := entity.Supplier{Name: "Dona Marta", CommissionRate: rate}
	if err := f.db.Create(&s).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return &s
}

func (f *fixture) seedCustomer(t *testing.T) *entity.Customer {
	t.Helper()
	c := entity.Customer{Name: "Clara"}
	if err := f.db.Create(&c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return &c
}

// seedConsignedPiece registers an available consignment piece priced in
// cents through the real intake path.
func (f *fixture) seedConsignedPiece(t *testing.T, supplierID uuid.UUID, price int64) *entity.Piece {
	t.Helper()
	piece, err := f.pieces.IntakePiece(context.Background(), &IntakePieceInput{
		Description:     "Vestido floral",
		AcquisitionType: enum.AcquisitionConsignment,
		SalePrice:       price,
		SupplierID:      &supplierID,
		Available:       true,
	})
	if err != nil {
		t.Fatalf("intake piece: %v", err)
	}
	return piece
}

func (f *fixture) seedPurchasedPiece(t *testing.T, price int64) *entity.Piece {
	t.Helper()
	piece, err := f.pieces.IntakePiece(context.Background(), &IntakePieceInput{
		Description:     "Camisa lisa",
		AcquisitionType: enum.AcquisitionPurchase,
		SalePrice:       price,
		CostPrice:       price / 2,
		Available:       true,
	})
	if err != nil {
		t.Fatalf("intake piece: %v", err)
	}
	return piece
}

func assertAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", code)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %d, got %d (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}
