package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/brechoria/brecho-api/internal/application/service"
	"github.com/brechoria/brecho-api/internal/config"
	"github.com/brechoria/brecho-api/internal/infrastructure/database"
	"github.com/brechoria/brecho-api/internal/infrastructure/repository"
	"github.com/brechoria/brecho-api/internal/presentation/http/handler"
	"github.com/brechoria/brecho-api/internal/presentation/http/routes"
	"github.com/brechoria/brecho-api/internal/scheduler"
	"github.com/brechoria/brecho-api/pkg/notifier"
	"github.com/brechoria/brecho-api/pkg/oauth"
	"github.com/brechoria/brecho-api/pkg/printer"
	"github.com/brechoria/brecho-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default settings and the admin account
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	pieceRepo := repository.NewPieceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	drawerRepo := repository.NewDrawerRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	txManager := repository.NewTxManager(db)

	// Initialize the notifier
	var notify notifier.Notifier = notifier.NewNopNotifier()
	if cfg.SMTP.Enabled {
		notify = notifier.NewSMTPNotifier(notifier.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			FromName: cfg.App.Name,
			From:     cfg.SMTP.From,
		})
	}

	// Initialize Google OAuth service
	googleOAuth := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
	})

	// Initialize the thermal printer
	thermalPrinter := printer.NewPrinterFromConfig(cfg.Printer.Device, cfg.Printer.Enabled)
	defer thermalPrinter.Close()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, googleOAuth)
	userService := service.NewUserService(userRepo)
	supplierService := service.NewSupplierService(supplierRepo, settingsRepo)
	customerService := service.NewCustomerService(customerRepo)
	pieceService := service.NewPieceService(pieceRepo, ledgerRepo, txManager)
	ledgerService := service.NewLedgerService(ledgerRepo, supplierRepo, customerRepo, txManager)
	creditService := service.NewCreditService(creditRepo, customerRepo, settingsRepo, txManager, notify)
	drawerService := service.NewDrawerService(drawerRepo, userRepo, txManager)
	saleService := service.NewSaleService(orderRepo, pieceRepo, ledgerRepo, creditRepo, drawerRepo, customerRepo, supplierRepo, settingsRepo, txManager, notify)
	reportService := service.NewReportService(orderRepo, pieceRepo, ledgerRepo, supplierRepo, customerRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	printerService := service.NewPrinterService(thermalPrinter, orderRepo, pieceRepo, cfg.Printer.Width, cfg.Printer.Encoding, cfg.App.Name)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Piece:    handler.NewPieceHandler(pieceService),
		Supplier: handler.NewSupplierHandler(supplierService),
		Customer: handler.NewCustomerHandler(customerService, creditService),
		Ledger:   handler.NewLedgerHandler(ledgerService),
		Credit:   handler.NewCreditHandler(creditService),
		Drawer:   handler.NewDrawerHandler(drawerService),
		Sale:     handler.NewSaleHandler(saleService),
		Report:   handler.NewReportHandler(reportService),
		Settings: handler.NewSettingsHandler(settingsService),
		User:     handler.NewUserHandler(userService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Start the background scheduler for credit sweeps, the monthly
	// cycle and overnight drawer cleanup
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(creditService, drawerService, cfg.Scheduler.SweepInterval)
		sched.Start()
	}

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
