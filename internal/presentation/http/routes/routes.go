package routes

import (
	"time"

	"github.com/brechoria/brecho-api/internal/config"
	"github.com/brechoria/brecho-api/internal/domain/entity"
	domainRepo "github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/brechoria/brecho-api/internal/presentation/http/handler"
	"github.com/brechoria/brecho-api/internal/presentation/http/middleware"
	"github.com/brechoria/brecho-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Piece    *handler.PieceHandler
	Supplier *handler.SupplierHandler
	Customer *handler.CustomerHandler
	Ledger   *handler.LedgerHandler
	Credit   *handler.CreditHandler
	Drawer   *handler.DrawerHandler
	Sale     *handler.SaleHandler
	Report   *handler.ReportHandler
	Settings *handler.SettingsHandler
	User     *handler.UserHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-operator rate limiter
		rateLimiter := middleware.NewOperatorRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/password", h.Auth.ChangePassword)
	protected.POST("/auth/register", middleware.RequireRole(entity.RoleAdmin), h.Auth.Register)

	// Settings
	protected.GET("/settings", h.Settings.Get)
	protected.PUT("/settings", middleware.RequireRole(entity.RoleAdmin), h.Settings.Update)

	registerPieceRoutes(protected, h)
	registerPersonRoutes(protected, h)
	registerLedgerRoutes(protected, h)
	registerCreditRoutes(protected, h)
	registerDrawerRoutes(protected, h)
	registerOrderRoutes(protected, h, deps)
	registerReportRoutes(protected, h)
	registerUserRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerPieceRoutes(protected *gin.RouterGroup, h *Handlers) {
	pieces := protected.Group("/pieces")
	{
		pieces.GET("", h.Piece.List)
		pieces.POST("", h.Piece.Intake)
		pieces.GET("/label/:code", h.Piece.GetByLabel)
		pieces.GET("/:id", h.Piece.Get)
		pieces.PUT("/:id", h.Piece.Update)
		pieces.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Piece.Delete)
		pieces.POST("/:id/transition", h.Piece.Transition)
		pieces.POST("/:id/reserve", h.Piece.Reserve)
		pieces.POST("/:id/release", h.Piece.Release)
		pieces.GET("/:id/movements", h.Piece.Movements)
		pieces.POST("/:id/recompute-commission", middleware.RequireRole(entity.RoleAdmin), h.Sale.RecomputeCommission)
		pieces.POST("/:id/label", h.Printer.PrintLabel)
	}
}

func registerPersonRoutes(protected *gin.RouterGroup, h *Handlers) {
	suppliers := protected.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Supplier.Delete)
	}

	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Customer.Delete)
		customers.GET("/:id/credits", h.Customer.Credits)
	}
}

func registerLedgerRoutes(protected *gin.RouterGroup, h *Handlers) {
	ledger := protected.Group("/ledger/:person_type")
	{
		ledger.GET("/payables", h.Ledger.Payables)
		ledger.POST("/:person_id/entries", h.Ledger.PostEntry)
		ledger.GET("/:person_id/balance", h.Ledger.Balance)
		ledger.GET("/:person_id/statement", h.Ledger.Statement)
		ledger.POST("/:person_id/payout", h.Ledger.SettlePayout)
	}
}

func registerCreditRoutes(protected *gin.RouterGroup, h *Handlers) {
	credits := protected.Group("/credits")
	{
		credits.POST("", h.Credit.Grant)
		credits.GET("/coupon/:code", h.Credit.GetByCoupon)
		credits.GET("/:id", h.Credit.Get)
		credits.POST("/sweep", middleware.RequireRole(entity.RoleAdmin), h.Credit.RunSweep)
		credits.POST("/cycle", middleware.RequireRole(entity.RoleAdmin), h.Credit.RunCycle)
	}
}

func registerDrawerRoutes(protected *gin.RouterGroup, h *Handlers) {
	drawer := protected.Group("/drawer")
	{
		drawer.POST("/open", h.Drawer.Open)
		drawer.GET("/current", h.Drawer.Current)
		drawer.POST("/adjust", h.Drawer.Adjust)
		drawer.POST("/close", h.Drawer.Close)
		drawer.GET("/sessions", h.Drawer.List)
		drawer.GET("/sessions/:id", h.Drawer.Get)
		drawer.POST("/force-close", middleware.RequireRole(entity.RoleAdmin), h.Drawer.ForceCloseAll)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Sale.List)
		// Checkout uses idempotency middleware to prevent duplicate sales
		orders.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Sale.Checkout)
		orders.GET("/:id", h.Sale.Get)
		orders.POST("/:id/return", h.Sale.ReturnLine)
		orders.POST("/:id/receipt", h.Printer.PrintReceipt)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	{
		reports.GET("/sales", h.Report.Sales)
		reports.GET("/inventory", h.Report.Inventory)
		reports.GET("/payables", h.Report.Payables)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/printer/status", h.Printer.Status)
}
