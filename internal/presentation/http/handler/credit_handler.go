package handler

import (
	"time"

	"github.com/brechoria/brecho-api/internal/application/service"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/request"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreditHandler handles store credit HTTP requests
type CreditHandler struct {
	creditService *service.CreditService
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(creditService *service.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// Grant issues a store credit grant manually
// @Summary Grant credit
// @Description Issue a store credit grant to a customer
// @Tags credits
// @Accept json
// @Produce json
// @Param request body request.GrantCreditRequest true "Grant data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /credits [post]
func (h *CreditHandler) Grant(c *gin.Context) {
	var req request.GrantCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.GrantCreditInput{
		CustomerID: req.CustomerID,
		Amount:     toCents(req.Amount),
		Pending:    req.Pending,
		WithCoupon: req.WithCoupon,
	}
	if req.ExpiresAt != nil {
		expiresAt, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			response.BadRequest(c, "Invalid expires_at, expected RFC 3339")
			return
		}
		input.ExpiresAt = &expiresAt
	}

	grant, err := h.creditService.GrantCredit(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Credit granted", gin.H{"grant": grant})
}

// Get returns a credit grant by ID
func (h *CreditHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid grant ID")
		return
	}

	grant, err := h.creditService.GetGrant(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Grant retrieved", gin.H{"grant": grant})
}

// GetByCoupon returns a credit grant by its voucher code
// @Summary Get grant by coupon
// @Description Look up a store credit grant by printed voucher code
// @Tags credits
// @Produce json
// @Param code path string true "Coupon code"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /credits/coupon/{code} [get]
func (h *CreditHandler) GetByCoupon(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, "Missing coupon code")
		return
	}

	grant, err := h.creditService.GetGrantByCoupon(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Grant retrieved", gin.H{"grant": grant})
}

// RunSweep expires every grant past its expiry date (admin only)
func (h *CreditHandler) RunSweep(c *gin.Context) {
	expired, err := h.creditService.RunDailySweep(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sweep completed", gin.H{"expired": expired})
}

// RunCycle triggers the monthly credit cycle (admin only)
// @Summary Run monthly cycle
// @Description Expire active credits and activate pending ones
// @Tags credits
// @Produce json
// @Param force query bool false "Run even when the cycle is not due"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /credits/cycle [post]
func (h *CreditHandler) RunCycle(c *gin.Context) {
	force := c.Query("force") == "true"

	result, err := h.creditService.RunMonthlyCycle(c.Request.Context(), force)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Monthly cycle completed", gin.H{
		"expired":   result.Expired,
		"activated": result.Activated,
	})
}
