package handler

import (
	"time"

	"github.com/brechoria/brecho-api/internal/application/service"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/request"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/response"
	"github.com/brechoria/brecho-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler handles sale and order HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func parsePaymentMethod(s string) (enum.PaymentMethod, bool) {
	switch s {
	case "Cash":
		return enum.PaymentCash, true
	case "CardCredit":
		return enum.PaymentCardCredit, true
	case "CardDebit":
		return enum.PaymentCardDebit, true
	case "Pix":
		return enum.PaymentPix, true
	case "StoreCredit":
		return enum.PaymentStoreCredit, true
	case "BarterVoucher":
		return enum.PaymentBarterVoucher, true
	}
	return enum.PaymentCash, false
}

// Checkout processes a complete sale
// @Summary Checkout
// @Description Sell one or more pieces atomically with split payments
// @Tags sales
// @Accept json
// @Produce json
// @Param request body request.CheckoutRequest true "Sale data"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 412 {object} response.APIResponse
// @Router /orders [post]
func (h *SaleHandler) Checkout(c *gin.Context) {
	operatorID := GetUserID(c)
	if operatorID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CheckoutInput{
		OperatorID: *operatorID,
		CustomerID: req.CustomerID,
		Channel:    req.Channel,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, service.CheckoutLineInput{
			PieceID:      line.PieceID,
			ChargedPrice: toCentsPtr(line.ChargedPrice),
		})
	}
	for _, pay := range req.Payments {
		method, ok := parsePaymentMethod(pay.Method)
		if !ok {
			response.BadRequest(c, "Unknown payment method")
			return
		}
		input.Payments = append(input.Payments, service.CheckoutPaymentInput{
			Method:       method,
			Amount:       toCents(pay.Amount),
			Installments: pay.Installments,
			GrantID:      pay.GrantID,
			CouponCode:   pay.CouponCode,
		})
	}

	result, err := h.saleService.Checkout(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed", gin.H{
		"order":    result.Order,
		"cashback": result.Cashback,
	})
}

// Get returns an order with lines, payments and people
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.saleService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved", gin.H{"order": order})
}

// List returns orders filtered by status, customer and date range
// @Summary List orders
// @Tags sales
// @Produce json
// @Param search query string false "Search by order code"
// @Param status query string false "Order status"
// @Param customer_id query string false "Customer ID"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /orders [get]
func (h *SaleHandler) List(c *gin.Context) {
	var req request.OrderFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	paging := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}
	paging.Validate()

	params := &repository.OrderFilterParams{
		Pagination: paging,
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.Status != "" {
		var status enum.OrderStatus
		switch req.Status {
		case "Draft":
			status = enum.OrderStatusDraft
		case "Paid":
			status = enum.OrderStatusPaid
		case "Delivered":
			status = enum.OrderStatusDelivered
		case "Cancelled":
			status = enum.OrderStatusCancelled
		case "Returned":
			status = enum.OrderStatusReturned
		default:
			response.BadRequest(c, "Unknown order status")
			return
		}
		params.Status = &status
	}
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}
	if req.StartDate != "" {
		startDate, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &startDate
	}
	if req.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		// make the end date inclusive
		endDate = endDate.Add(24*time.Hour - time.Nanosecond)
		params.EndDate = &endDate
	}

	result, err := h.saleService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved", result)
}

// ReturnLine processes the return of one sold piece
// @Summary Return piece
// @Description Return one sold piece, refunding as store credit
// @Tags sales
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body request.ReturnLineRequest true "Return data"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /orders/{id}/return [post]
func (h *SaleHandler) ReturnLine(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.ReturnLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.saleService.ReturnLine(c.Request.Context(), orderID, req.PieceID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Return processed", gin.H{"order": order})
}

// RecomputeCommission reconciles a piece's posted commission (admin only)
func (h *SaleHandler) RecomputeCommission(c *gin.Context) {
	pieceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid piece ID")
		return
	}

	entries, err := h.saleService.RecomputeCommission(c.Request.Context(), pieceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission recomputed", gin.H{"entries": entries})
}
