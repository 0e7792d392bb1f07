package handler

import (
	"github.com/brechoria/brecho-api/internal/application/service"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/request"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/response"
	"github.com/brechoria/brecho-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
	creditService   *service.CreditService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService, creditService *service.CreditService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, creditService: creditService}
}

// Create creates a new customer
// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Param request body request.CreateCustomerRequest true "Customer data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created", gin.H{"customer": customer})
}

// Get returns a customer by ID
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved", gin.H{"customer": customer})
}

// List returns customers with pagination and search
func (h *CustomerHandler) List(c *gin.Context) {
	var paging pagination.PaginationParams
	if err := c.ShouldBindQuery(&paging); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	paging.Validate()

	result, err := h.customerService.ListCustomers(c.Request.Context(), &paging, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved", result)
}

// Update updates a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req request.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), &service.UpdateCustomerInput{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated", gin.H{"customer": customer})
}

// Delete removes a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer deleted", nil)
}

// Credits returns all credit grants of a customer with the active balance
// @Summary Customer credits
// @Description List a customer's store credit grants and active balance
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.APIResponse
// @Router /customers/{id}/credits [get]
func (h *CustomerHandler) Credits(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	grants, err := h.creditService.ListCustomerCredits(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	balance, err := h.creditService.ActiveBalance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Credits retrieved", gin.H{
		"grants":         grants,
		"active_balance": float64(balance) / 100,
	})
}
