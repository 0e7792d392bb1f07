package handler

import (
	"github.com/brechoria/brecho-api/internal/application/service"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/request"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/response"
	"github.com/brechoria/brecho-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DrawerHandler handles cash drawer HTTP requests
type DrawerHandler struct {
	drawerService *service.DrawerService
}

// NewDrawerHandler creates a new drawer handler
func NewDrawerHandler(drawerService *service.DrawerService) *DrawerHandler {
	return &DrawerHandler{drawerService: drawerService}
}

// Open opens a drawer session for the authenticated operator
// @Summary Open drawer
// @Description Open a cash drawer session with an opening float
// @Tags drawer
// @Accept json
// @Produce json
// @Param request body request.OpenDrawerRequest true "Opening float"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /drawer/open [post]
func (h *DrawerHandler) Open(c *gin.Context) {
	operatorID := GetUserID(c)
	if operatorID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.OpenDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.drawerService.Open(c.Request.Context(), *operatorID, toCents(req.OpeningFloat))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Drawer opened", gin.H{"session": session})
}

// Current returns the operator's open drawer session
func (h *DrawerHandler) Current(c *gin.Context) {
	operatorID := GetUserID(c)
	if operatorID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	session, err := h.drawerService.GetCurrent(c.Request.Context(), *operatorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Current session", gin.H{"session": session})
}

// Get returns a drawer session by ID
func (h *DrawerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.drawerService.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session retrieved", gin.H{"session": session})
}

// List returns drawer session history
func (h *DrawerHandler) List(c *gin.Context) {
	var req request.DrawerFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	paging := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}
	paging.Validate()

	params := &repository.DrawerFilterParams{
		Pagination: paging,
		OnlyOpen:   req.OnlyOpen,
	}
	if req.OperatorID != "" {
		operatorID, err := uuid.Parse(req.OperatorID)
		if err != nil {
			response.BadRequest(c, "Invalid operator ID")
			return
		}
		params.OperatorID = &operatorID
	}

	result, err := h.drawerService.ListSessions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sessions retrieved", result)
}

// Adjust registers a withdrawal or top-up on the open session
// @Summary Adjust drawer
// @Description Register a sangria (withdrawal) or suprimento (top-up)
// @Tags drawer
// @Accept json
// @Produce json
// @Param request body request.AdjustDrawerRequest true "Adjustment data"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 412 {object} response.APIResponse
// @Router /drawer/adjust [post]
func (h *DrawerHandler) Adjust(c *gin.Context) {
	operatorID := GetUserID(c)
	if operatorID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.AdjustDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	adjType := enum.AdjustmentWithdrawal
	if req.Type == "TopUp" {
		adjType = enum.AdjustmentTopUp
	}

	adjustment, err := h.drawerService.Adjust(c.Request.Context(), *operatorID, adjType, toCents(req.Amount), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Adjustment registered", gin.H{"adjustment": adjustment})
}

// Close closes the operator's open session
// @Summary Close drawer
// @Description Close the open session, recording the counted amount and variance
// @Tags drawer
// @Accept json
// @Produce json
// @Param request body request.CloseDrawerRequest true "Counted amount"
// @Success 200 {object} response.APIResponse
// @Failure 412 {object} response.APIResponse
// @Router /drawer/close [post]
func (h *DrawerHandler) Close(c *gin.Context) {
	operatorID := GetUserID(c)
	if operatorID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.CloseDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.drawerService.Close(c.Request.Context(), *operatorID, toCentsPtr(req.CountedAmount))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Drawer closed", gin.H{"session": session})
}

// ForceCloseAll closes every open session (admin only)
func (h *DrawerHandler) ForceCloseAll(c *gin.Context) {
	outcomes, err := h.drawerService.ForceCloseAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Force close completed", gin.H{"sessions": outcomes})
}
