package handler

import (
	"strconv"

	"github.com/brechoria/brecho-api/internal/application/service"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/internal/domain/repository"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/request"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/response"
	"github.com/brechoria/brecho-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PieceHandler handles piece registry HTTP requests
type PieceHandler struct {
	pieceService *service.PieceService
}

// NewPieceHandler creates a new piece handler
func NewPieceHandler(pieceService *service.PieceService) *PieceHandler {
	return &PieceHandler{pieceService: pieceService}
}

// Intake registers a new piece in stock
// @Summary Intake piece
// @Description Register a new piece and assign the next label code
// @Tags pieces
// @Accept json
// @Produce json
// @Param request body request.IntakePieceRequest true "Piece data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /pieces [post]
func (h *PieceHandler) Intake(c *gin.Context) {
	var req request.IntakePieceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var acqType enum.AcquisitionType
	switch req.AcquisitionType {
	case "Purchase":
		acqType = enum.AcquisitionPurchase
	case "Consignment":
		acqType = enum.AcquisitionConsignment
	case "Barter":
		acqType = enum.AcquisitionBarter
	}

	piece, err := h.pieceService.IntakePiece(c.Request.Context(), &service.IntakePieceInput{
		Description:     req.Description,
		AcquisitionType: acqType,
		SalePrice:       toCents(req.SalePrice),
		CostPrice:       toCents(req.CostPrice),
		SupplierID:      req.SupplierID,
		Available:       req.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Piece registered", gin.H{"piece": piece})
}

// Get returns a piece by ID
func (h *PieceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid piece ID")
		return
	}

	piece, err := h.pieceService.GetPiece(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Piece retrieved", gin.H{"piece": piece})
}

// GetByLabel returns a piece by its printed label code
// @Summary Get piece by label
// @Description Look up a piece by the numeric code on its label
// @Tags pieces
// @Produce json
// @Param code path int true "Label code"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /pieces/label/{code} [get]
func (h *PieceHandler) GetByLabel(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 1 {
		response.BadRequest(c, "Invalid label code")
		return
	}

	piece, err := h.pieceService.GetPieceByLabel(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Piece retrieved", gin.H{"piece": piece})
}

// List returns pieces filtered by status, supplier and search text
// @Summary List pieces
// @Tags pieces
// @Produce json
// @Param search query string false "Search in description"
// @Param status query string false "Piece status"
// @Param supplier_id query string false "Supplier ID"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /pieces [get]
func (h *PieceHandler) List(c *gin.Context) {
	var req request.PieceFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	paging := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}
	paging.Validate()

	params := &repository.PieceFilterParams{
		Pagination: paging,
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.Status != "" {
		status, ok := enum.ParsePieceStatus(req.Status)
		if !ok {
			response.BadRequest(c, "Unknown piece status")
			return
		}
		params.Status = &status
	}
	if req.SupplierID != "" {
		supplierID, err := uuid.Parse(req.SupplierID)
		if err != nil {
			response.BadRequest(c, "Invalid supplier ID")
			return
		}
		params.SupplierID = &supplierID
	}

	result, err := h.pieceService.ListPieces(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Pieces retrieved", result)
}

// Update updates a piece's descriptive fields and prices
func (h *PieceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid piece ID")
		return
	}

	var req request.UpdatePieceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	piece, err := h.pieceService.UpdatePiece(c.Request.Context(), &service.UpdatePieceInput{
		ID:          id,
		Description: req.Description,
		SalePrice:   toCentsPtr(req.SalePrice),
		CostPrice:   toCentsPtr(req.CostPrice),
		SupplierID:  req.SupplierID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Piece updated", gin.H{"piece": piece})
}

// Transition applies a manual status transition
// @Summary Transition piece status
// @Description Move a piece to another lifecycle status
// @Tags pieces
// @Accept json
// @Produce json
// @Param id path string true "Piece ID"
// @Param request body request.TransitionPieceRequest true "Target status"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /pieces/{id}/transition [post]
func (h *PieceHandler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid piece ID")
		return
	}

	var req request.TransitionPieceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := enum.ParsePieceStatus(req.Status)
	if !ok {
		response.BadRequest(c, "Unknown piece status")
		return
	}

	piece, err := h.pieceService.Transition(c.Request.Context(), id, status, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Piece transitioned", gin.H{"piece": piece})
}

// Reserve puts an available piece on hold
func (h *PieceHandler) Reserve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid piece ID")
		return
	}

	var req request.ReservePieceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	piece, err := h.pieceService.Reserve(c.Request.Context(), id, req.Online, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Piece reserved", gin.H{"piece": piece})
}

// Release returns a reserved piece to the sales floor
func (h *PieceHandler) Release(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid piece ID")
		return
	}

	var req request.ReservePieceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Note = ""
	}

	piece, err := h.pieceService.Release(c.Request.Context(), id, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Piece released", gin.H{"piece": piece})
}

// Movements returns the full movement history of a piece
func (h *PieceHandler) Movements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid piece ID")
		return
	}

	movements, err := h.pieceService.ListMovements(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Movements retrieved", gin.H{"movements": movements})
}

// Delete removes a piece that was never sold
func (h *PieceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid piece ID")
		return
	}

	if err := h.pieceService.DeletePiece(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Piece deleted", nil)
}
