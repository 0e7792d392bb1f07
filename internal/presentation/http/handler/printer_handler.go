package handler

import (
	"github.com/brechoria/brecho-api/internal/application/service"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PrinterHandler handles receipt printer HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// Status returns the printer connection status
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status", gin.H{"printer": h.printerService.GetStatus()})
}

// PrintReceipt prints (or reprints) an order receipt
// @Summary Print receipt
// @Description Print the receipt for an order and return its contents
// @Tags printer
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /printer/orders/{id}/receipt [post]
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	receipt, err := h.printerService.PrintOrderReceipt(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed", gin.H{"receipt": receipt})
}

// PrintLabel prints a piece's price label
func (h *PrinterHandler) PrintLabel(c *gin.Context) {
	pieceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid piece ID")
		return
	}

	if err := h.printerService.PrintPieceLabel(c.Request.Context(), pieceID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Label printed", nil)
}
