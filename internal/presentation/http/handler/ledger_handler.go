package handler

import (
	"github.com/brechoria/brecho-api/internal/application/service"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/request"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles person ledger HTTP requests
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func parsePersonType(s string) (enum.PersonType, bool) {
	switch s {
	case "supplier", "suppliers":
		return enum.PersonSupplier, true
	case "customer", "customers":
		return enum.PersonCustomer, true
	}
	return enum.PersonSupplier, false
}

// PostEntry appends a manual entry to a person's account
// @Summary Post ledger entry
// @Description Append a credit or debit to a supplier or customer account
// @Tags ledger
// @Accept json
// @Produce json
// @Param person_type path string true "supplier or customer"
// @Param person_id path string true "Person ID"
// @Param request body request.PostEntryRequest true "Entry data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /ledger/{person_type}/{person_id}/entries [post]
func (h *LedgerHandler) PostEntry(c *gin.Context) {
	personType, ok := parsePersonType(c.Param("person_type"))
	if !ok {
		response.BadRequest(c, "Unknown person type")
		return
	}
	personID, err := uuid.Parse(c.Param("person_id"))
	if err != nil {
		response.BadRequest(c, "Invalid person ID")
		return
	}

	var req request.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	direction := enum.LedgerCredit
	if req.Direction == "Debit" {
		direction = enum.LedgerDebit
	}

	entry, err := h.ledgerService.PostEntry(c.Request.Context(), &service.PostEntryInput{
		PersonType:    personType,
		PersonID:      personID,
		Direction:     direction,
		Amount:        toCents(req.Amount),
		Reason:        req.Reason,
		OriginPieceID: req.OriginPieceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Entry posted", gin.H{"entry": entry})
}

// Balance returns a person's current balance
func (h *LedgerHandler) Balance(c *gin.Context) {
	personType, ok := parsePersonType(c.Param("person_type"))
	if !ok {
		response.BadRequest(c, "Unknown person type")
		return
	}
	personID, err := uuid.Parse(c.Param("person_id"))
	if err != nil {
		response.BadRequest(c, "Invalid person ID")
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), personType, personID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance retrieved", gin.H{"balance": float64(balance) / 100})
}

// Statement returns a person's full statement with running balances
// @Summary Person statement
// @Description Chronological entries with running balance
// @Tags ledger
// @Produce json
// @Param person_type path string true "supplier or customer"
// @Param person_id path string true "Person ID"
// @Success 200 {object} response.APIResponse
// @Router /ledger/{person_type}/{person_id}/statement [get]
func (h *LedgerHandler) Statement(c *gin.Context) {
	personType, ok := parsePersonType(c.Param("person_type"))
	if !ok {
		response.BadRequest(c, "Unknown person type")
		return
	}
	personID, err := uuid.Parse(c.Param("person_id"))
	if err != nil {
		response.BadRequest(c, "Invalid person ID")
		return
	}

	statement, err := h.ledgerService.GetStatement(c.Request.Context(), personType, personID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Statement retrieved", gin.H{"statement": statement})
}

// Payables returns everyone of the given type with a positive balance
func (h *LedgerHandler) Payables(c *gin.Context) {
	personType, ok := parsePersonType(c.Param("person_type"))
	if !ok {
		response.BadRequest(c, "Unknown person type")
		return
	}

	payables, err := h.ledgerService.ListPayables(c.Request.Context(), personType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payables retrieved", gin.H{"payables": payables})
}

// SettlePayout pays out part or all of a person's positive balance
// @Summary Settle payout
// @Description Debit a person's account for a cash payout
// @Tags ledger
// @Accept json
// @Produce json
// @Param person_type path string true "supplier or customer"
// @Param person_id path string true "Person ID"
// @Param request body request.SettlePayoutRequest true "Payout data"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /ledger/{person_type}/{person_id}/payout [post]
func (h *LedgerHandler) SettlePayout(c *gin.Context) {
	personType, ok := parsePersonType(c.Param("person_type"))
	if !ok {
		response.BadRequest(c, "Unknown person type")
		return
	}
	personID, err := uuid.Parse(c.Param("person_id"))
	if err != nil {
		response.BadRequest(c, "Invalid person ID")
		return
	}

	var req request.SettlePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.ledgerService.SettlePayout(c.Request.Context(), personType, personID, toCents(req.Amount), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payout settled", gin.H{"entry": entry})
}
