package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orderdesk/internal/domain/model"
	"orderdesk/internal/server/http/dto"
	"orderdesk/internal/usecase"
)

// ConfirmationHandler manages the ticket approval endpoints.
type ConfirmationHandler struct {
	facade ConfirmationFacade
}

// NewConfirmationHandler constructs ConfirmationHandler.
func NewConfirmationHandler(facade ConfirmationFacade) *ConfirmationHandler {
	return &ConfirmationHandler{facade: facade}
}

// List handles GET /api/confirmations. An optional ?status= query narrows
// the result.
func (h *ConfirmationHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	status := model.ConfirmationStatus(c.Query("status"))

	tickets, err := h.facade.Confirmations(c.Request.Context(), userID, status)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(tickets) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.ConfirmationResponse, 0, len(tickets))
	for i := range tickets {
		response = append(response, toConfirmationResponse(&tickets[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/confirmations/:token.
func (h *ConfirmationHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)

	ticket, err := h.facade.Confirmation(c.Request.Context(), userID, c.Param("token"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toConfirmationResponse(ticket))
}

// Approve handles POST /api/confirmations/:token/approve.
func (h *ConfirmationHandler) Approve(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var invoice *usecase.InvoicePayload
	if req.Invoice != nil {
		invoice = &usecase.InvoicePayload{
			Number:   req.Invoice.Number,
			Balance:  req.Invoice.Balance,
			DueDate:  req.Invoice.DueDate,
			FileName: req.Invoice.FileName,
			Notes:    req.Invoice.Notes,
		}
	}

	if err := h.facade.Approve(c.Request.Context(), c.Param("token"), userID, req.Comment, invoice); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Reject handles POST /api/confirmations/:token/reject.
func (h *ConfirmationHandler) Reject(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.Reject(c.Request.Context(), c.Param("token"), userID, req.Reason); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func toConfirmationResponse(t *model.Confirmation) dto.ConfirmationResponse {
	return dto.ConfirmationResponse{
		Token:           t.Token,
		OrderID:         t.OrderID,
		Action:          string(t.Action),
		Status:          string(t.Status),
		Snapshot:        t.Snapshot,
		RequestedAt:     t.RequestedAt,
		ExpiresAt:       t.ExpiresAt,
		ResolvedAt:      t.ResolvedAt,
		Comment:         t.Comment,
		RejectionReason: t.RejectionReason,
	}
}
