package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orderdesk/internal/domain/model"
	"orderdesk/internal/server/http/dto"
)

// PaymentHandler manages the invoice ledger endpoints.
type PaymentHandler struct {
	facade LedgerFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade LedgerFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Invoice handles GET /api/invoices/:id.
func (h *PaymentHandler) Invoice(c *gin.Context) {
	userID := CurrentUserID(c)
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.facade.Invoice(c.Request.Context(), userID, invoiceID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	payments, err := h.facade.Payments(c.Request.Context(), userID, invoiceID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	detail := dto.InvoiceDetailResponse{
		InvoiceResponse: toInvoiceResponse(view),
		Payments:        make([]dto.PaymentResponse, 0, len(payments)),
	}
	for _, p := range payments {
		detail.Payments = append(detail.Payments, toPaymentResponse(p))
	}
	c.JSON(http.StatusOK, detail)
}

// Record handles POST /api/invoices/:id/payments.
func (h *PaymentHandler) Record(c *gin.Context) {
	userID := CurrentUserID(c)
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, ok := bindPayment(c)
	if !ok {
		return
	}

	payment := paymentFromRequest(req)
	payment.InvoiceID = invoiceID

	created, err := h.facade.RecordPayment(c.Request.Context(), userID, payment)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentResponse(*created))
}

// Update handles PUT /api/payments/:id.
func (h *PaymentHandler) Update(c *gin.Context) {
	userID := CurrentUserID(c)
	paymentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, ok := bindPayment(c)
	if !ok {
		return
	}

	payment := paymentFromRequest(req)
	payment.ID = paymentID

	if err := h.facade.UpdatePayment(c.Request.Context(), userID, payment); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Delete handles DELETE /api/payments/:id.
func (h *PaymentHandler) Delete(c *gin.Context) {
	userID := CurrentUserID(c)
	paymentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.facade.DeletePayment(c.Request.Context(), userID, paymentID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func bindPayment(c *gin.Context) (dto.PaymentRequest, bool) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func toPaymentResponse(p model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Kind:        string(p.Kind),
		Receipt:     p.Receipt,
		Notes:       p.Notes,
		CreatedBy:   p.CreatedBy,
	}
}

func paymentFromRequest(req dto.PaymentRequest) *model.Payment {
	payment := &model.Payment{
		Amount:  req.Amount,
		Kind:    model.PaymentKind(req.Kind),
		Receipt: req.Receipt,
		Notes:   req.Notes,
	}
	if req.PaymentDate != nil {
		payment.PaymentDate = *req.PaymentDate
	}
	return payment
}
