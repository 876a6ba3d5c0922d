package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
	"orderdesk/internal/server/http/dto"
	"orderdesk/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade DeskFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade DeskFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), userID, req.Title, req.Description, req.FactoryID, req.OrderFile, req.Comments)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.Orders(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), userID, orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	detail := dto.OrderDetailResponse{OrderResponse: toOrderResponse(*order)}
	view, err := h.facade.InvoiceForOrder(c.Request.Context(), userID, orderID)
	switch {
	case err == nil:
		resp := toInvoiceResponse(view)
		detail.Invoice = &resp
	case errors.Is(err, domainErrors.ErrNotFound):
		// No invoice yet.
	default:
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Audit handles GET /api/orders/:id/audit.
func (h *OrderHandler) Audit(c *gin.Context) {
	userID := CurrentUserID(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	entries, err := h.facade.OrderAudit(c.Request.Context(), userID, orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, dto.AuditEntryResponse{
			UserID:    e.UserID,
			Action:    string(e.Action),
			FieldName: e.FieldName,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			Comment:   e.Comment,
			Timestamp: e.Timestamp,
		})
	}
	c.JSON(http.StatusOK, response)
}

// RequestAction handles POST /api/orders/:id/actions. A duplicate pending
// ticket is not an error: the existing token is returned with 409 so the
// client can link to it.
func (h *OrderHandler) RequestAction(c *gin.Context) {
	userID := CurrentUserID(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	ticket, created, err := h.facade.RequestAction(c.Request.Context(), userID, orderID, model.Action(req.Action))
	if err != nil {
		abortWithError(c, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusConflict
	}
	c.JSON(status, dto.TicketCreatedResponse{
		Token:     ticket.Token,
		Action:    string(ticket.Action),
		ExpiresAt: ticket.ExpiresAt,
	})
}

// Factories handles GET /api/factories.
func (h *OrderHandler) Factories(c *gin.Context) {
	factories, err := h.facade.Factories(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.FactoryResponse, 0, len(factories))
	for _, f := range factories {
		response = append(response, dto.FactoryResponse{
			ID:            f.ID,
			Name:          f.Name,
			CountryCode:   f.CountryCode,
			Email:         f.Email,
			ContactPerson: f.ContactPerson,
			Active:        f.Active,
		})
	}
	c.JSON(http.StatusOK, response)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                order.ID,
		Title:             order.Title,
		Description:       order.Description,
		FactoryID:         order.FactoryID,
		Status:            string(order.Status),
		OrderFile:         order.OrderFile,
		Comments:          order.Comments,
		UploadedAt:        order.UploadedAt,
		SentAt:            order.SentAt,
		InvoiceReceivedAt: order.InvoiceReceivedAt,
		CompletedAt:       order.CompletedAt,
	}
}

func toInvoiceResponse(view *usecase.InvoiceView) dto.InvoiceResponse {
	inv := view.Invoice
	return dto.InvoiceResponse{
		ID:            inv.ID,
		OrderID:       inv.OrderID,
		InvoiceNumber: inv.InvoiceNumber,
		Balance:       inv.Balance,
		TotalPaid:     inv.TotalPaid,
		Remaining:     inv.Remaining(),
		Progress:      view.Progress,
		Status:        string(inv.Status),
		DueDate:       inv.DueDate,
		InvoiceFile:   inv.InvoiceFile,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
	}
}
