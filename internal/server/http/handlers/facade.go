package handlers

import (
	"context"

	"orderdesk/internal/domain/model"
	"orderdesk/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, userID int64, title, description string, factoryID int64, orderFile, comments string) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	Order(ctx context.Context, userID, orderID int64) (*model.Order, error)
	OrderAudit(ctx context.Context, userID, orderID int64) ([]model.AuditEntry, error)
	Factories(ctx context.Context) ([]model.Factory, error)
	RequestAction(ctx context.Context, userID, orderID int64, action model.Action) (*model.Confirmation, bool, error)
}

// ConfirmationFacade exposes the ticket approval workflow.
type ConfirmationFacade interface {
	Confirmations(ctx context.Context, userID int64, status model.ConfirmationStatus) ([]model.Confirmation, error)
	Confirmation(ctx context.Context, userID int64, token string) (*model.Confirmation, error)
	Approve(ctx context.Context, token string, userID int64, comment string, invoice *usecase.InvoicePayload) error
	Reject(ctx context.Context, token string, userID int64, reason string) error
}

// LedgerFacade provides invoice and payment operations.
type LedgerFacade interface {
	Invoice(ctx context.Context, userID, invoiceID int64) (*usecase.InvoiceView, error)
	InvoiceForOrder(ctx context.Context, userID, orderID int64) (*usecase.InvoiceView, error)
	Payments(ctx context.Context, userID, invoiceID int64) ([]model.Payment, error)
	RecordPayment(ctx context.Context, userID int64, p *model.Payment) (*model.Payment, error)
	UpdatePayment(ctx context.Context, userID int64, p *model.Payment) error
	DeletePayment(ctx context.Context, userID, paymentID int64) error
}

// DeskFacade aggregates the full set of operations used across handlers.
type DeskFacade interface {
	AuthFacade
	OrderFacade
	ConfirmationFacade
	LedgerFacade
}
