package app

import (
	"context"

	"orderdesk/internal/domain/model"
	"orderdesk/internal/usecase"
)

// DeskFacade aggregates the use cases behind the single surface the HTTP
// layer talks to.
type DeskFacade struct {
	auth          *usecase.AuthUseCase
	orders        *usecase.OrderUseCase
	confirmations *usecase.ConfirmationUseCase
	ledger        *usecase.LedgerUseCase
}

// NewDeskFacade constructs DeskFacade.
func NewDeskFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	confirmations *usecase.ConfirmationUseCase,
	ledger *usecase.LedgerUseCase,
) *DeskFacade {
	return &DeskFacade{auth: auth, orders: orders, confirmations: confirmations, ledger: ledger}
}

func (f *DeskFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *DeskFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *DeskFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *DeskFacade) CreateOrder(ctx context.Context, userID int64, title, description string, factoryID int64, orderFile, comments string) (*model.Order, error) {
	return f.orders.Create(ctx, userID, title, description, factoryID, orderFile, comments)
}

func (f *DeskFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByEmployee(ctx, userID)
}

func (f *DeskFacade) Order(ctx context.Context, userID, orderID int64) (*model.Order, error) {
	return f.orders.Get(ctx, userID, orderID)
}

func (f *DeskFacade) OrderAudit(ctx context.Context, userID, orderID int64) ([]model.AuditEntry, error) {
	return f.orders.AuditTrail(ctx, userID, orderID)
}

func (f *DeskFacade) Factories(ctx context.Context) ([]model.Factory, error) {
	return f.orders.Factories(ctx)
}

func (f *DeskFacade) RequestAction(ctx context.Context, userID, orderID int64, action model.Action) (*model.Confirmation, bool, error) {
	return f.confirmations.Request(ctx, orderID, action, userID)
}

func (f *DeskFacade) Confirmations(ctx context.Context, userID int64, status model.ConfirmationStatus) ([]model.Confirmation, error) {
	return f.confirmations.ListByEmployee(ctx, userID, status)
}

func (f *DeskFacade) Confirmation(ctx context.Context, userID int64, token string) (*model.Confirmation, error) {
	return f.confirmations.Get(ctx, token, userID)
}

func (f *DeskFacade) Approve(ctx context.Context, token string, userID int64, comment string, invoice *usecase.InvoicePayload) error {
	return f.confirmations.Confirm(ctx, token, userID, comment, invoice)
}

func (f *DeskFacade) Reject(ctx context.Context, token string, userID int64, reason string) error {
	return f.confirmations.Reject(ctx, token, userID, reason)
}

func (f *DeskFacade) Invoice(ctx context.Context, userID, invoiceID int64) (*usecase.InvoiceView, error) {
	return f.ledger.Invoice(ctx, userID, invoiceID)
}

func (f *DeskFacade) InvoiceForOrder(ctx context.Context, userID, orderID int64) (*usecase.InvoiceView, error) {
	return f.ledger.InvoiceForOrder(ctx, userID, orderID)
}

func (f *DeskFacade) Payments(ctx context.Context, userID, invoiceID int64) ([]model.Payment, error) {
	return f.ledger.Payments(ctx, userID, invoiceID)
}

func (f *DeskFacade) RecordPayment(ctx context.Context, userID int64, p *model.Payment) (*model.Payment, error) {
	return f.ledger.RecordPayment(ctx, userID, p)
}

func (f *DeskFacade) UpdatePayment(ctx context.Context, userID int64, p *model.Payment) error {
	return f.ledger.UpdatePayment(ctx, userID, p)
}

func (f *DeskFacade) DeletePayment(ctx context.Context, userID, paymentID int64) error {
	return f.ledger.DeletePayment(ctx, userID, paymentID)
}
