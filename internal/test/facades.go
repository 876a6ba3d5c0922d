package test

import (
	"context"
	"sync"

	"orderdesk/internal/domain/model"
	"orderdesk/internal/usecase"
)

// DeskFacadeStub provides controllable behaviour for HTTP layer tests. Each
// method delegates to its override when set and falls back to benign
// defaults otherwise.
type DeskFacadeStub struct {
	AuthFacadeStub

	CreateOrderFn     func(context.Context, int64, string, string, int64, string, string) (*model.Order, error)
	OrdersFn          func(context.Context, int64) ([]model.Order, error)
	OrderFn           func(context.Context, int64, int64) (*model.Order, error)
	OrderAuditFn      func(context.Context, int64, int64) ([]model.AuditEntry, error)
	FactoriesFn       func(context.Context) ([]model.Factory, error)
	RequestActionFn   func(context.Context, int64, int64, model.Action) (*model.Confirmation, bool, error)
	ConfirmationsFn   func(context.Context, int64, model.ConfirmationStatus) ([]model.Confirmation, error)
	ConfirmationFn    func(context.Context, int64, string) (*model.Confirmation, error)
	ApproveFn         func(context.Context, string, int64, string, *usecase.InvoicePayload) error
	RejectFn          func(context.Context, string, int64, string) error
	InvoiceFn         func(context.Context, int64, int64) (*usecase.InvoiceView, error)
	InvoiceForOrderFn func(context.Context, int64, int64) (*usecase.InvoiceView, error)
	PaymentsFn        func(context.Context, int64, int64) ([]model.Payment, error)
	RecordPaymentFn   func(context.Context, int64, *model.Payment) (*model.Payment, error)
	UpdatePaymentFn   func(context.Context, int64, *model.Payment) error
	DeletePaymentFn   func(context.Context, int64, int64) error
}

func (s *DeskFacadeStub) CreateOrder(ctx context.Context, userID int64, title, description string, factoryID int64, orderFile, comments string) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, userID, title, description, factoryID, orderFile, comments)
	}
	return &model.Order{ID: 1, Title: title, FactoryID: factoryID, EmployeeID: userID, Status: model.OrderStatusUploaded}, nil
}

func (s *DeskFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return nil, nil
}

func (s *DeskFacadeStub) Order(ctx context.Context, userID, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, userID, orderID)
	}
	return &model.Order{ID: orderID, EmployeeID: userID, Status: model.OrderStatusUploaded}, nil
}

func (s *DeskFacadeStub) OrderAudit(ctx context.Context, userID, orderID int64) ([]model.AuditEntry, error) {
	if s.OrderAuditFn != nil {
		return s.OrderAuditFn(ctx, userID, orderID)
	}
	return nil, nil
}

func (s *DeskFacadeStub) Factories(ctx context.Context) ([]model.Factory, error) {
	if s.FactoriesFn != nil {
		return s.FactoriesFn(ctx)
	}
	return nil, nil
}

func (s *DeskFacadeStub) RequestAction(ctx context.Context, userID, orderID int64, action model.Action) (*model.Confirmation, bool, error) {
	if s.RequestActionFn != nil {
		return s.RequestActionFn(ctx, userID, orderID, action)
	}
	return &model.Confirmation{Token: "tok", OrderID: orderID, Action: action}, true, nil
}

func (s *DeskFacadeStub) Confirmations(ctx context.Context, userID int64, status model.ConfirmationStatus) ([]model.Confirmation, error) {
	if s.ConfirmationsFn != nil {
		return s.ConfirmationsFn(ctx, userID, status)
	}
	return nil, nil
}

func (s *DeskFacadeStub) Confirmation(ctx context.Context, userID int64, token string) (*model.Confirmation, error) {
	if s.ConfirmationFn != nil {
		return s.ConfirmationFn(ctx, userID, token)
	}
	return &model.Confirmation{Token: token, Status: model.ConfirmationPending}, nil
}

func (s *DeskFacadeStub) Approve(ctx context.Context, token string, userID int64, comment string, invoice *usecase.InvoicePayload) error {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, token, userID, comment, invoice)
	}
	return nil
}

func (s *DeskFacadeStub) Reject(ctx context.Context, token string, userID int64, reason string) error {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, token, userID, reason)
	}
	return nil
}

func (s *DeskFacadeStub) Invoice(ctx context.Context, userID, invoiceID int64) (*usecase.InvoiceView, error) {
	if s.InvoiceFn != nil {
		return s.InvoiceFn(ctx, userID, invoiceID)
	}
	return &usecase.InvoiceView{Invoice: &model.Invoice{ID: invoiceID}}, nil
}

func (s *DeskFacadeStub) InvoiceForOrder(ctx context.Context, userID, orderID int64) (*usecase.InvoiceView, error) {
	if s.InvoiceForOrderFn != nil {
		return s.InvoiceForOrderFn(ctx, userID, orderID)
	}
	return &usecase.InvoiceView{Invoice: &model.Invoice{OrderID: orderID}}, nil
}

func (s *DeskFacadeStub) Payments(ctx context.Context, userID, invoiceID int64) ([]model.Payment, error) {
	if s.PaymentsFn != nil {
		return s.PaymentsFn(ctx, userID, invoiceID)
	}
	return nil, nil
}

func (s *DeskFacadeStub) RecordPayment(ctx context.Context, userID int64, p *model.Payment) (*model.Payment, error) {
	if s.RecordPaymentFn != nil {
		return s.RecordPaymentFn(ctx, userID, p)
	}
	cp := *p
	cp.ID = 1
	return &cp, nil
}

func (s *DeskFacadeStub) UpdatePayment(ctx context.Context, userID int64, p *model.Payment) error {
	if s.UpdatePaymentFn != nil {
		return s.UpdatePaymentFn(ctx, userID, p)
	}
	return nil
}

func (s *DeskFacadeStub) DeletePayment(ctx context.Context, userID, paymentID int64) error {
	if s.DeletePaymentFn != nil {
		return s.DeletePaymentFn(ctx, userID, paymentID)
	}
	return nil
}

// EventSinkStub records enqueued notification events.
type EventSinkStub struct {
	mu     sync.Mutex
	Events []model.Event
}

// Enqueue stores the event for later assertions.
func (s *EventSinkStub) Enqueue(event model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
}

// Recorded returns a snapshot of the enqueued events.
func (s *EventSinkStub) Recorded() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, len(s.Events))
	copy(out, s.Events)
	return out
}
