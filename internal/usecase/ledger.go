package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
	"orderdesk/internal/domain/repository"
)

// InvoiceView pairs an invoice with its derived payment progress.
type InvoiceView struct {
	Invoice  *model.Invoice
	Progress decimal.Decimal
}

// LedgerUseCase manages payments against invoices. All aggregate state on an
// invoice is derived from its payment rows; this layer only validates input
// and checks ownership before delegating to the repositories.
type LedgerUseCase struct {
	invoices repository.InvoiceRepository
	payments repository.PaymentRepository
	orders   repository.OrderRepository
	events   EventSink
	logger   *slog.Logger

	now func() time.Time
}

// NewLedgerUseCase constructs LedgerUseCase.
func NewLedgerUseCase(
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	orders repository.OrderRepository,
	events EventSink,
	logger *slog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		invoices: invoices,
		payments: payments,
		orders:   orders,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// RecordPayment validates and persists a payment. The repository recomputes
// the invoice aggregates and appends the audit entry in the same transaction.
func (u *LedgerUseCase) RecordPayment(ctx context.Context, employeeID int64, p *model.Payment) (*model.Payment, error) {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domainErrors.ErrInvalidAmount
	}
	if !model.ValidPaymentKind(p.Kind) {
		return nil, domainErrors.ErrInvalidPaymentKind
	}

	invoice, order, err := u.ownedInvoice(ctx, p.InvoiceID, employeeID)
	if err != nil {
		return nil, err
	}

	if p.PaymentDate.IsZero() {
		p.PaymentDate = u.now()
	}
	p.CreatedBy = employeeID

	created, err := u.payments.Create(ctx, p, &model.AuditEntry{
		OrderID:   order.ID,
		UserID:    employeeID,
		Action:    model.AuditActionUpdated,
		FieldName: "payment",
		NewValue:  p.Amount.StringFixed(2),
		Comment:   fmt.Sprintf("Payment %s recorded against invoice %s", string(p.Kind), invoice.InvoiceNumber),
	})
	if err != nil {
		return nil, err
	}

	u.events.Enqueue(model.Event{
		Kind:       model.EventPaymentRecorded,
		OrderID:    order.ID,
		OrderTitle: order.Title,
		UserID:     employeeID,
		OccurredAt: u.now(),
	})
	return created, nil
}

// UpdatePayment rewrites an existing payment in place.
func (u *LedgerUseCase) UpdatePayment(ctx context.Context, employeeID int64, p *model.Payment) error {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return domainErrors.ErrInvalidAmount
	}
	if !model.ValidPaymentKind(p.Kind) {
		return domainErrors.ErrInvalidPaymentKind
	}

	existing, err := u.payments.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	invoice, order, err := u.ownedInvoice(ctx, existing.InvoiceID, employeeID)
	if err != nil {
		return err
	}
	p.InvoiceID = existing.InvoiceID
	// The UPDATE writes payment_date unconditionally; a request without one
	// keeps the stored date instead of zeroing it.
	if p.PaymentDate.IsZero() {
		p.PaymentDate = existing.PaymentDate
	}

	return u.payments.Update(ctx, p, &model.AuditEntry{
		OrderID:   order.ID,
		UserID:    employeeID,
		Action:    model.AuditActionUpdated,
		FieldName: "payment",
		OldValue:  existing.Amount.StringFixed(2),
		NewValue:  p.Amount.StringFixed(2),
		Comment:   fmt.Sprintf("Payment corrected on invoice %s", invoice.InvoiceNumber),
	})
}

// DeletePayment removes a payment and recomputes the invoice it was attached to.
func (u *LedgerUseCase) DeletePayment(ctx context.Context, employeeID int64, paymentID int64) error {
	existing, err := u.payments.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	invoice, order, err := u.ownedInvoice(ctx, existing.InvoiceID, employeeID)
	if err != nil {
		return err
	}

	return u.payments.Delete(ctx, paymentID, &model.AuditEntry{
		OrderID:   order.ID,
		UserID:    employeeID,
		Action:    model.AuditActionUpdated,
		FieldName: "payment",
		OldValue:  existing.Amount.StringFixed(2),
		Comment:   fmt.Sprintf("Payment removed from invoice %s", invoice.InvoiceNumber),
	})
}

// Invoice returns an invoice by identifier with payment progress.
func (u *LedgerUseCase) Invoice(ctx context.Context, employeeID, invoiceID int64) (*InvoiceView, error) {
	invoice, _, err := u.ownedInvoice(ctx, invoiceID, employeeID)
	if err != nil {
		return nil, err
	}
	return &InvoiceView{Invoice: invoice, Progress: model.PaymentProgress(invoice.TotalPaid, invoice.Balance)}, nil
}

// InvoiceForOrder returns the order's invoice with payment progress.
func (u *LedgerUseCase) InvoiceForOrder(ctx context.Context, employeeID, orderID int64) (*InvoiceView, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.EmployeeID != employeeID {
		return nil, domainErrors.ErrNotFound
	}
	invoice, err := u.invoices.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &InvoiceView{Invoice: invoice, Progress: model.PaymentProgress(invoice.TotalPaid, invoice.Balance)}, nil
}

// Payments lists the payment history of an invoice, newest first.
func (u *LedgerUseCase) Payments(ctx context.Context, employeeID, invoiceID int64) ([]model.Payment, error) {
	if _, _, err := u.ownedInvoice(ctx, invoiceID, employeeID); err != nil {
		return nil, err
	}
	return u.payments.ListByInvoice(ctx, invoiceID)
}

// ownedInvoice resolves an invoice and its order, rejecting access by anyone
// but the order's employee. Foreign invoices read as not found.
func (u *LedgerUseCase) ownedInvoice(ctx context.Context, invoiceID, employeeID int64) (*model.Invoice, *model.Order, error) {
	invoice, err := u.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	order, err := u.orders.GetByID(ctx, invoice.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if order.EmployeeID != employeeID {
		return nil, nil, domainErrors.ErrNotFound
	}
	return invoice, order, nil
}
