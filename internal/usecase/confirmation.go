package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orderdesk/internal/adapter/mailgate"
	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
	"orderdesk/internal/domain/repository"
)

// EventSink receives fire-and-forget notification events after successful
// state transitions.
type EventSink interface {
	Enqueue(event model.Event)
}

// InvoicePayload carries the invoice data required to confirm an
// upload_invoice ticket.
type InvoicePayload struct {
	Number   string
	Balance  decimal.Decimal
	DueDate  *time.Time
	FileName string
	Notes    string
}

// ConfirmationUseCase implements the two-phase workflow for irreversible
// operations: ticket creation, approval with per-action execution, and
// rejection.
type ConfirmationUseCase struct {
	confirmations repository.ConfirmationRepository
	orders        repository.OrderRepository
	factories     repository.FactoryRepository
	users         repository.UserRepository
	mailer        mailgate.Client
	events        EventSink
	logger        *slog.Logger

	now func() time.Time
}

// NewConfirmationUseCase constructs ConfirmationUseCase.
func NewConfirmationUseCase(
	confirmations repository.ConfirmationRepository,
	orders repository.OrderRepository,
	factories repository.FactoryRepository,
	users repository.UserRepository,
	mailer mailgate.Client,
	events EventSink,
	logger *slog.Logger,
) *ConfirmationUseCase {
	return &ConfirmationUseCase{
		confirmations: confirmations,
		orders:        orders,
		factories:     factories,
		users:         users,
		mailer:        mailer,
		events:        events,
		logger:        logger,
		now:           time.Now,
	}
}

// requestPreconditions maps each action to the order statuses a ticket may
// be requested from. Drift between request and approval is re-checked under
// the order row lock at execution time.
var requestPreconditions = map[model.Action][]model.OrderStatus{
	model.ActionSendOrder:     {model.OrderStatusUploaded},
	model.ActionUploadInvoice: {model.OrderStatusSent},
	model.ActionCompleteOrder: {model.OrderStatusInvoiceReceived},
	model.ActionCancelOrder:   {model.OrderStatusUploaded, model.OrderStatusSent, model.OrderStatusInvoiceReceived},
	model.ActionDeleteOrder:   {model.OrderStatusUploaded, model.OrderStatusSent, model.OrderStatusInvoiceReceived, model.OrderStatusCompleted, model.OrderStatusCancelled},
}

// Request creates a pending confirmation for an irreversible action. If an
// unresolved, unexpired ticket already exists for the same (order, action)
// pair the existing ticket is returned with created=false.
func (u *ConfirmationUseCase) Request(ctx context.Context, orderID int64, action model.Action, requesterID int64) (*model.Confirmation, bool, error) {
	if !model.ValidAction(action) {
		return nil, false, domainErrors.ErrInvalidAction
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	if order.EmployeeID != requesterID {
		return nil, false, domainErrors.ErrNotAuthorized
	}

	if !containsStatus(requestPreconditions[action], order.Status) {
		return nil, false, domainErrors.ErrInvalidStateTransition
	}

	snapshot, err := u.buildSnapshot(ctx, action, order)
	if err != nil {
		return nil, false, err
	}

	ticket := &model.Confirmation{
		Token:       uuid.NewString(),
		OrderID:     order.ID,
		Action:      action,
		Snapshot:    snapshot,
		RequestedBy: requesterID,
		ExpiresAt:   u.now().Add(model.ExpiryPolicy(action)),
	}
	return u.confirmations.Create(ctx, ticket)
}

// Confirm approves the ticket and executes its action. The executor
// transaction guarantees that of N concurrent Confirm/Reject calls exactly
// one wins; the rest observe ErrAlreadyResolved.
func (u *ConfirmationUseCase) Confirm(ctx context.Context, token string, resolverID int64, comment string, invoice *InvoicePayload) error {
	ticket, order, err := u.loadForResolve(ctx, token, resolverID)
	if err != nil {
		return err
	}

	req := repository.ResolveRequest{
		ConfirmationID: ticket.ID,
		ResolvedBy:     resolverID,
		Target:         model.ConfirmationConfirmed,
		Comment:        comment,
	}
	var eventKind model.EventKind

	switch ticket.Action {
	case model.ActionSendOrder:
		snap, ok := ticket.Snapshot.(*model.SendOrderSnapshot)
		if !ok {
			return fmt.Errorf("send_order ticket %d has snapshot kind %q", ticket.ID, ticket.Snapshot.Kind())
		}
		employee, err := u.users.GetByID(ctx, order.EmployeeID)
		if err != nil {
			return err
		}
		req.Transition = &repository.OrderTransition{
			AllowedFrom: []model.OrderStatus{model.OrderStatusUploaded},
			To:          model.OrderStatusSent,
		}
		req.Audit = &model.AuditEntry{
			OrderID:   order.ID,
			UserID:    resolverID,
			Action:    model.AuditActionSent,
			OldValue:  string(model.OrderStatusUploaded),
			NewValue:  string(model.OrderStatusSent),
			FieldName: "status",
			Comment:   "Order sent to factory " + snap.FactoryName,
		}
		// The dispatch target comes from the snapshot, not the live order:
		// the approver confirms exactly what was shown at request time.
		req.SideEffect = func(ctx context.Context, current *model.Order) error {
			subject, htmlBody, textBody := mailgate.ComposeOrderEmail(snap.CountryCode, snap.OrderTitle, employee.Login)
			msg := mailgate.Message{
				To:             snap.FactoryEmail,
				Subject:        subject,
				HTMLBody:       htmlBody,
				TextBody:       textBody,
				AttachmentName: current.OrderFile,
			}
			if err := u.mailer.Send(ctx, msg); err != nil {
				return fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
			}
			return nil
		}
		eventKind = model.EventOrderSent

	case model.ActionUploadInvoice:
		if invoice == nil {
			return domainErrors.ErrInvoiceRequired
		}
		if strings.TrimSpace(invoice.Number) == "" || invoice.FileName == "" {
			return domainErrors.ErrInvoiceRequired
		}
		if invoice.Balance.LessThanOrEqual(decimal.Zero) {
			return domainErrors.ErrInvalidAmount
		}
		req.Transition = &repository.OrderTransition{
			AllowedFrom: []model.OrderStatus{model.OrderStatusSent},
			To:          model.OrderStatusInvoiceReceived,
		}
		req.NewInvoice = &model.Invoice{
			OrderID:       order.ID,
			InvoiceNumber: strings.TrimSpace(invoice.Number),
			Balance:       invoice.Balance,
			DueDate:       invoice.DueDate,
			InvoiceFile:   invoice.FileName,
			Notes:         invoice.Notes,
		}
		req.Audit = &model.AuditEntry{
			OrderID:   order.ID,
			UserID:    resolverID,
			Action:    model.AuditActionFileUploaded,
			OldValue:  string(model.OrderStatusSent),
			NewValue:  string(model.OrderStatusInvoiceReceived),
			FieldName: "status",
			Comment:   fmt.Sprintf("Invoice %s attached", invoice.FileName),
		}
		eventKind = model.EventInvoiceReceived

	case model.ActionCompleteOrder:
		req.Transition = &repository.OrderTransition{
			AllowedFrom: []model.OrderStatus{model.OrderStatusInvoiceReceived},
			To:          model.OrderStatusCompleted,
		}
		req.Audit = &model.AuditEntry{
			OrderID:   order.ID,
			UserID:    resolverID,
			Action:    model.AuditActionCompleted,
			OldValue:  string(model.OrderStatusInvoiceReceived),
			NewValue:  string(model.OrderStatusCompleted),
			FieldName: "status",
			Comment:   "Order completed",
		}
		eventKind = model.EventOrderCompleted

	case model.ActionCancelOrder:
		req.Transition = &repository.OrderTransition{
			AllowedFrom: []model.OrderStatus{model.OrderStatusUploaded, model.OrderStatusSent, model.OrderStatusInvoiceReceived},
			To:          model.OrderStatusCancelled,
		}
		req.Audit = &model.AuditEntry{
			OrderID:   order.ID,
			UserID:    resolverID,
			Action:    model.AuditActionCancelled,
			OldValue:  string(order.Status),
			NewValue:  string(model.OrderStatusCancelled),
			FieldName: "status",
			Comment:   comment,
		}
		eventKind = model.EventOrderCancelled

	case model.ActionDeleteOrder:
		// The audit trail is owned by the order and goes with it.
		req.DeleteOrder = true
		eventKind = model.EventOrderDeleted

	default:
		return domainErrors.ErrInvalidAction
	}

	if err := u.confirmations.Resolve(ctx, req); err != nil {
		return err
	}

	u.events.Enqueue(model.Event{
		Kind:       eventKind,
		OrderID:    order.ID,
		OrderTitle: order.Title,
		UserID:     resolverID,
		OccurredAt: u.now(),
	})
	return nil
}

// Reject resolves the ticket without executing anything. A non-empty reason
// is required.
func (u *ConfirmationUseCase) Reject(ctx context.Context, token string, resolverID int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domainErrors.ErrReasonRequired
	}

	ticket, order, err := u.loadForResolve(ctx, token, resolverID)
	if err != nil {
		return err
	}

	return u.confirmations.Resolve(ctx, repository.ResolveRequest{
		ConfirmationID:  ticket.ID,
		ResolvedBy:      resolverID,
		Target:          model.ConfirmationRejected,
		RejectionReason: reason,
		Audit: &model.AuditEntry{
			OrderID:   order.ID,
			UserID:    resolverID,
			Action:    model.AuditActionUpdated,
			OldValue:  string(model.ConfirmationPending),
			NewValue:  string(model.ConfirmationRejected),
			FieldName: "confirmation",
			Comment:   reason,
		},
	})
}

// Get returns a ticket by token after checking ownership, applying lazy expiry.
func (u *ConfirmationUseCase) Get(ctx context.Context, token string, employeeID int64) (*model.Confirmation, error) {
	ticket, err := u.confirmations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	order, err := u.orders.GetByID(ctx, ticket.OrderID)
	if err != nil {
		return nil, err
	}
	if order.EmployeeID != employeeID {
		return nil, domainErrors.ErrNotFound
	}
	u.applyLazyExpiry(ctx, ticket)
	return ticket, nil
}

// ListByEmployee returns the employee's tickets, newest first, applying lazy
// expiry to any pending ticket whose window has passed.
func (u *ConfirmationUseCase) ListByEmployee(ctx context.Context, employeeID int64, status model.ConfirmationStatus) ([]model.Confirmation, error) {
	tickets, err := u.confirmations.ListByEmployee(ctx, employeeID, status)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		u.applyLazyExpiry(ctx, &tickets[i])
	}
	return tickets, nil
}

// loadForResolve runs the shared pre-flight checks of Confirm and Reject.
// These are advisory; the executor transaction re-checks everything that
// matters under locks.
func (u *ConfirmationUseCase) loadForResolve(ctx context.Context, token string, resolverID int64) (*model.Confirmation, *model.Order, error) {
	ticket, err := u.confirmations.GetByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	order, err := u.orders.GetByID(ctx, ticket.OrderID)
	if err != nil {
		return nil, nil, err
	}

	if !ticket.CanBeResolvedBy(order, resolverID) {
		return nil, nil, domainErrors.ErrNotAuthorized
	}
	if ticket.Status != model.ConfirmationPending {
		return nil, nil, domainErrors.ErrAlreadyResolved
	}
	if ticket.IsExpired(u.now()) {
		u.persistExpiry(ctx, ticket)
		return nil, nil, domainErrors.ErrExpired
	}

	return ticket, order, nil
}

// applyLazyExpiry persists an observed expiry and reflects it in the ticket.
func (u *ConfirmationUseCase) applyLazyExpiry(ctx context.Context, ticket *model.Confirmation) {
	if ticket.Status != model.ConfirmationPending || !ticket.IsExpired(u.now()) {
		return
	}
	u.persistExpiry(ctx, ticket)
	ticket.Status = model.ConfirmationExpired
}

func (u *ConfirmationUseCase) persistExpiry(ctx context.Context, ticket *model.Confirmation) {
	if err := u.confirmations.MarkExpired(ctx, ticket.ID); err != nil {
		u.logger.Warn("persisting ticket expiry failed",
			slog.Int64("confirmation_id", ticket.ID),
			slog.String("error", err.Error()))
	}
}

func (u *ConfirmationUseCase) buildSnapshot(ctx context.Context, action model.Action, order *model.Order) (model.Snapshot, error) {
	factory, err := u.factories.GetByID(ctx, order.FactoryID)
	if err != nil {
		return nil, err
	}

	switch action {
	case model.ActionSendOrder:
		return &model.SendOrderSnapshot{
			OrderTitle:   order.Title,
			FactoryName:  factory.Name,
			FactoryEmail: factory.Email,
			CountryCode:  factory.CountryCode,
		}, nil
	case model.ActionUploadInvoice:
		return &model.UploadInvoiceSnapshot{
			OrderTitle:    order.Title,
			FactoryName:   factory.Name,
			CurrentStatus: string(order.Status),
			SentAt:        order.SentAt,
		}, nil
	case model.ActionCompleteOrder:
		return &model.CompleteOrderSnapshot{
			OrderTitle:        order.Title,
			FactoryName:       factory.Name,
			UploadedAt:        order.UploadedAt,
			SentAt:            order.SentAt,
			InvoiceReceivedAt: order.InvoiceReceivedAt,
		}, nil
	case model.ActionCancelOrder:
		return &model.CancelOrderSnapshot{
			OrderTitle:    order.Title,
			CurrentStatus: string(order.Status),
		}, nil
	case model.ActionDeleteOrder:
		return &model.DeleteOrderSnapshot{
			OrderTitle:    order.Title,
			FactoryName:   factory.Name,
			CurrentStatus: string(order.Status),
		}, nil
	default:
		return nil, domainErrors.ErrInvalidAction
	}
}

func containsStatus(allowed []model.OrderStatus, status model.OrderStatus) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}
