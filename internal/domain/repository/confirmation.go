package repository

import (
	"context"

	"orderdesk/internal/domain/model"
)

// OrderTransition describes the order status change applied when a
// confirmation is executed. The starting status is revalidated under the
// order row lock; state may have drifted since the ticket was created.
type OrderTransition struct {
	AllowedFrom []model.OrderStatus
	To          model.OrderStatus
}

// ResolveRequest carries everything the executor transaction needs. The
// conditional claim of the ticket row, the order transition, the invoice
// insert, the audit append, and the side effect either all commit or none do.
type ResolveRequest struct {
	ConfirmationID  int64
	ResolvedBy      int64
	Target          model.ConfirmationStatus
	Comment         string
	RejectionReason string

	// Transition is nil when resolution does not touch the order (reject).
	Transition *OrderTransition
	// DeleteOrder removes the order row instead of transitioning it. The
	// cascade takes tickets, invoice, payments, and audit trail with it.
	DeleteOrder bool
	// NewInvoice is inserted in the same transaction (upload_invoice).
	NewInvoice *model.Invoice
	// Audit is appended in the same transaction; nil only for delete_order.
	Audit *model.AuditEntry

	// SideEffect runs inside the transaction after the ticket row has been
	// claimed and the order row locked, before anything is committed. An
	// error rolls the whole resolution back, leaving the ticket pending.
	// Email dispatch for send_order lives here.
	SideEffect func(ctx context.Context, order *model.Order) error
}

// ConfirmationRepository describes persistence of confirmation tickets and
// the atomic execution of confirmed operations.
type ConfirmationRepository interface {
	// Create inserts a pending confirmation unless an unresolved, unexpired
	// one already exists for the same (order, action) pair, in which case the
	// existing ticket is returned with created=false.
	Create(ctx context.Context, c *model.Confirmation) (*model.Confirmation, bool, error)
	GetByToken(ctx context.Context, token string) (*model.Confirmation, error)
	ListByEmployee(ctx context.Context, employeeID int64, status model.ConfirmationStatus) ([]model.Confirmation, error)
	// MarkExpired persists a lazily observed expiry. Conditional on the
	// stored status still being pending.
	MarkExpired(ctx context.Context, id int64) error
	// Resolve performs the executor transaction. Exactly one concurrent
	// caller wins the conditional claim; losers get ErrAlreadyResolved, and
	// claims past the validity window get ErrExpired.
	Resolve(ctx context.Context, req ResolveRequest) error
}
