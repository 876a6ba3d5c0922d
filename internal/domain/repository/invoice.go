package repository

import (
	"context"

	"orderdesk/internal/domain/model"
)

// InvoiceRepository manages invoices and ledger recomputation.
type InvoiceRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Invoice, error)
	GetByOrder(ctx context.Context, orderID int64) (*model.Invoice, error)
	// Recompute is the single source of truth for invoice aggregates. It
	// locks the invoice row, sums the attached payments, derives the status,
	// and persists the result.
	Recompute(ctx context.Context, invoiceID int64) (*model.Invoice, error)
}

// PaymentRepository manages payment records. Every write triggers ledger
// recomputation on the parent invoice and appends the given audit entry
// within the same transaction.
type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment, audit *model.AuditEntry) (*model.Payment, error)
	Update(ctx context.Context, p *model.Payment, audit *model.AuditEntry) error
	Delete(ctx context.Context, id int64, audit *model.AuditEntry) error
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]model.Payment, error)
}
