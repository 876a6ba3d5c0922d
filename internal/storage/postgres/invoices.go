package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
)

const invoiceColumns = `id, order_id, invoice_number, balance, total_paid, due_date, status,
                        invoice_file, notes, created_at`

func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	var i model.Invoice
	err := row.Scan(&i.ID, &i.OrderID, &i.InvoiceNumber, &i.Balance, &i.TotalPaid, &i.DueDate,
		&i.Status, &i.InvoiceFile, &i.Notes, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id=$1`
	return scanInvoice(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *invoiceRepository) GetByOrder(ctx context.Context, orderID int64) (*model.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + ` FROM invoices WHERE order_id=$1`
	return scanInvoice(r.storage.pool.QueryRow(ctx, query, orderID))
}

func (r *invoiceRepository) Recompute(ctx context.Context, invoiceID int64) (*model.Invoice, error) {
	var invoice *model.Invoice
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		invoice, err = recomputeInvoiceTx(ctx, tx, invoiceID, r.storage.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// recomputeInvoiceTx is the single source of truth for invoice aggregates.
// The FOR UPDATE lock serializes concurrent recomputation against the same
// invoice; a second writer blocks here until the first one's sum is committed.
func recomputeInvoiceTx(ctx context.Context, tx pgx.Tx, invoiceID int64, now time.Time) (*model.Invoice, error) {
	const lock = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id=$1 FOR UPDATE`
	invoice, err := scanInvoice(tx.QueryRow(ctx, lock, invoiceID))
	if err != nil {
		return nil, err
	}

	const sum = `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id=$1`
	var totalPaid decimal.Decimal
	if err := tx.QueryRow(ctx, sum, invoiceID).Scan(&totalPaid); err != nil {
		return nil, err
	}

	const lastPayment = `SELECT kind FROM payments WHERE invoice_id=$1
                         ORDER BY payment_date DESC, created_at DESC, id DESC LIMIT 1`
	var lastKind model.PaymentKind
	if err := tx.QueryRow(ctx, lastPayment, invoiceID).Scan(&lastKind); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	status := model.DeriveInvoiceStatus(totalPaid, invoice.Balance, lastKind, invoice.DueDate, now)

	const update = `UPDATE invoices SET total_paid=$2, status=$3 WHERE id=$1`
	if _, err := tx.Exec(ctx, update, invoiceID, totalPaid, status); err != nil {
		return nil, err
	}

	invoice.TotalPaid = totalPaid
	invoice.Status = status
	return invoice, nil
}
