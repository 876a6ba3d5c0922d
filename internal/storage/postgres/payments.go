package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
)

const paymentColumns = `id, invoice_id, amount, payment_date, kind, receipt, notes, created_by, created_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.PaymentDate, &p.Kind, &p.Receipt,
		&p.Notes, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *model.Payment, audit *model.AuditEntry) (*model.Payment, error) {
	created := *p
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insert = `INSERT INTO payments (invoice_id, amount, payment_date, kind, receipt, notes, created_by)
                        VALUES ($1, $2, $3, $4, $5, $6, $7)
                        RETURNING id, created_at`
		err := tx.QueryRow(ctx, insert, p.InvoiceID, p.Amount, p.PaymentDate, p.Kind, p.Receipt, p.Notes, p.CreatedBy).
			Scan(&created.ID, &created.CreatedAt)
		if err != nil {
			return err
		}
		if _, err = recomputeInvoiceTx(ctx, tx, p.InvoiceID, r.storage.now()); err != nil {
			return err
		}
		if audit != nil {
			return appendAuditTx(ctx, tx, audit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *model.Payment, audit *model.AuditEntry) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const update = `UPDATE payments SET amount=$2, payment_date=$3, kind=$4, receipt=$5, notes=$6
                        WHERE id=$1 RETURNING invoice_id`
		var invoiceID int64
		err := tx.QueryRow(ctx, update, p.ID, p.Amount, p.PaymentDate, p.Kind, p.Receipt, p.Notes).Scan(&invoiceID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if _, err = recomputeInvoiceTx(ctx, tx, invoiceID, r.storage.now()); err != nil {
			return err
		}
		if audit != nil {
			return appendAuditTx(ctx, tx, audit)
		}
		return nil
	})
}

func (r *paymentRepository) Delete(ctx context.Context, id int64, audit *model.AuditEntry) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const del = `DELETE FROM payments WHERE id=$1 RETURNING invoice_id`
		var invoiceID int64
		err := tx.QueryRow(ctx, del, id).Scan(&invoiceID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if _, err = recomputeInvoiceTx(ctx, tx, invoiceID, r.storage.now()); err != nil {
			return err
		}
		if audit != nil {
			return appendAuditTx(ctx, tx, audit)
		}
		return nil
	})
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	return scanPayment(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id=$1
                   ORDER BY payment_date DESC, created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
