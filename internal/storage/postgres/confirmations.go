package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
	"orderdesk/internal/domain/repository"
)

const confirmationColumns = `c.id, c.token, c.order_id, c.action, c.status, c.snapshot,
                             c.requested_by, c.resolved_by, c.comment, c.rejection_reason,
                             c.requested_at, c.resolved_at, c.expires_at`

func scanConfirmation(row pgx.Row) (*model.Confirmation, error) {
	var c model.Confirmation
	var snapshot []byte
	err := row.Scan(&c.ID, &c.Token, &c.OrderID, &c.Action, &c.Status, &snapshot,
		&c.RequestedBy, &c.ResolvedBy, &c.Comment, &c.RejectionReason,
		&c.RequestedAt, &c.ResolvedAt, &c.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if c.Snapshot, err = model.DecodeSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &c, nil
}

func (r *confirmationRepository) Create(ctx context.Context, c *model.Confirmation) (*model.Confirmation, bool, error) {
	snapshot, err := model.EncodeSnapshot(c.Snapshot)
	if err != nil {
		return nil, false, fmt.Errorf("encode snapshot: %w", err)
	}

	var result *model.Confirmation
	var created bool
	err = r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		// A stale pending ticket would block the partial unique index, so
		// lazily flip it first.
		const expireStale = `UPDATE confirmations SET status='expired'
                             WHERE order_id=$1 AND action=$2 AND status='pending' AND expires_at <= NOW()`
		if _, err := tx.Exec(ctx, expireStale, c.OrderID, c.Action); err != nil {
			return err
		}

		const insert = `INSERT INTO confirmations (token, order_id, action, status, snapshot, requested_by, expires_at)
                        VALUES ($1, $2, $3, 'pending', $4, $5, $6)
                        ON CONFLICT (order_id, action) WHERE status = 'pending' DO NOTHING
                        RETURNING id, requested_at`
		inserted := *c
		inserted.Status = model.ConfirmationPending
		err := tx.QueryRow(ctx, insert, c.Token, c.OrderID, c.Action, snapshot, c.RequestedBy, c.ExpiresAt).
			Scan(&inserted.ID, &inserted.RequestedAt)
		if err == nil {
			result = &inserted
			created = true
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		// Double-submission: hand back the existing pending ticket.
		const selectPending = `SELECT ` + confirmationColumns + ` FROM confirmations c
                               WHERE c.order_id=$1 AND c.action=$2 AND c.status='pending'`
		existing, err := scanConfirmation(tx.QueryRow(ctx, selectPending, c.OrderID, c.Action))
		if err != nil {
			return err
		}
		result = existing
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

func (r *confirmationRepository) GetByToken(ctx context.Context, token string) (*model.Confirmation, error) {
	const query = `SELECT ` + confirmationColumns + ` FROM confirmations c WHERE c.token=$1`
	return scanConfirmation(r.storage.pool.QueryRow(ctx, query, token))
}

func (r *confirmationRepository) ListByEmployee(ctx context.Context, employeeID int64, status model.ConfirmationStatus) ([]model.Confirmation, error) {
	query := `SELECT ` + confirmationColumns + ` FROM confirmations c
              JOIN orders o ON o.id = c.order_id
              WHERE o.employee_id=$1`
	args := []any{employeeID}
	if status != "" {
		query += ` AND c.status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY c.requested_at DESC`

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Confirmation
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *confirmationRepository) MarkExpired(ctx context.Context, id int64) error {
	const query = `UPDATE confirmations SET status='expired' WHERE id=$1 AND status='pending'`
	_, err := r.storage.pool.Exec(ctx, query, id)
	return err
}

// Resolve executes a confirmed or rejected ticket atomically. The conditional
// claim gives at-most-once semantics: of N concurrent resolvers exactly one
// sees a non-zero affected-row count, the rest fail with ErrAlreadyResolved
// once the winner's transaction commits.
func (r *confirmationRepository) Resolve(ctx context.Context, req repository.ResolveRequest) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const claim = `UPDATE confirmations
                       SET status=$2, resolved_by=$3, resolved_at=NOW(), comment=$4, rejection_reason=$5
                       WHERE id=$1 AND status='pending' AND expires_at > NOW()`
		tag, err := tx.Exec(ctx, claim, req.ConfirmationID, req.Target, req.ResolvedBy, req.Comment, req.RejectionReason)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return r.classifyClaimFailure(ctx, tx, req.ConfirmationID)
		}

		var order *model.Order
		if req.Transition != nil || req.DeleteOrder || req.SideEffect != nil {
			const lockOrder = `SELECT o.id, o.title, o.description, o.factory_id, o.employee_id, o.order_file,
                                      o.status, o.comments, o.uploaded_at, o.sent_at, o.invoice_received_at, o.completed_at
                               FROM orders o JOIN confirmations c ON o.id = c.order_id
                               WHERE c.id=$1 FOR UPDATE OF o`
			if order, err = scanOrder(tx.QueryRow(ctx, lockOrder, req.ConfirmationID)); err != nil {
				return err
			}
		}

		if req.Transition != nil && !statusAllowed(order.Status, req.Transition.AllowedFrom) {
			return domainErrors.ErrInvalidStateTransition
		}

		// Side effect runs before any commit: a failed dispatch rolls the
		// claim back and the ticket stays pending.
		if req.SideEffect != nil {
			if err := req.SideEffect(ctx, order); err != nil {
				return err
			}
		}

		if req.NewInvoice != nil {
			const insertInvoice = `INSERT INTO invoices (order_id, invoice_number, balance, due_date, invoice_file, notes)
                                   VALUES ($1, $2, $3, $4, $5, $6)`
			inv := req.NewInvoice
			if _, err := tx.Exec(ctx, insertInvoice, order.ID, inv.InvoiceNumber, inv.Balance, inv.DueDate, inv.InvoiceFile, inv.Notes); err != nil {
				return err
			}
		}

		switch {
		case req.DeleteOrder:
			if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, order.ID); err != nil {
				return err
			}
		case req.Transition != nil:
			if err := transitionOrderTx(ctx, tx, order.ID, req.Transition.To); err != nil {
				return err
			}
		}

		if req.Audit != nil && !req.DeleteOrder {
			if err := appendAuditTx(ctx, tx, req.Audit); err != nil {
				return err
			}
		}

		return nil
	})
}

// classifyClaimFailure distinguishes a lost race from a lapsed validity
// window after the conditional claim matched no rows.
func (r *confirmationRepository) classifyClaimFailure(ctx context.Context, tx pgx.Tx, id int64) error {
	const query = `SELECT status, expires_at FROM confirmations WHERE id=$1`
	var status model.ConfirmationStatus
	var expiresAt time.Time
	if err := tx.QueryRow(ctx, query, id).Scan(&status, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	if status == model.ConfirmationPending {
		return domainErrors.ErrExpired
	}
	return domainErrors.ErrAlreadyResolved
}

func statusAllowed(status model.OrderStatus, allowed []model.OrderStatus) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

// transitionOrderTx updates order status and stamps the matching timestamp
// column. Transition timestamps are set exactly once.
func transitionOrderTx(ctx context.Context, tx pgx.Tx, orderID int64, to model.OrderStatus) error {
	var stamp string
	switch to {
	case model.OrderStatusSent:
		stamp = "sent_at"
	case model.OrderStatusInvoiceReceived:
		stamp = "invoice_received_at"
	case model.OrderStatusCompleted:
		stamp = "completed_at"
	}

	query := `UPDATE orders SET status=$1 WHERE id=$2`
	if stamp != "" {
		query = fmt.Sprintf(`UPDATE orders SET status=$1, %s=NOW() WHERE id=$2 AND %s IS NULL`, stamp, stamp)
	}
	tag, err := tx.Exec(ctx, query, to, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrInvalidStateTransition
	}
	return nil
}
