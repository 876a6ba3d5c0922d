package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"orderdesk/internal/domain/model"
)

func appendAuditTx(ctx context.Context, tx pgx.Tx, e *model.AuditEntry) error {
	const insert = `INSERT INTO audit_log (order_id, user_id, action, old_value, new_value, field_name, comment)
                    VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := tx.Exec(ctx, insert, e.OrderID, e.UserID, e.Action, e.OldValue, e.NewValue, e.FieldName, e.Comment)
	return err
}

func (r *auditRepository) Append(ctx context.Context, e *model.AuditEntry) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return appendAuditTx(ctx, tx, e)
	})
}

func (r *auditRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.AuditEntry, error) {
	const query = `SELECT id, order_id, user_id, action, old_value, new_value, field_name, comment, ts
                   FROM audit_log WHERE order_id=$1 ORDER BY ts DESC`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.UserID, &e.Action, &e.OldValue, &e.NewValue,
			&e.FieldName, &e.Comment, &e.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
