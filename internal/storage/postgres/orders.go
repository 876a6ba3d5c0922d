package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
)

const orderColumns = `id, title, description, factory_id, employee_id, order_file, status, comments,
                      uploaded_at, sent_at, invoice_received_at, completed_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Title, &o.Description, &o.FactoryID, &o.EmployeeID, &o.OrderFile,
		&o.Status, &o.Comments, &o.UploadedAt, &o.SentAt, &o.InvoiceReceivedAt, &o.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (title, description, factory_id, employee_id, order_file, status, comments)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING id, uploaded_at`
	created := *order
	created.Status = model.OrderStatusUploaded
	err := r.storage.pool.QueryRow(ctx, query,
		order.Title, order.Description, order.FactoryID, order.EmployeeID,
		order.OrderFile, model.OrderStatusUploaded, order.Comments,
	).Scan(&created.ID, &created.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE employee_id=$1 ORDER BY uploaded_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.Title, &o.Description, &o.FactoryID, &o.EmployeeID, &o.OrderFile,
			&o.Status, &o.Comments, &o.UploadedAt, &o.SentAt, &o.InvoiceReceivedAt, &o.CompletedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
