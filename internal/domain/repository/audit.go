package repository

import (
	"context"

	"orderdesk/internal/domain/model"
)

// AuditRepository is append-only: no update or delete operations exist.
type AuditRepository interface {
	Append(ctx context.Context, e *model.AuditEntry) error
	ListByOrder(ctx context.Context, orderID int64) ([]model.AuditEntry, error)
}
