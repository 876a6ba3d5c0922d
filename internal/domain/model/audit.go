package model

import "time"

// AuditAction classifies an audit trail record.
type AuditAction string

const (
	AuditActionCreated       AuditAction = "created"
	AuditActionUpdated       AuditAction = "updated"
	AuditActionStatusChanged AuditAction = "status_changed"
	AuditActionFileUploaded  AuditAction = "file_uploaded"
	AuditActionSent          AuditAction = "sent"
	AuditActionCompleted     AuditAction = "completed"
	AuditActionCancelled     AuditAction = "cancelled"
	AuditActionDeleted       AuditAction = "deleted"
)

// AuditEntry records one state-changing action on an order. Entries are
// append-only and immutable once written.
type AuditEntry struct {
	ID        int64
	OrderID   int64
	UserID    int64
	Action    AuditAction
	OldValue  string
	NewValue  string
	FieldName string
	Comment   string
	Timestamp time.Time
}
