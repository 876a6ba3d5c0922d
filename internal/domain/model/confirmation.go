package model

import "time"

// Action enumerates the irreversible operations that require confirmation.
type Action string

const (
	ActionSendOrder     Action = "send_order"
	ActionUploadInvoice Action = "upload_invoice"
	ActionCompleteOrder Action = "complete_order"
	ActionCancelOrder   Action = "cancel_order"
	ActionDeleteOrder   Action = "delete_order"
)

// ValidAction reports whether the action is one of the supported kinds.
func ValidAction(a Action) bool {
	switch a {
	case ActionSendOrder, ActionUploadInvoice, ActionCompleteOrder, ActionCancelOrder, ActionDeleteOrder:
		return true
	}
	return false
}

// ConfirmationStatus describes the ticket state machine. All states other
// than pending are terminal.
type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "pending"
	ConfirmationConfirmed ConfirmationStatus = "confirmed"
	ConfirmationRejected  ConfirmationStatus = "rejected"
	ConfirmationExpired   ConfirmationStatus = "expired"
)

// Confirmation is a pending or resolved request to perform an irreversible
// action on an order. At most one pending confirmation may exist per
// (order, action) pair.
type Confirmation struct {
	ID              int64
	Token           string
	OrderID         int64
	Action          Action
	Status          ConfirmationStatus
	Snapshot        Snapshot
	RequestedBy     int64
	ResolvedBy      *int64
	Comment         string
	RejectionReason string
	RequestedAt     time.Time
	ResolvedAt      *time.Time
	ExpiresAt       time.Time
}

// ExpiryPolicy returns the validity window for a newly created confirmation.
func ExpiryPolicy(action Action) time.Duration {
	switch action {
	case ActionSendOrder:
		return 72 * time.Hour
	case ActionUploadInvoice:
		return 48 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// IsExpired reports whether the validity window has passed. Expiry is lazy:
// a stored pending status must not be trusted without this check.
func (c *Confirmation) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// CanBeResolvedBy reports whether the user is allowed to confirm or reject.
// Only the order's owning employee may resolve.
func (c *Confirmation) CanBeResolvedBy(order *Order, userID int64) bool {
	return order != nil && order.EmployeeID == userID
}
