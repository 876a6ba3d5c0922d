package model

import "time"

// EventKind names a user-facing notification topic.
type EventKind string

const (
	EventOrderSent       EventKind = "order_sent"
	EventInvoiceReceived EventKind = "invoice_received"
	EventOrderCompleted  EventKind = "order_completed"
	EventOrderCancelled  EventKind = "order_cancelled"
	EventOrderDeleted    EventKind = "order_deleted"
	EventPaymentRecorded EventKind = "payment_recorded"
)

// Event is a fire-and-forget notification emitted after a successful state
// transition. Delivery failures never affect the originating operation.
type Event struct {
	Kind       EventKind
	OrderID    int64
	OrderTitle string
	UserID     int64
	OccurredAt time.Time
}
