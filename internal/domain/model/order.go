package model

import "time"

// OrderStatus describes the order lifecycle.
type OrderStatus string

const (
	OrderStatusUploaded        OrderStatus = "uploaded"
	OrderStatusSent            OrderStatus = "sent"
	OrderStatusInvoiceReceived OrderStatus = "invoice_received"
	OrderStatusCompleted       OrderStatus = "completed"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// Order describes a purchase order uploaded by an employee and sent to a factory.
type Order struct {
	ID                int64
	Title             string
	Description       string
	FactoryID         int64
	EmployeeID        int64
	OrderFile         string
	Status            OrderStatus
	Comments          string
	UploadedAt        time.Time
	SentAt            *time.Time
	InvoiceReceivedAt *time.Time
	CompletedAt       *time.Time
}

// IsTerminal reports whether no further status transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransition reports whether the status chain permits moving from one
// status to another. Forward along uploaded -> sent -> invoice_received ->
// completed, or sideways into cancelled from any non-terminal state.
func CanTransition(from, to OrderStatus) bool {
	if to == OrderStatusCancelled {
		return !from.IsTerminal()
	}
	switch from {
	case OrderStatusUploaded:
		return to == OrderStatusSent
	case OrderStatusSent:
		return to == OrderStatusInvoiceReceived
	case OrderStatusInvoiceReceived:
		return to == OrderStatusCompleted
	default:
		return false
	}
}
