package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfirmationResponse represents a confirmation ticket.
type ConfirmationResponse struct {
	Token           string     `json:"token"`
	OrderID         int64      `json:"order_id"`
	Action          string     `json:"action"`
	Status          string     `json:"status"`
	Snapshot        any        `json:"snapshot"`
	RequestedAt     time.Time  `json:"requested_at"`
	ExpiresAt       time.Time  `json:"expires_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	Comment         string     `json:"comment,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

// TicketCreatedResponse is returned from an action request. When an
// unresolved ticket already existed the existing token is returned instead
// of a fresh one.
type TicketCreatedResponse struct {
	Token     string    `json:"token"`
	Action    string    `json:"action"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ApproveRequest carries the optional comment and, for upload_invoice
// tickets, the invoice payload.
type ApproveRequest struct {
	Comment string                 `json:"comment"`
	Invoice *InvoicePayloadRequest `json:"invoice,omitempty"`
}

// InvoicePayloadRequest is the invoice data attached to an upload_invoice
// approval.
type InvoicePayloadRequest struct {
	Number   string          `json:"number"`
	Balance  decimal.Decimal `json:"balance"`
	DueDate  *time.Time      `json:"due_date,omitempty"`
	FileName string          `json:"file_name"`
	Notes    string          `json:"notes,omitempty"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}
