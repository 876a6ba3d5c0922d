package dto

import "time"

// CreateOrderRequest describes the order creation payload.
type CreateOrderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	FactoryID   int64  `json:"factory_id"`
	OrderFile   string `json:"order_file"`
	Comments    string `json:"comments"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	FactoryID         int64      `json:"factory_id"`
	Status            string     `json:"status"`
	OrderFile         string     `json:"order_file,omitempty"`
	Comments          string     `json:"comments,omitempty"`
	UploadedAt        time.Time  `json:"uploaded_at"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
	InvoiceReceivedAt *time.Time `json:"invoice_received_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// OrderDetailResponse is the single-order view with the invoice summary
// attached once one exists.
type OrderDetailResponse struct {
	OrderResponse
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
}

// ActionRequest names the irreversible action a ticket is requested for.
type ActionRequest struct {
	Action string `json:"action"`
}

// AuditEntryResponse is a single audit trail record.
type AuditEntryResponse struct {
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	FieldName string    `json:"field_name,omitempty"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FactoryResponse is a factory directory entry.
type FactoryResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CountryCode   string `json:"country_code"`
	Email         string `json:"email"`
	ContactPerson string `json:"contact_person,omitempty"`
	Active        bool   `json:"active"`
}
