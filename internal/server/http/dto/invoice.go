package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceResponse represents an invoice with its derived aggregates.
type InvoiceResponse struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"order_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Balance       decimal.Decimal `json:"balance"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Remaining     decimal.Decimal `json:"remaining"`
	Progress      decimal.Decimal `json:"progress"`
	Status        string          `json:"status"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	InvoiceFile   string          `json:"invoice_file,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// InvoiceDetailResponse is the invoice view with payment history attached.
type InvoiceDetailResponse struct {
	InvoiceResponse
	Payments []PaymentResponse `json:"payments"`
}

// PaymentRequest describes a payment create/update payload.
type PaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	Kind        string          `json:"kind"`
	Receipt     string          `json:"receipt,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// PaymentResponse represents a recorded payment.
type PaymentResponse struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Kind        string          `json:"kind"`
	Receipt     string          `json:"receipt,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   int64           `json:"created_by"`
}
