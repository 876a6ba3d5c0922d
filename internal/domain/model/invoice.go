package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is derived from payment history, never written by callers.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice tracks the amount owed for an order. One invoice per order.
// TotalPaid and status are maintained exclusively by ledger recomputation.
type Invoice struct {
	ID            int64
	OrderID       int64
	InvoiceNumber string
	Balance       decimal.Decimal
	TotalPaid     decimal.Decimal
	DueDate       *time.Time
	Status        InvoiceStatus
	InvoiceFile   string
	Notes         string
	CreatedAt     time.Time
}

// Remaining returns the amount still owed.
func (i *Invoice) Remaining() decimal.Decimal {
	return i.Balance.Sub(i.TotalPaid)
}

// DeriveInvoiceStatus computes the displayed status from the recomputed
// aggregates. The order of rules is a business rule in itself: the kind of
// the most recently dated payment is consulted before the arithmetic-only
// partial fallback, so a deposit recorded after a partial payment reverts
// the status to pending.
func DeriveInvoiceStatus(totalPaid, balance decimal.Decimal, lastKind PaymentKind, dueDate *time.Time, now time.Time) InvoiceStatus {
	var status InvoiceStatus
	switch {
	case totalPaid.IsZero() || totalPaid.IsNegative():
		status = InvoiceStatusPending
	case totalPaid.GreaterThanOrEqual(balance):
		status = InvoiceStatusPaid
	case lastKind == PaymentKindDeposit:
		status = InvoiceStatusPending
	case lastKind == PaymentKindFinal:
		status = InvoiceStatusPaid
	default:
		status = InvoiceStatusPartial
	}

	if status != InvoiceStatusPaid && dueDate != nil && now.After(*dueDate) {
		return InvoiceStatusOverdue
	}
	return status
}

// PaymentProgress returns how much of the balance has been covered, in
// percent. Zero or negative balances report zero progress.
func PaymentProgress(totalPaid, balance decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	if balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if totalPaid.GreaterThanOrEqual(balance) {
		return hundred
	}
	return totalPaid.Div(balance).Mul(hundred)
}
