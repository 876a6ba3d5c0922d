package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentKind describes the role of a payment in settling an invoice.
type PaymentKind string

const (
	PaymentKindDeposit PaymentKind = "deposit"
	PaymentKindPartial PaymentKind = "partial_payment"
	PaymentKindFinal   PaymentKind = "final_payment"
	PaymentKindRefund  PaymentKind = "refund"
)

// ValidPaymentKind reports whether the kind is one of the supported values.
func ValidPaymentKind(k PaymentKind) bool {
	switch k {
	case PaymentKindDeposit, PaymentKindPartial, PaymentKindFinal, PaymentKindRefund:
		return true
	}
	return false
}

// Payment is a single recorded transfer against an invoice.
type Payment struct {
	ID          int64
	InvoiceID   int64
	Amount      decimal.Decimal
	PaymentDate time.Time
	Kind        PaymentKind
	Receipt     string
	Notes       string
	CreatedBy   int64
	CreatedAt   time.Time
}
