package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot captures the contextual data of an order at confirmation request
// time. It is used for display and replay safety and is never re-read from
// the live order. One concrete type exists per action kind so the executor
// can match exhaustively.
type Snapshot interface {
	Kind() Action
}

// SendOrderSnapshot freezes the dispatch target for a send_order confirmation.
type SendOrderSnapshot struct {
	OrderTitle   string `json:"order_title"`
	FactoryName  string `json:"factory_name"`
	FactoryEmail string `json:"factory_email"`
	CountryCode  string `json:"country_code"`
}

func (SendOrderSnapshot) Kind() Action { return ActionSendOrder }

// UploadInvoiceSnapshot freezes order context for an upload_invoice confirmation.
type UploadInvoiceSnapshot struct {
	OrderTitle    string     `json:"order_title"`
	FactoryName   string     `json:"factory_name"`
	CurrentStatus string     `json:"current_status"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
}

func (UploadInvoiceSnapshot) Kind() Action { return ActionUploadInvoice }

// CompleteOrderSnapshot freezes the order timeline for a complete_order confirmation.
type CompleteOrderSnapshot struct {
	OrderTitle        string     `json:"order_title"`
	FactoryName       string     `json:"factory_name"`
	UploadedAt        time.Time  `json:"uploaded_at"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
	InvoiceReceivedAt *time.Time `json:"invoice_received_at,omitempty"`
}

func (CompleteOrderSnapshot) Kind() Action { return ActionCompleteOrder }

// CancelOrderSnapshot freezes the status being abandoned by a cancel_order confirmation.
type CancelOrderSnapshot struct {
	OrderTitle    string `json:"order_title"`
	CurrentStatus string `json:"current_status"`
}

func (CancelOrderSnapshot) Kind() Action { return ActionCancelOrder }

// DeleteOrderSnapshot freezes identifying data for a delete_order confirmation.
type DeleteOrderSnapshot struct {
	OrderTitle    string `json:"order_title"`
	FactoryName   string `json:"factory_name"`
	CurrentStatus string `json:"current_status"`
}

func (DeleteOrderSnapshot) Kind() Action { return ActionDeleteOrder }

type snapshotEnvelope struct {
	Kind Action          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// EncodeSnapshot serializes a snapshot with its kind tag for storage.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snapshotEnvelope{Kind: s.Kind(), Data: data})
}

// DecodeSnapshot restores a snapshot from its stored representation.
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	var s Snapshot
	switch env.Kind {
	case ActionSendOrder:
		s = &SendOrderSnapshot{}
	case ActionUploadInvoice:
		s = &UploadInvoiceSnapshot{}
	case ActionCompleteOrder:
		s = &CompleteOrderSnapshot{}
	case ActionCancelOrder:
		s = &CancelOrderSnapshot{}
	case ActionDeleteOrder:
		s = &DeleteOrderSnapshot{}
	default:
		return nil, fmt.Errorf("unknown snapshot kind %q", env.Kind)
	}

	if err := json.Unmarshal(env.Data, s); err != nil {
		return nil, err
	}
	return s, nil
}
