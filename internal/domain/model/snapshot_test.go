package model

import (
	"testing"
	"time"
)

func TestSnapshotRoundTrip(t *testing.T) {
	sent := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		snap Snapshot
	}{
		{"send_order", &SendOrderSnapshot{OrderTitle: "Spring batch", FactoryName: "Milano Knitwear", FactoryEmail: "orders@milano.example", CountryCode: "IT"}},
		{"upload_invoice", &UploadInvoiceSnapshot{OrderTitle: "Spring batch", FactoryName: "Milano Knitwear", CurrentStatus: "sent", SentAt: &sent}},
		{"cancel_order", &CancelOrderSnapshot{OrderTitle: "Spring batch", CurrentStatus: "uploaded"}},
		{"delete_order", &DeleteOrderSnapshot{OrderTitle: "Spring batch", FactoryName: "Milano Knitwear", CurrentStatus: "cancelled"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := EncodeSnapshot(tc.snap)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			decoded, err := DecodeSnapshot(raw)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if decoded.Kind() != tc.snap.Kind() {
				t.Errorf("kind = %s, want %s", decoded.Kind(), tc.snap.Kind())
			}
		})
	}
}

func TestDecodeSnapshotPreservesFields(t *testing.T) {
	raw, err := EncodeSnapshot(&SendOrderSnapshot{
		OrderTitle:   "Order 77",
		FactoryName:  "Izmir Textiles",
		FactoryEmail: "factory@izmir.example",
		CountryCode:  "TR",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	snap, ok := decoded.(*SendOrderSnapshot)
	if !ok {
		t.Fatalf("decoded type %T", decoded)
	}
	if snap.FactoryEmail != "factory@izmir.example" || snap.CountryCode != "TR" {
		t.Errorf("fields lost: %+v", snap)
	}
}

func TestDecodeSnapshotRejectsUnknownKind(t *testing.T) {
	if _, err := DecodeSnapshot([]byte(`{"kind":"archive_order","data":{}}`)); err == nil {
		t.Error("unknown kind decoded without error")
	}
}

func TestEncodeSnapshotRejectsNil(t *testing.T) {
	if _, err := EncodeSnapshot(nil); err == nil {
		t.Error("nil snapshot encoded without error")
	}
}
