package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
	testhelpers "orderdesk/internal/test"
	"orderdesk/internal/usecase"
)

type confirmationFixture struct {
	uc            *usecase.ConfirmationUseCase
	users         *testhelpers.UserRepositoryStub
	factories     *testhelpers.FactoryRepositoryStub
	orders        *testhelpers.OrderRepositoryStub
	ledger        *testhelpers.LedgerStub
	audit         *testhelpers.AuditRepositoryStub
	confirmations *testhelpers.ConfirmationRepositoryStub
	mailer        *testhelpers.MailerStub
	events        *testhelpers.EventSinkStub
}

func newConfirmationFixture(t *testing.T) *confirmationFixture {
	t.Helper()

	users := testhelpers.NewUserRepositoryStub()
	if _, err := users.Create(context.Background(), "anna", "hash:pw"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	factories := testhelpers.NewFactoryRepositoryStub(&model.Factory{
		ID: 1, Name: "Milano Knitwear", CountryCode: "IT",
		Email: "orders@milano.example", Active: true,
	})

	orders := testhelpers.NewOrderRepositoryStub()
	audit := &testhelpers.AuditRepositoryStub{}
	ledger := testhelpers.NewLedgerStub(audit)
	confirmations := testhelpers.NewConfirmationRepositoryStub(orders, ledger, audit)
	mailer := &testhelpers.MailerStub{}
	events := &testhelpers.EventSinkStub{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &confirmationFixture{
		uc:            usecase.NewConfirmationUseCase(confirmations, orders, factories, users, mailer, events, logger),
		users:         users,
		factories:     factories,
		orders:        orders,
		ledger:        ledger,
		audit:         audit,
		confirmations: confirmations,
		mailer:        mailer,
		events:        events,
	}
}

func (f *confirmationFixture) seedOrder(t *testing.T, status model.OrderStatus) *model.Order {
	t.Helper()
	order := &model.Order{
		ID: 1, Title: "Spring batch", FactoryID: 1, EmployeeID: 1,
		OrderFile: "spring.zip", Status: status, UploadedAt: time.Now(),
	}
	f.orders.Seed(order)
	return order
}

func TestRequestCreatesSendTicket(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusUploaded)

	before := time.Now()
	ticket, created, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if !created {
		t.Fatal("created = false for first ticket")
	}
	if ticket.Token == "" {
		t.Error("empty token")
	}
	if ticket.Status != model.ConfirmationPending {
		t.Errorf("status = %s", ticket.Status)
	}

	wantExpiry := before.Add(72 * time.Hour)
	if ticket.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) || ticket.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want about %v", ticket.ExpiresAt, wantExpiry)
	}

	snap, ok := ticket.Snapshot.(*model.SendOrderSnapshot)
	if !ok {
		t.Fatalf("snapshot type %T", ticket.Snapshot)
	}
	if snap.FactoryEmail != "orders@milano.example" || snap.CountryCode != "IT" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestRequestDuplicateReturnsExistingTicket(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusUploaded)

	first, _, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 1)
	if err != nil {
		t.Fatalf("first Request: %v", err)
	}
	second, created, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 1)
	if err != nil {
		t.Fatalf("second Request: %v", err)
	}
	if created {
		t.Error("created = true for duplicate")
	}
	if second.Token != first.Token {
		t.Errorf("duplicate returned new token %s, want %s", second.Token, first.Token)
	}
}

func TestRequestValidation(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusUploaded)

	t.Run("unknown action", func(t *testing.T) {
		_, _, err := f.uc.Request(context.Background(), 1, model.Action("archive_order"), 1)
		if !errors.Is(err, domainErrors.ErrInvalidAction) {
			t.Errorf("err = %v, want ErrInvalidAction", err)
		}
	})

	t.Run("wrong status for action", func(t *testing.T) {
		_, _, err := f.uc.Request(context.Background(), 1, model.ActionUploadInvoice, 1)
		if !errors.Is(err, domainErrors.ErrInvalidStateTransition) {
			t.Errorf("err = %v, want ErrInvalidStateTransition", err)
		}
	})

	t.Run("foreign order", func(t *testing.T) {
		_, _, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 99)
		if !errors.Is(err, domainErrors.ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		_, _, err := f.uc.Request(context.Background(), 404, model.ActionSendOrder, 1)
		if !errors.Is(err, domainErrors.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestConfirmSendOrder(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusUploaded)

	ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if err := f.uc.Confirm(context.Background(), ticket.Token, 1, "go ahead", nil); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	order, err := f.orders.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("order after confirm: %v", err)
	}
	if order.Status != model.OrderStatusSent {
		t.Errorf("order status = %s, want sent", order.Status)
	}
	if order.SentAt == nil {
		t.Error("SentAt not stamped")
	}

	sent := f.mailer.SentMessages()
	if len(sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sent))
	}
	if sent[0].To != "orders@milano.example" {
		t.Errorf("email to %s", sent[0].To)
	}
	if !strings.Contains(sent[0].Subject, "Spring batch") {
		t.Errorf("subject %q does not carry the order title", sent[0].Subject)
	}
	if sent[0].AttachmentName != "spring.zip" {
		t.Errorf("attachment %q", sent[0].AttachmentName)
	}

	stored, _ := f.confirmations.GetByToken(context.Background(), ticket.Token)
	if stored.Status != model.ConfirmationConfirmed {
		t.Errorf("ticket status = %s", stored.Status)
	}
	if stored.ResolvedBy == nil || *stored.ResolvedBy != 1 {
		t.Error("ResolvedBy not recorded")
	}

	entries := f.audit.ForOrder(1)
	if len(entries) != 1 || entries[0].Action != model.AuditActionSent {
		t.Errorf("audit entries = %+v", entries)
	}

	events := f.events.Recorded()
	if len(events) != 1 || events[0].Kind != model.EventOrderSent {
		t.Errorf("events = %+v", events)
	}
}

func TestConfirmSendOrderMailFailureRollsBack(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusUploaded)

	ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	f.mailer.Err = errors.New("gateway timeout")
	err = f.uc.Confirm(context.Background(), ticket.Token, 1, "", nil)
	if !errors.Is(err, domainErrors.ErrDependencyFailure) {
		t.Fatalf("err = %v, want ErrDependencyFailure", err)
	}

	order, _ := f.orders.GetByID(context.Background(), 1)
	if order.Status != model.OrderStatusUploaded {
		t.Errorf("order status = %s after failed send, want uploaded", order.Status)
	}
	stored, _ := f.confirmations.GetByToken(context.Background(), ticket.Token)
	if stored.Status != model.ConfirmationPending {
		t.Errorf("ticket status = %s after failed send, want pending", stored.Status)
	}
	if len(f.audit.ForOrder(1)) != 0 {
		t.Error("audit written despite rollback")
	}
	if len(f.events.Recorded()) != 0 {
		t.Error("event published despite rollback")
	}

	// The ticket is still live: once the gateway recovers the same ticket
	// can be confirmed.
	f.mailer.Err = nil
	if err := f.uc.Confirm(context.Background(), ticket.Token, 1, "", nil); err != nil {
		t.Fatalf("retry Confirm: %v", err)
	}
}

func TestConfirmAtMostOnce(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusUploaded)

	ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- f.uc.Confirm(context.Background(), ticket.Token, 1, "", nil)
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domainErrors.ErrAlreadyResolved):
			losses++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
	if losses != attempts-1 {
		t.Errorf("losses = %d, want %d", losses, attempts-1)
	}
	if sent := len(f.mailer.SentMessages()); sent != 1 {
		t.Errorf("emails sent = %d, want 1", sent)
	}
	if events := len(f.events.Recorded()); events != 1 {
		t.Errorf("events = %d, want 1", events)
	}
}

func TestConfirmExpiredTicket(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusUploaded)

	ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	f.confirmations.ByToken[ticket.Token].ExpiresAt = time.Now().Add(-time.Hour)

	err = f.uc.Confirm(context.Background(), ticket.Token, 1, "", nil)
	if !errors.Is(err, domainErrors.ErrExpired) {
		t.Fatalf("err = %v, want ErrExpired", err)
	}

	stored, _ := f.confirmations.GetByToken(context.Background(), ticket.Token)
	if stored.Status != model.ConfirmationExpired {
		t.Errorf("ticket status = %s, want expired after lazy expiry", stored.Status)
	}
	order, _ := f.orders.GetByID(context.Background(), 1)
	if order.Status != model.OrderStatusUploaded {
		t.Errorf("order status = %s, want untouched", order.Status)
	}
	if len(f.mailer.SentMessages()) != 0 {
		t.Error("email sent for expired ticket")
	}
}

func TestConfirmAuthorization(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusUploaded)

	ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if err := f.uc.Confirm(context.Background(), ticket.Token, 2, "", nil); !errors.Is(err, domainErrors.ErrNotAuthorized) {
		t.Errorf("foreign confirm err = %v, want ErrNotAuthorized", err)
	}
	if err := f.uc.Confirm(context.Background(), "no-such-token", 1, "", nil); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Errorf("missing token err = %v, want ErrNotFound", err)
	}
}

func TestConfirmSecondAttemptConflicts(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusUploaded)

	ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := f.uc.Confirm(context.Background(), ticket.Token, 1, "", nil); err != nil {
		t.Fatalf("first Confirm: %v", err)
	}
	if err := f.uc.Confirm(context.Background(), ticket.Token, 1, "", nil); !errors.Is(err, domainErrors.ErrAlreadyResolved) {
		t.Errorf("second Confirm err = %v, want ErrAlreadyResolved", err)
	}
}

func TestConfirmUploadInvoice(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusSent)

	ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionUploadInvoice, 1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	t.Run("payload required", func(t *testing.T) {
		if err := f.uc.Confirm(context.Background(), ticket.Token, 1, "", nil); !errors.Is(err, domainErrors.ErrInvoiceRequired) {
			t.Errorf("err = %v, want ErrInvoiceRequired", err)
		}
	})

	t.Run("positive balance required", func(t *testing.T) {
		payload := &usecase.InvoicePayload{Number: "INV-1", Balance: decimal.Zero, FileName: "inv.pdf"}
		if err := f.uc.Confirm(context.Background(), ticket.Token, 1, "", payload); !errors.Is(err, domainErrors.ErrInvalidAmount) {
			t.Errorf("err = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("successful upload", func(t *testing.T) {
		payload := &usecase.InvoicePayload{
			Number:   "INV-1",
			Balance:  decimal.NewFromInt(12000),
			FileName: "inv.pdf",
		}
		if err := f.uc.Confirm(context.Background(), ticket.Token, 1, "looks right", payload); err != nil {
			t.Fatalf("Confirm: %v", err)
		}

		order, _ := f.orders.GetByID(context.Background(), 1)
		if order.Status != model.OrderStatusInvoiceReceived {
			t.Errorf("order status = %s", order.Status)
		}
		invoice, err := f.ledger.GetByOrder(context.Background(), 1)
		if err != nil {
			t.Fatalf("invoice after confirm: %v", err)
		}
		if invoice.InvoiceNumber != "INV-1" || !invoice.Balance.Equal(decimal.NewFromInt(12000)) {
			t.Errorf("invoice = %+v", invoice)
		}
		events := f.events.Recorded()
		if len(events) != 1 || events[0].Kind != model.EventInvoiceReceived {
			t.Errorf("events = %+v", events)
		}
	})
}

func TestConfirmCompleteAndCancel(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		f := newConfirmationFixture(t)
		f.seedOrder(t, model.OrderStatusInvoiceReceived)

		ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionCompleteOrder, 1)
		if err != nil {
			t.Fatalf("Request: %v", err)
		}
		if err := f.uc.Confirm(context.Background(), ticket.Token, 1, "", nil); err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		order, _ := f.orders.GetByID(context.Background(), 1)
		if order.Status != model.OrderStatusCompleted || order.CompletedAt == nil {
			t.Errorf("order = %+v", order)
		}
	})

	t.Run("cancel from sent", func(t *testing.T) {
		f := newConfirmationFixture(t)
		f.seedOrder(t, model.OrderStatusSent)

		ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionCancelOrder, 1)
		if err != nil {
			t.Fatalf("Request: %v", err)
		}
		if err := f.uc.Confirm(context.Background(), ticket.Token, 1, "supplier folded", nil); err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		order, _ := f.orders.GetByID(context.Background(), 1)
		if order.Status != model.OrderStatusCancelled {
			t.Errorf("order status = %s", order.Status)
		}
		events := f.events.Recorded()
		if len(events) != 1 || events[0].Kind != model.EventOrderCancelled {
			t.Errorf("events = %+v", events)
		}
	})
}

func TestConfirmDeleteOrder(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusCancelled)

	ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionDeleteOrder, 1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := f.uc.Confirm(context.Background(), ticket.Token, 1, "", nil); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if _, err := f.orders.GetByID(context.Background(), 1); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Errorf("order lookup after delete = %v, want ErrNotFound", err)
	}
	events := f.events.Recorded()
	if len(events) != 1 || events[0].Kind != model.EventOrderDeleted {
		t.Errorf("events = %+v", events)
	}
}

func TestReject(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusUploaded)

	ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if err := f.uc.Reject(context.Background(), ticket.Token, 1, "  "); !errors.Is(err, domainErrors.ErrReasonRequired) {
		t.Errorf("blank reason err = %v, want ErrReasonRequired", err)
	}

	if err := f.uc.Reject(context.Background(), ticket.Token, 1, "wrong factory"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	stored, _ := f.confirmations.GetByToken(context.Background(), ticket.Token)
	if stored.Status != model.ConfirmationRejected || stored.RejectionReason != "wrong factory" {
		t.Errorf("ticket = %+v", stored)
	}
	order, _ := f.orders.GetByID(context.Background(), 1)
	if order.Status != model.OrderStatusUploaded {
		t.Errorf("order status = %s, want untouched", order.Status)
	}
	if len(f.events.Recorded()) != 0 {
		t.Error("reject published an event")
	}

	if err := f.uc.Confirm(context.Background(), ticket.Token, 1, "", nil); !errors.Is(err, domainErrors.ErrAlreadyResolved) {
		t.Errorf("confirm after reject err = %v, want ErrAlreadyResolved", err)
	}
}

func TestListByEmployeeAppliesLazyExpiry(t *testing.T) {
	f := newConfirmationFixture(t)
	f.seedOrder(t, model.OrderStatusUploaded)

	ticket, _, err := f.uc.Request(context.Background(), 1, model.ActionSendOrder, 1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	f.confirmations.ByToken[ticket.Token].ExpiresAt = time.Now().Add(-time.Minute)

	tickets, err := f.uc.ListByEmployee(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("ListByEmployee: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("tickets = %d", len(tickets))
	}
	if tickets[0].Status != model.ConfirmationExpired {
		t.Errorf("listed status = %s, want expired", tickets[0].Status)
	}

	stored, _ := f.confirmations.GetByToken(context.Background(), ticket.Token)
	if stored.Status != model.ConfirmationExpired {
		t.Errorf("stored status = %s, want expired persisted", stored.Status)
	}
}
