package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
	testhelpers "orderdesk/internal/test"
	"orderdesk/internal/usecase"
)

type facadeFixture struct {
	facade *DeskFacade
	users  *testhelpers.UserRepositoryStub
	orders *testhelpers.OrderRepositoryStub
	ledger *testhelpers.LedgerStub
	audit  *testhelpers.AuditRepositoryStub
	mailer *testhelpers.MailerStub
	events *testhelpers.EventSinkStub
}

func newFacade() *facadeFixture {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	users := testhelpers.NewUserRepositoryStub()
	strategy := testhelpers.StrategyStub{ParseFn: func(string) (int64, error) { return 99, nil }}
	authUC := usecase.NewAuthUseCase(users, testhelpers.HasherStub{}, strategy)

	factories := testhelpers.NewFactoryRepositoryStub(&model.Factory{
		ID: 1, Name: "Milano Knitwear", CountryCode: "IT", Email: "orders@milano.example", Active: true,
	})
	orders := testhelpers.NewOrderRepositoryStub()
	audit := &testhelpers.AuditRepositoryStub{}
	orderUC := usecase.NewOrderUseCase(orders, factories, audit)

	ledger := testhelpers.NewLedgerStub(audit)
	confirmations := testhelpers.NewConfirmationRepositoryStub(orders, ledger, audit)
	mailer := &testhelpers.MailerStub{}
	events := &testhelpers.EventSinkStub{}
	confirmationUC := usecase.NewConfirmationUseCase(confirmations, orders, factories, users, mailer, events, logger)

	payments := testhelpers.PaymentRepositoryStub{LedgerStub: ledger}
	ledgerUC := usecase.NewLedgerUseCase(ledger, payments, orders, events, logger)

	return &facadeFixture{
		facade: NewDeskFacade(authUC, orderUC, confirmationUC, ledgerUC),
		users:  users,
		orders: orders,
		ledger: ledger,
		audit:  audit,
		mailer: mailer,
		events: events,
	}
}

func TestDeskFacadeAuth(t *testing.T) {
	f := newFacade()

	token, err := f.facade.Register(context.Background(), "anna", "pass")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	stored, err := f.users.GetByLogin(context.Background(), "anna")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.Login != "anna" {
		t.Fatalf("unexpected stored login %q", stored.Login)
	}

	if _, err := f.facade.Authenticate(context.Background(), "anna", "pass"); err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}

	id, err := f.facade.ParseToken("anything")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if id != 99 {
		t.Fatalf("expected id 99, got %d", id)
	}
}

func TestDeskFacadeOrders(t *testing.T) {
	f := newFacade()

	order, err := f.facade.CreateOrder(context.Background(), 1, "Spring batch", "desc", 1, "spring.zip", "")
	if err != nil {
		t.Fatalf("create order returned error: %v", err)
	}
	if order.Status != model.OrderStatusUploaded {
		t.Fatalf("expected uploaded status, got %q", order.Status)
	}

	listed, err := f.facade.Orders(context.Background(), 1)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one order, got %v err=%v", listed, err)
	}

	got, err := f.facade.Order(context.Background(), 1, order.ID)
	if err != nil || got.Title != "Spring batch" {
		t.Fatalf("unexpected order: %+v err=%v", got, err)
	}
	if _, err := f.facade.Order(context.Background(), 2, order.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}

	trail, err := f.facade.OrderAudit(context.Background(), 1, order.ID)
	if err != nil || len(trail) != 1 || trail[0].Action != model.AuditActionCreated {
		t.Fatalf("unexpected audit trail: %v err=%v", trail, err)
	}

	factories, err := f.facade.Factories(context.Background())
	if err != nil || len(factories) != 1 {
		t.Fatalf("unexpected factories: %v err=%v", factories, err)
	}
}

func TestDeskFacadeConfirmationFlow(t *testing.T) {
	f := newFacade()
	ctx := context.Background()

	if _, err := f.facade.Register(ctx, "anna", "pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	order, err := f.facade.CreateOrder(ctx, 1, "Spring batch", "", 1, "spring.zip", "")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	ticket, created, err := f.facade.RequestAction(ctx, 1, order.ID, model.ActionSendOrder)
	if err != nil || !created {
		t.Fatalf("unexpected request result: ticket=%v created=%v err=%v", ticket, created, err)
	}

	listed, err := f.facade.Confirmations(ctx, 1, model.ConfirmationPending)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one pending ticket, got %v err=%v", listed, err)
	}
	got, err := f.facade.Confirmation(ctx, 1, ticket.Token)
	if err != nil || got.Token != ticket.Token {
		t.Fatalf("unexpected ticket: %+v err=%v", got, err)
	}

	if err := f.facade.Approve(ctx, ticket.Token, 1, "go ahead", nil); err != nil {
		t.Fatalf("approve returned error: %v", err)
	}

	sent, err := f.facade.Order(ctx, 1, order.ID)
	if err != nil || sent.Status != model.OrderStatusSent {
		t.Fatalf("expected sent order, got %+v err=%v", sent, err)
	}
	if len(f.mailer.SentMessages()) != 1 {
		t.Fatalf("expected one dispatched email, got %d", len(f.mailer.SentMessages()))
	}
	if len(f.events.Recorded()) != 1 || f.events.Recorded()[0].Kind != model.EventOrderSent {
		t.Fatalf("unexpected events: %v", f.events.Recorded())
	}

	if err := f.facade.Approve(ctx, ticket.Token, 1, "", nil); !errors.Is(err, domainErrors.ErrAlreadyResolved) {
		t.Fatalf("expected already resolved, got %v", err)
	}
}

func TestDeskFacadeReject(t *testing.T) {
	f := newFacade()
	ctx := context.Background()

	if _, err := f.facade.Register(ctx, "anna", "pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	order, err := f.facade.CreateOrder(ctx, 1, "Spring batch", "", 1, "spring.zip", "")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	ticket, _, err := f.facade.RequestAction(ctx, 1, order.ID, model.ActionCancelOrder)
	if err != nil {
		t.Fatalf("request action: %v", err)
	}

	if err := f.facade.Reject(ctx, ticket.Token, 1, ""); !errors.Is(err, domainErrors.ErrReasonRequired) {
		t.Fatalf("expected reason required, got %v", err)
	}
	if err := f.facade.Reject(ctx, ticket.Token, 1, "wrong factory"); err != nil {
		t.Fatalf("reject returned error: %v", err)
	}

	unchanged, err := f.facade.Order(ctx, 1, order.ID)
	if err != nil || unchanged.Status != model.OrderStatusUploaded {
		t.Fatalf("expected order untouched, got %+v err=%v", unchanged, err)
	}
}

func TestDeskFacadeLedger(t *testing.T) {
	f := newFacade()
	ctx := context.Background()

	f.orders.Seed(&model.Order{ID: 7, Title: "Spring batch", EmployeeID: 1, FactoryID: 1, Status: model.OrderStatusInvoiceReceived})
	invoice := f.ledger.SeedInvoice(&model.Invoice{OrderID: 7, InvoiceNumber: "INV-1", Balance: decimal.NewFromInt(1000)})

	view, err := f.facade.Invoice(ctx, 1, invoice.ID)
	if err != nil || view.Invoice.InvoiceNumber != "INV-1" {
		t.Fatalf("unexpected invoice view: %+v err=%v", view, err)
	}
	view, err = f.facade.InvoiceForOrder(ctx, 1, 7)
	if err != nil || view.Invoice.ID != invoice.ID {
		t.Fatalf("unexpected invoice for order: %+v err=%v", view, err)
	}

	payment, err := f.facade.RecordPayment(ctx, 1, &model.Payment{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(300),
		Kind:      model.PaymentKindDeposit,
	})
	if err != nil {
		t.Fatalf("record payment returned error: %v", err)
	}

	listed, err := f.facade.Payments(ctx, 1, invoice.ID)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one payment, got %v err=%v", listed, err)
	}

	payment.Amount = decimal.NewFromInt(400)
	if err := f.facade.UpdatePayment(ctx, 1, payment); err != nil {
		t.Fatalf("update payment returned error: %v", err)
	}
	recomputed, err := f.facade.Invoice(ctx, 1, invoice.ID)
	if err != nil || !recomputed.Invoice.TotalPaid.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected recomputed total 400, got %+v err=%v", recomputed, err)
	}

	if err := f.facade.DeletePayment(ctx, 1, payment.ID); err != nil {
		t.Fatalf("delete payment returned error: %v", err)
	}
	emptied, err := f.facade.Invoice(ctx, 1, invoice.ID)
	if err != nil || !emptied.Invoice.TotalPaid.IsZero() {
		t.Fatalf("expected zero total after delete, got %+v err=%v", emptied, err)
	}
}
