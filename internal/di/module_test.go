package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"orderdesk/internal/adapter/mailgate"
	"orderdesk/internal/adapter/notify"
	"orderdesk/internal/app"
	"orderdesk/internal/config"
	"orderdesk/internal/domain/repository"
	"orderdesk/internal/storage/postgres"
	"orderdesk/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:         ":0",
		DatabaseURI:        "postgres://stub",
		MailGatewayAddress: "http://localhost:8025",
		TokenSecret:        "secret",
		MailTimeout:        time.Second,
		ShutdownTimeout:    time.Millisecond,
		NotifyWorkers:      1,
		NotifyBuffer:       1,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	audit := &test.AuditRepositoryStub{}
	orderRepo := test.NewOrderRepositoryStub()
	ledger := test.NewLedgerStub(audit)

	var facade *app.DeskFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.UserRepository(test.NewUserRepositoryStub())),
			fx.Replace(repository.FactoryRepository(test.NewFactoryRepositoryStub())),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.ConfirmationRepository(test.NewConfirmationRepositoryStub(orderRepo, ledger, audit))),
			fx.Replace(repository.InvoiceRepository(ledger)),
			fx.Replace(repository.PaymentRepository(test.PaymentRepositoryStub{LedgerStub: ledger})),
			fx.Replace(repository.AuditRepository(audit)),
			fx.Replace(mailgate.Client(&test.MailerStub{})),
			fx.Replace(notify.Publisher(&test.PublisherStub{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected desk facade instance")
	}
}
