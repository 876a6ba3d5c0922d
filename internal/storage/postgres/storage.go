package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"orderdesk/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool the storage layer relies on. pgxmock's
// pool implements it, which keeps the repository code testable without a
// live database.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DB
	logger *slog.Logger

	// now feeds the overdue boundary in invoice recomputation; swapped in
	// tests for a fixed clock.
	now func() time.Time
}

type orderRepository struct {
	storage *Storage
}

type confirmationRepository struct {
	storage *Storage
}

type invoiceRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
}

type auditRepository struct {
	storage *Storage
}

type userRepository struct {
	storage *Storage
}

type factoryRepository struct {
	storage *Storage
}

// newPgxPool is swapped in tests to avoid dialing a real database.
var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (DB, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger, now: time.Now}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Factories() repository.FactoryRepository {
	return &factoryRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Confirmations() repository.ConfirmationRepository {
	return &confirmationRepository{storage: s}
}

func (s *Storage) Invoices() repository.InvoiceRepository {
	return &invoiceRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) Audit() repository.AuditRepository {
	return &auditRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS factories (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            country_code TEXT NOT NULL,
            email TEXT NOT NULL,
            contact_person TEXT NOT NULL DEFAULT '',
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            factory_id BIGINT NOT NULL REFERENCES factories(id),
            employee_id BIGINT NOT NULL REFERENCES users(id),
            order_file TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            comments TEXT NOT NULL DEFAULT '',
            uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            sent_at TIMESTAMPTZ,
            invoice_received_at TIMESTAMPTZ,
            completed_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS confirmations (
            id SERIAL PRIMARY KEY,
            token TEXT UNIQUE NOT NULL,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            action TEXT NOT NULL,
            status TEXT NOT NULL,
            snapshot JSONB NOT NULL,
            requested_by BIGINT NOT NULL REFERENCES users(id),
            resolved_by BIGINT,
            comment TEXT NOT NULL DEFAULT '',
            rejection_reason TEXT NOT NULL DEFAULT '',
            requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            resolved_at TIMESTAMPTZ,
            expires_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS invoices (
            id SERIAL PRIMARY KEY,
            order_id BIGINT UNIQUE NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            invoice_number TEXT NOT NULL,
            balance NUMERIC(14,2) NOT NULL,
            total_paid NUMERIC(14,2) NOT NULL DEFAULT 0,
            due_date TIMESTAMPTZ,
            status TEXT NOT NULL DEFAULT 'pending',
            invoice_file TEXT NOT NULL DEFAULT '',
            notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id SERIAL PRIMARY KEY,
            invoice_id BIGINT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
            amount NUMERIC(14,2) NOT NULL,
            payment_date TIMESTAMPTZ NOT NULL,
            kind TEXT NOT NULL,
            receipt TEXT NOT NULL DEFAULT '',
            notes TEXT NOT NULL DEFAULT '',
            created_by BIGINT NOT NULL REFERENCES users(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS audit_log (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            user_id BIGINT NOT NULL REFERENCES users(id),
            action TEXT NOT NULL,
            old_value TEXT NOT NULL DEFAULT '',
            new_value TEXT NOT NULL DEFAULT '',
            field_name TEXT NOT NULL DEFAULT '',
            comment TEXT NOT NULL DEFAULT '',
            ts TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_employee ON orders(employee_id, uploaded_at DESC)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_confirmations_pending ON confirmations(order_id, action) WHERE status = 'pending'`,
		`CREATE INDEX IF NOT EXISTS idx_payments_invoice ON payments(invoice_id, payment_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_order ON audit_log(order_id, ts DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
