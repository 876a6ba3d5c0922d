package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
	"orderdesk/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// FactoryRepositoryStub serves a fixed factory directory.
type FactoryRepositoryStub struct {
	Factories map[int64]*model.Factory
	Err       error
}

// NewFactoryRepositoryStub seeds the stub with the given factories.
func NewFactoryRepositoryStub(factories ...*model.Factory) *FactoryRepositoryStub {
	s := &FactoryRepositoryStub{Factories: make(map[int64]*model.Factory)}
	for _, f := range factories {
		s.Factories[f.ID] = f
	}
	return s
}

// GetByID fetches factory by identifier or returns not found.
func (s *FactoryRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Factory, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if f, ok := s.Factories[id]; ok {
		return f, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns all known factories.
func (s *FactoryRepositoryStub) List(ctx context.Context) ([]model.Factory, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Factory, 0, len(s.Factories))
	for _, f := range s.Factories {
		out = append(out, *f)
	}
	return out, nil
}

// OrderRepositoryStub stores orders in-memory for tests. Reads return
// copies; mutation goes through the confirmation stub the way real writes
// go through the executor transaction.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[int64]*model.Order
	Next   int64
	Err    error
	Now    func() time.Time
}

// NewOrderRepositoryStub constructs the stub with initialized storage.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[int64]*model.Order), Next: 1, Now: time.Now}
}

// Create assigns an identifier and the initial status.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *order
	stored.ID = s.Next
	stored.Status = model.OrderStatusUploaded
	stored.UploadedAt = s.Now()
	s.Next++
	s.Orders[stored.ID] = &stored
	result := stored
	return &result, nil
}

// GetByID returns a copy of the stored order or not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.Orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByEmployee returns the employee's orders.
func (s *OrderRepositoryStub) ListByEmployee(ctx context.Context, employeeID int64) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0)
	for _, o := range s.Orders {
		if o.EmployeeID == employeeID {
			out = append(out, *o)
		}
	}
	return out, nil
}

// Seed stores an order as-is, for test setup.
func (s *OrderRepositoryStub) Seed(order *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Orders[order.ID] = order
	if order.ID >= s.Next {
		s.Next = order.ID + 1
	}
}

// AuditRepositoryStub records audit entries in-memory.
type AuditRepositoryStub struct {
	mu      sync.Mutex
	Entries []model.AuditEntry
	Err     error
}

// Append stores the entry.
func (s *AuditRepositoryStub) Append(ctx context.Context, e *model.AuditEntry) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *e
	stored.ID = int64(len(s.Entries) + 1)
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now()
	}
	s.Entries = append(s.Entries, stored)
	return nil
}

// ListByOrder returns the order's entries, newest first.
func (s *AuditRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.AuditEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AuditEntry, 0)
	for i := len(s.Entries) - 1; i >= 0; i-- {
		if s.Entries[i].OrderID == orderID {
			out = append(out, s.Entries[i])
		}
	}
	return out, nil
}

// ForOrder is a synchronous accessor for assertions.
func (s *AuditRepositoryStub) ForOrder(orderID int64) []model.AuditEntry {
	out, _ := s.ListByOrder(context.Background(), orderID)
	return out
}

// ConfirmationRepositoryStub mirrors the executor transaction in-memory.
// Resolve takes a single mutex so concurrent callers serialize exactly like
// they would on the claimed ticket row, and only the first claimant wins.
type ConfirmationRepositoryStub struct {
	mu      sync.Mutex
	Tickets map[int64]*model.Confirmation
	ByToken map[string]*model.Confirmation
	Next    int64

	Orders *OrderRepositoryStub
	Ledger *LedgerStub
	Audit  *AuditRepositoryStub
	Now    func() time.Time

	CreateErr  error
	ResolveErr error
}

// NewConfirmationRepositoryStub wires the stub to its collaborating stubs.
func NewConfirmationRepositoryStub(orders *OrderRepositoryStub, ledger *LedgerStub, audit *AuditRepositoryStub) *ConfirmationRepositoryStub {
	return &ConfirmationRepositoryStub{
		Tickets: make(map[int64]*model.Confirmation),
		ByToken: make(map[string]*model.Confirmation),
		Next:    1,
		Orders:  orders,
		Ledger:  ledger,
		Audit:   audit,
		Now:     time.Now,
	}
}

// Create inserts a pending ticket unless an unresolved one exists for the
// same (order, action) pair.
func (s *ConfirmationRepositoryStub) Create(ctx context.Context, c *model.Confirmation) (*model.Confirmation, bool, error) {
	if s.CreateErr != nil {
		return nil, false, s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.Tickets {
		if existing.OrderID == c.OrderID && existing.Action == c.Action && existing.Status == model.ConfirmationPending {
			if existing.IsExpired(s.Now()) {
				existing.Status = model.ConfirmationExpired
				continue
			}
			cp := *existing
			return &cp, false, nil
		}
	}

	stored := *c
	stored.ID = s.Next
	stored.Status = model.ConfirmationPending
	stored.RequestedAt = s.Now()
	s.Next++
	s.Tickets[stored.ID] = &stored
	s.ByToken[stored.Token] = &stored
	cp := stored
	return &cp, true, nil
}

// GetByToken returns a copy of the stored ticket.
func (s *ConfirmationRepositoryStub) GetByToken(ctx context.Context, token string) (*model.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.ByToken[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByEmployee returns tickets for orders owned by the employee.
func (s *ConfirmationRepositoryStub) ListByEmployee(ctx context.Context, employeeID int64, status model.ConfirmationStatus) ([]model.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Confirmation, 0)
	for _, t := range s.Tickets {
		order, ok := s.Orders.Orders[t.OrderID]
		if !ok || order.EmployeeID != employeeID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

// MarkExpired flips a still-pending ticket to expired.
func (s *ConfirmationRepositoryStub) MarkExpired(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.Tickets[id]; ok && t.Status == model.ConfirmationPending {
		t.Status = model.ConfirmationExpired
	}
	return nil
}

// Resolve performs the executor steps under one lock: conditional claim,
// transition revalidation, side effect, then the grouped writes. An error
// from any step leaves every piece of state untouched.
func (s *ConfirmationRepositoryStub) Resolve(ctx context.Context, req repository.ResolveRequest) error {
	if s.ResolveErr != nil {
		return s.ResolveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.Tickets[req.ConfirmationID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if ticket.Status != model.ConfirmationPending {
		return domainErrors.ErrAlreadyResolved
	}
	if ticket.IsExpired(s.Now()) {
		return domainErrors.ErrExpired
	}

	order, ok := s.Orders.Orders[ticket.OrderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if req.Transition != nil {
		allowed := false
		for _, from := range req.Transition.AllowedFrom {
			if order.Status == from {
				allowed = true
			}
		}
		if !allowed {
			return domainErrors.ErrInvalidStateTransition
		}
	}

	if req.SideEffect != nil {
		cp := *order
		if err := req.SideEffect(ctx, &cp); err != nil {
			return err
		}
	}

	now := s.Now()
	ticket.Status = req.Target
	ticket.ResolvedBy = &req.ResolvedBy
	ticket.ResolvedAt = &now
	ticket.Comment = req.Comment
	ticket.RejectionReason = req.RejectionReason

	if req.NewInvoice != nil && s.Ledger != nil {
		s.Ledger.SeedInvoice(req.NewInvoice)
	}
	if req.DeleteOrder {
		delete(s.Orders.Orders, order.ID)
	} else if req.Transition != nil {
		order.Status = req.Transition.To
		switch req.Transition.To {
		case model.OrderStatusSent:
			order.SentAt = &now
		case model.OrderStatusInvoiceReceived:
			order.InvoiceReceivedAt = &now
		case model.OrderStatusCompleted:
			order.CompletedAt = &now
		}
	}
	if req.Audit != nil && s.Audit != nil {
		_ = s.Audit.Append(ctx, req.Audit)
	}
	return nil
}

// LedgerStub implements both the invoice and payment repositories over one
// in-memory ledger, recomputing aggregates the way the storage layer does.
type LedgerStub struct {
	mu          sync.Mutex
	Invoices    map[int64]*model.Invoice
	Payments    map[int64]*model.Payment
	NextInvoice int64
	NextPayment int64

	Audit *AuditRepositoryStub
	Now   func() time.Time
	Err   error
}

// NewLedgerStub constructs the stub with initialized storage.
func NewLedgerStub(audit *AuditRepositoryStub) *LedgerStub {
	return &LedgerStub{
		Invoices:    make(map[int64]*model.Invoice),
		Payments:    make(map[int64]*model.Payment),
		NextInvoice: 1,
		NextPayment: 1,
		Audit:       audit,
		Now:         time.Now,
	}
}

// SeedInvoice stores an invoice, assigning an identifier when absent.
func (s *LedgerStub) SeedInvoice(inv *model.Invoice) *model.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *inv
	if stored.ID == 0 {
		stored.ID = s.NextInvoice
		s.NextInvoice++
	} else if stored.ID >= s.NextInvoice {
		s.NextInvoice = stored.ID + 1
	}
	if stored.Status == "" {
		stored.Status = model.InvoiceStatusPending
	}
	s.Invoices[stored.ID] = &stored
	return &stored
}

// GetByID returns a copy of the invoice.
func (s *LedgerStub) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv, ok := s.Invoices[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByOrder returns the invoice attached to the order.
func (s *LedgerStub) GetByOrder(ctx context.Context, orderID int64) (*model.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.Invoices {
		if inv.OrderID == orderID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Recompute derives the invoice aggregates from the stored payments.
func (s *LedgerStub) Recompute(ctx context.Context, invoiceID int64) (*model.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputeLocked(invoiceID)
}

func (s *LedgerStub) recomputeLocked(invoiceID int64) (*model.Invoice, error) {
	inv, ok := s.Invoices[invoiceID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}

	total := decimal.Zero
	var last *model.Payment
	for _, p := range s.Payments {
		if p.InvoiceID != invoiceID {
			continue
		}
		total = total.Add(p.Amount)
		if last == nil || p.PaymentDate.After(last.PaymentDate) ||
			(p.PaymentDate.Equal(last.PaymentDate) && p.ID > last.ID) {
			last = p
		}
	}

	var lastKind model.PaymentKind
	if last != nil {
		lastKind = last.Kind
	}
	inv.TotalPaid = total
	inv.Status = model.DeriveInvoiceStatus(total, inv.Balance, lastKind, inv.DueDate, s.Now())
	cp := *inv
	return &cp, nil
}

// Create stores a payment, recomputes, and appends the audit entry.
func (s *LedgerStub) Create(ctx context.Context, p *model.Payment, audit *model.AuditEntry) (*model.Payment, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	stored := *p
	stored.ID = s.NextPayment
	s.NextPayment++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.Now()
	}
	s.Payments[stored.ID] = &stored
	_, err := s.recomputeLocked(stored.InvoiceID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if audit != nil && s.Audit != nil {
		_ = s.Audit.Append(ctx, audit)
	}
	cp := stored
	return &cp, nil
}

// Update rewrites the payment and recomputes.
func (s *LedgerStub) Update(ctx context.Context, p *model.Payment, audit *model.AuditEntry) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	existing, ok := s.Payments[p.ID]
	if !ok {
		s.mu.Unlock()
		return domainErrors.ErrNotFound
	}
	existing.Amount = p.Amount
	existing.Kind = p.Kind
	existing.PaymentDate = p.PaymentDate
	existing.Receipt = p.Receipt
	existing.Notes = p.Notes
	_, err := s.recomputeLocked(existing.InvoiceID)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if audit != nil && s.Audit != nil {
		_ = s.Audit.Append(ctx, audit)
	}
	return nil
}

// Delete removes the payment and recomputes.
func (s *LedgerStub) Delete(ctx context.Context, id int64, audit *model.AuditEntry) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	existing, ok := s.Payments[id]
	if !ok {
		s.mu.Unlock()
		return domainErrors.ErrNotFound
	}
	invoiceID := existing.InvoiceID
	delete(s.Payments, id)
	_, err := s.recomputeLocked(invoiceID)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if audit != nil && s.Audit != nil {
		_ = s.Audit.Append(ctx, audit)
	}
	return nil
}

// GetPaymentByID returns a copy of the payment.
func (s *LedgerStub) GetPaymentByID(ctx context.Context, id int64) (*model.Payment, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByInvoice returns the invoice's payments.
func (s *LedgerStub) ListByInvoice(ctx context.Context, invoiceID int64) ([]model.Payment, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Payment, 0)
	for _, p := range s.Payments {
		if p.InvoiceID == invoiceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// PaymentRepositoryStub is the payment-side view of the shared ledger. A
// separate type is needed because both repository interfaces declare GetByID
// with different result types.
type PaymentRepositoryStub struct {
	*LedgerStub
}

// GetByID returns a copy of the payment.
func (s PaymentRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	return s.LedgerStub.GetPaymentByID(ctx, id)
}

var (
	_ repository.UserRepository         = (*UserRepositoryStub)(nil)
	_ repository.FactoryRepository      = (*FactoryRepositoryStub)(nil)
	_ repository.OrderRepository        = (*OrderRepositoryStub)(nil)
	_ repository.AuditRepository        = (*AuditRepositoryStub)(nil)
	_ repository.ConfirmationRepository = (*ConfirmationRepositoryStub)(nil)
	_ repository.InvoiceRepository      = (*LedgerStub)(nil)
	_ repository.PaymentRepository      = PaymentRepositoryStub{}
)
