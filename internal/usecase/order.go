package usecase

import (
	"context"
	"strings"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
	"orderdesk/internal/domain/repository"
)

// OrderUseCase covers the plain order surface: creation and reads. All
// irreversible transitions go through the confirmation workflow instead.
type OrderUseCase struct {
	orders    repository.OrderRepository
	factories repository.FactoryRepository
	audit     repository.AuditRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, factories repository.FactoryRepository, audit repository.AuditRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, factories: factories, audit: audit}
}

// Create registers a freshly uploaded order and records the audit entry.
func (u *OrderUseCase) Create(ctx context.Context, employeeID int64, title, description string, factoryID int64, orderFile, comments string) (*model.Order, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domainErrors.ErrInvalidOrder
	}

	factory, err := u.factories.GetByID(ctx, factoryID)
	if err != nil {
		return nil, err
	}
	if !factory.Active {
		return nil, domainErrors.ErrInvalidOrder
	}

	order, err := u.orders.Create(ctx, &model.Order{
		Title:       strings.TrimSpace(title),
		Description: description,
		FactoryID:   factoryID,
		EmployeeID:  employeeID,
		OrderFile:   orderFile,
		Comments:    comments,
	})
	if err != nil {
		return nil, err
	}

	entry := &model.AuditEntry{
		OrderID:  order.ID,
		UserID:   employeeID,
		Action:   model.AuditActionCreated,
		NewValue: string(model.OrderStatusUploaded),
		Comment:  "Order uploaded",
	}
	if err := u.audit.Append(ctx, entry); err != nil {
		return nil, err
	}

	return order, nil
}

// Get returns the order after checking ownership.
func (u *OrderUseCase) Get(ctx context.Context, employeeID, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.EmployeeID != employeeID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// ListByEmployee returns the employee's orders, newest first.
func (u *OrderUseCase) ListByEmployee(ctx context.Context, employeeID int64) ([]model.Order, error) {
	return u.orders.ListByEmployee(ctx, employeeID)
}

// AuditTrail returns the order's audit entries, newest first.
func (u *OrderUseCase) AuditTrail(ctx context.Context, employeeID, orderID int64) ([]model.AuditEntry, error) {
	if _, err := u.Get(ctx, employeeID, orderID); err != nil {
		return nil, err
	}
	return u.audit.ListByOrder(ctx, orderID)
}

// Factories lists active factories for order creation.
func (u *OrderUseCase) Factories(ctx context.Context) ([]model.Factory, error) {
	return u.factories.List(ctx)
}
