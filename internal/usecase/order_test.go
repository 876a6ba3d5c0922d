package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
	testhelpers "orderdesk/internal/test"
	"orderdesk/internal/usecase"
)

func newOrderFixture() (*usecase.OrderUseCase, *testhelpers.OrderRepositoryStub, *testhelpers.AuditRepositoryStub) {
	factories := testhelpers.NewFactoryRepositoryStub(
		&model.Factory{ID: 1, Name: "Milano Knitwear", CountryCode: "IT", Email: "orders@milano.example", Active: true},
		&model.Factory{ID: 2, Name: "Closed Mill", CountryCode: "PL", Email: "mill@closed.example", Active: false},
	)
	orders := testhelpers.NewOrderRepositoryStub()
	audit := &testhelpers.AuditRepositoryStub{}
	return usecase.NewOrderUseCase(orders, factories, audit), orders, audit
}

func TestCreateOrder(t *testing.T) {
	uc, _, audit := newOrderFixture()

	order, err := uc.Create(context.Background(), 1, "  Spring batch  ", "knit tops", 1, "spring.zip", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.Title != "Spring batch" {
		t.Errorf("title = %q, want trimmed", order.Title)
	}
	if order.Status != model.OrderStatusUploaded {
		t.Errorf("status = %s, want uploaded", order.Status)
	}

	entries := audit.ForOrder(order.ID)
	if len(entries) != 1 || entries[0].Action != model.AuditActionCreated {
		t.Errorf("audit = %+v", entries)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	uc, _, _ := newOrderFixture()

	if _, err := uc.Create(context.Background(), 1, "   ", "", 1, "", ""); !errors.Is(err, domainErrors.ErrInvalidOrder) {
		t.Errorf("blank title err = %v, want ErrInvalidOrder", err)
	}
	if _, err := uc.Create(context.Background(), 1, "Order", "", 2, "", ""); !errors.Is(err, domainErrors.ErrInvalidOrder) {
		t.Errorf("inactive factory err = %v, want ErrInvalidOrder", err)
	}
	if _, err := uc.Create(context.Background(), 1, "Order", "", 404, "", ""); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Errorf("missing factory err = %v, want ErrNotFound", err)
	}
}

func TestGetOrderOwnership(t *testing.T) {
	uc, orders, _ := newOrderFixture()
	orders.Seed(&model.Order{ID: 5, Title: "Order", EmployeeID: 1, FactoryID: 1, Status: model.OrderStatusUploaded, UploadedAt: time.Now()})

	if _, err := uc.Get(context.Background(), 1, 5); err != nil {
		t.Errorf("owner Get: %v", err)
	}
	if _, err := uc.Get(context.Background(), 2, 5); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Errorf("foreign Get err = %v, want ErrNotFound", err)
	}
}

func TestAuditTrailChecksOwnership(t *testing.T) {
	uc, orders, audit := newOrderFixture()
	orders.Seed(&model.Order{ID: 5, Title: "Order", EmployeeID: 1, FactoryID: 1, Status: model.OrderStatusUploaded, UploadedAt: time.Now()})
	_ = audit.Append(context.Background(), &model.AuditEntry{OrderID: 5, UserID: 1, Action: model.AuditActionCreated})

	entries, err := uc.AuditTrail(context.Background(), 1, 5)
	if err != nil || len(entries) != 1 {
		t.Errorf("AuditTrail = %d entries, %v", len(entries), err)
	}
	if _, err := uc.AuditTrail(context.Background(), 2, 5); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Errorf("foreign AuditTrail err = %v, want ErrNotFound", err)
	}
}
