package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubRepo struct {
	order *models.Order
	list  []models.Order
	err   error
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) Append(context.Context, *models.Order) error { return s.err }

func (s *stubRepo) GetByID(context.Context, uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubRepo) ListByUser(context.Context, string, int) ([]models.Order, error) {
	return s.list, s.err
}

func TestServiceGet(t *testing.T) {
	order := sampleOrder(models.GuestUserID)
	order.ID = uuid.New()
	svc, err := NewService(&stubRepo{order: order})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Get(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.Total != "33.19" || dto.Tax != "2.09" || dto.Discount != "2.90" {
		t.Fatalf("unexpected money rendering %+v", dto)
	}
	if len(dto.Items) != 2 || dto.Items[0].LineTotal != "25.00" {
		t.Fatalf("unexpected items %+v", dto.Items)
	}
}

func TestServiceGetMapsMissingAndFailures(t *testing.T) {
	svc, _ := NewService(&stubRepo{})
	if _, err := svc.Get(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	failing, _ := NewService(&stubRepo{err: errors.New("db down")})
	if _, err := failing.Get(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestServiceListForUserRequiresIdentity(t *testing.T) {
	svc, _ := NewService(&stubRepo{list: []models.Order{*sampleOrder("user-1")}})
	for _, id := range []string{"", models.GuestUserID} {
		if _, err := svc.ListForUser(context.Background(), id); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("%q: expected unauthorized, got %v", id, err)
		}
	}
	rows, err := svc.ListForUser(context.Background(), "user-1")
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected one order, got %d (%v)", len(rows), err)
	}
}
