package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	ordersvc "github.com/angelmondragon/storefront-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubOrdersService struct {
	list     []ordersvc.OrderDTO
	lastUser string
}

func (s *stubOrdersService) Get(ctx context.Context, id uuid.UUID) (*ordersvc.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrdersService) ListForUser(ctx context.Context, userID string) ([]ordersvc.OrderDTO, error) {
	s.lastUser = userID
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view order history")
	}
	return s.list, nil
}

func TestListRequiresSignedInUser(t *testing.T) {
	resp := httptest.NewRecorder()
	List(&stubOrdersService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestListReturnsOrders(t *testing.T) {
	stub := &stubOrdersService{list: []ordersvc.OrderDTO{{ID: uuid.New(), Total: "12.00"}}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-7"))
	resp := httptest.NewRecorder()
	List(stub, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.lastUser != "user-7" {
		t.Fatalf("expected user-7 got %q", stub.lastUser)
	}
	var envelope struct {
		Data listResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 || envelope.Data.Orders[0].Total != "12.00" {
		t.Fatalf("unexpected orders %+v", envelope.Data.Orders)
	}
}
