package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	cartsvc "github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/coupons"
	"github.com/angelmondragon/storefront-backend/internal/session"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubCartService struct {
	view        *cartsvc.View
	err         error
	lastSession string
	lastProduct uuid.UUID
	lastQty     int
	removed     bool
}

func (s *stubCartService) Add(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*cartsvc.View, error) {
	s.lastSession, s.lastProduct, s.lastQty = sessionID, productID, qty
	return s.view, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*cartsvc.View, error) {
	s.lastSession, s.lastProduct, s.lastQty = sessionID, productID, qty
	return s.view, s.err
}

func (s *stubCartService) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*cartsvc.View, error) {
	s.lastSession, s.lastProduct, s.removed = sessionID, productID, true
	return s.view, s.err
}

func (s *stubCartService) View(ctx context.Context, sessionID string) (*cartsvc.View, error) {
	s.lastSession = sessionID
	return s.view, s.err
}

func (s *stubCartService) Count(ctx context.Context, sessionID string) (int, error) {
	s.lastSession = sessionID
	if s.view == nil {
		return 0, s.err
	}
	return s.view.ItemCount, s.err
}

func (s *stubCartService) Quote(ctx context.Context, state session.State) (*cartsvc.Quote, error) {
	return nil, s.err
}

type stubCouponService struct {
	applied  *coupons.AppliedCoupon
	err      error
	lastCode string
	removed  bool
}

func (s *stubCouponService) Apply(ctx context.Context, sessionID, code string) (*coupons.AppliedCoupon, error) {
	s.lastCode = code
	return s.applied, s.err
}

func (s *stubCouponService) Remove(ctx context.Context, sessionID string) error {
	s.removed = true
	return s.err
}

func (s *stubCouponService) Resolve(ctx context.Context, code string) (*models.Coupon, error) {
	return nil, nil
}

const testSession = "sess-1"

func newRequest(method, target, body string, params map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithSessionID(req.Context(), testSession)
	if len(params) > 0 {
		routeCtx := chi.NewRouteContext()
		for k, v := range params {
			routeCtx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	return req.WithContext(ctx)
}

func decodeView(t *testing.T, resp *httptest.ResponseRecorder) cartsvc.View {
	t.Helper()
	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartFetchSuccess(t *testing.T) {
	stub := &stubCartService{view: &cartsvc.View{ItemCount: 3}}
	resp := httptest.NewRecorder()
	CartFetch(stub, nil).ServeHTTP(resp, newRequest(http.MethodGet, "/api/v1/cart", "", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.lastSession != testSession {
		t.Fatalf("expected session %q got %q", testSession, stub.lastSession)
	}
	if view := decodeView(t, resp); view.ItemCount != 3 {
		t.Fatalf("expected item count 3 got %d", view.ItemCount)
	}
}

func TestCartFetchRequiresSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	CartFetch(&stubCartService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without session got %d", resp.Code)
	}
}

func TestCartCount(t *testing.T) {
	stub := &stubCartService{view: &cartsvc.View{ItemCount: 5}}
	resp := httptest.NewRecorder()
	CartCount(stub, nil).ServeHTTP(resp, newRequest(http.MethodGet, "/api/v1/cart/count", "", nil))

	var envelope struct {
		Data countResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Count != 5 {
		t.Fatalf("expected count 5 got %d", envelope.Data.Count)
	}
}

func TestCartAddItem(t *testing.T) {
	productID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubCartService{view: &cartsvc.View{ItemCount: 2}}
		body := `{"product_id":"` + productID.String() + `","quantity":2}`
		resp := httptest.NewRecorder()
		CartAddItem(stub, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/cart/items", body, nil))

		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
		}
		if stub.lastProduct != productID || stub.lastQty != 2 {
			t.Fatalf("unexpected add call product=%s qty=%d", stub.lastProduct, stub.lastQty)
		}
	})

	t.Run("missing product id", func(t *testing.T) {
		resp := httptest.NewRecorder()
		CartAddItem(&stubCartService{}, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/cart/items", `{"quantity":1}`, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", resp.Code)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		body := `{"product_id":"` + productID.String() + `","price":"0.01"}`
		resp := httptest.NewRecorder()
		CartAddItem(&stubCartService{}, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/cart/items", body, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", resp.Code)
		}
	})

	t.Run("unavailable product", func(t *testing.T) {
		stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "product is not available")}
		body := `{"product_id":"` + productID.String() + `"}`
		resp := httptest.NewRecorder()
		CartAddItem(stub, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/cart/items", body, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", resp.Code)
		}
	})
}

func TestCartUpdateItem(t *testing.T) {
	productID := uuid.New()
	params := map[string]string{"productId": productID.String()}

	t.Run("zero quantity is forwarded", func(t *testing.T) {
		stub := &stubCartService{view: &cartsvc.View{}}
		resp := httptest.NewRecorder()
		CartUpdateItem(stub, nil).ServeHTTP(resp, newRequest(http.MethodPatch, "/api/v1/cart/items/"+productID.String(), `{"quantity":0}`, params))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
		}
		if stub.lastQty != 0 || stub.lastProduct != productID {
			t.Fatalf("unexpected update call product=%s qty=%d", stub.lastProduct, stub.lastQty)
		}
	})

	t.Run("missing quantity", func(t *testing.T) {
		resp := httptest.NewRecorder()
		CartUpdateItem(&stubCartService{}, nil).ServeHTTP(resp, newRequest(http.MethodPatch, "/api/v1/cart/items/"+productID.String(), `{}`, params))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", resp.Code)
		}
	})

	t.Run("invalid product id", func(t *testing.T) {
		resp := httptest.NewRecorder()
		bad := map[string]string{"productId": "not-a-uuid"}
		CartUpdateItem(&stubCartService{}, nil).ServeHTTP(resp, newRequest(http.MethodPatch, "/api/v1/cart/items/not-a-uuid", `{"quantity":1}`, bad))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", resp.Code)
		}
	})
}

func TestCartRemoveItem(t *testing.T) {
	productID := uuid.New()
	stub := &stubCartService{view: &cartsvc.View{}}
	resp := httptest.NewRecorder()
	req := newRequest(http.MethodDelete, "/api/v1/cart/items/"+productID.String(), "", map[string]string{"productId": productID.String()})
	CartRemoveItem(stub, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !stub.removed || stub.lastProduct != productID {
		t.Fatalf("expected remove for %s", productID)
	}
}

func TestCouponApply(t *testing.T) {
	t.Run("applied", func(t *testing.T) {
		couponsStub := &stubCouponService{applied: &coupons.AppliedCoupon{Code: "SAVE10", Message: coupons.MessageApplied}}
		carts := &stubCartService{view: &cartsvc.View{CouponCode: "SAVE10"}}
		resp := httptest.NewRecorder()
		CouponApply(couponsStub, carts, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/cart/coupon", `{"code":"save10"}`, nil))

		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
		}
		if couponsStub.lastCode != "save10" {
			t.Fatalf("expected raw code forwarded, got %q", couponsStub.lastCode)
		}
		var envelope struct {
			Data couponResponse `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Data.Coupon == nil || envelope.Data.Coupon.Code != "SAVE10" {
			t.Fatalf("unexpected coupon payload %+v", envelope.Data.Coupon)
		}
		if envelope.Data.Cart == nil || envelope.Data.Cart.CouponCode != "SAVE10" {
			t.Fatalf("expected refreshed cart in payload")
		}
	})

	t.Run("rejected", func(t *testing.T) {
		couponsStub := &stubCouponService{err: pkgerrors.New(pkgerrors.CodeValidation, coupons.MessageInvalid)}
		resp := httptest.NewRecorder()
		CouponApply(couponsStub, &stubCartService{}, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/cart/coupon", `{"code":"NOPE"}`, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", resp.Code)
		}
		if !strings.Contains(resp.Body.String(), coupons.MessageInvalid) {
			t.Fatalf("expected rejection message, got %s", resp.Body.String())
		}
	})

	t.Run("throttled", func(t *testing.T) {
		couponsStub := &stubCouponService{err: pkgerrors.New(pkgerrors.CodeRateLimit, "too many coupon attempts")}
		resp := httptest.NewRecorder()
		CouponApply(couponsStub, &stubCartService{}, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/cart/coupon", `{"code":"X"}`, nil))
		if resp.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429 got %d", resp.Code)
		}
	})
}

func TestCouponRemove(t *testing.T) {
	couponsStub := &stubCouponService{}
	resp := httptest.NewRecorder()
	CouponRemove(couponsStub, &stubCartService{view: &cartsvc.View{}}, nil).ServeHTTP(resp, newRequest(http.MethodDelete, "/api/v1/cart/coupon", "", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !couponsStub.removed {
		t.Fatalf("expected coupon removal")
	}
}
