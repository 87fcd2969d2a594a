package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

type fakeKV struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	default:
		f.values[key] = fmt.Sprint(v)
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeKV) SessionKey(id string) string { return "sf:session:" + id }

func TestStoreLoadMissingReturnsEmptyState(t *testing.T) {
	store, err := NewStore(newFakeKV(), 0, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	state, err := store.Load(context.Background(), "abc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !state.CartEmpty() || state.CouponCode != "" {
		t.Fatalf("expected empty state, got %+v", state)
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	kv := newFakeKV()
	store, _ := NewStore(kv, time.Hour, nil)
	productID := uuid.New()
	state := State{
		Cart:       []CartLine{{ProductID: productID, Quantity: 2}},
		CouponCode: "SAVE10",
		Draft: Draft{
			Shipping:      &types.ShippingAddress{Name: "Ada", Country: "USA"},
			PaymentMethod: enums.PaymentMethodCard,
		},
	}
	if err := store.Save(context.Background(), "abc", state); err != nil {
		t.Fatalf("save: %v", err)
	}
	if kv.ttls["sf:session:abc"] != time.Hour {
		t.Fatalf("expected ttl refresh, got %s", kv.ttls["sf:session:abc"])
	}

	loaded, err := store.Load(context.Background(), "abc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	line, ok := loaded.Line(productID)
	if !ok || line.Quantity != 2 {
		t.Fatalf("unexpected cart %+v", loaded.Cart)
	}
	if loaded.Draft.Shipping == nil || loaded.Draft.Shipping.Name != "Ada" {
		t.Fatalf("draft not restored: %+v", loaded.Draft)
	}
	if loaded.Draft.PaymentMethod != enums.PaymentMethodCard {
		t.Fatalf("payment method not restored")
	}
}

func TestStoreLoadDiscardsCorruptPayload(t *testing.T) {
	kv := newFakeKV()
	kv.values["sf:session:abc"] = "{not json"
	store, _ := NewStore(kv, 0, nil)
	state, err := store.Load(context.Background(), "abc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !state.CartEmpty() {
		t.Fatalf("expected fresh state")
	}
}

func TestStoreLoadWrapsRedisFailure(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	store, _ := NewStore(kv, 0, nil)
	_, err := store.Load(context.Background(), "abc")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestStoreRejectsBlankSessionID(t *testing.T) {
	store, _ := NewStore(newFakeKV(), 0, nil)
	if _, err := store.Load(context.Background(), "  "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStoreUpdateSkipsSaveOnError(t *testing.T) {
	kv := newFakeKV()
	store, _ := NewStore(kv, 0, nil)
	boom := errors.New("boom")
	_, err := store.Update(context.Background(), "abc", func(s *State) error {
		s.CouponCode = "NOPE"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, ok := kv.values["sf:session:abc"]; ok {
		t.Fatal("state must not be saved")
	}
}

func TestStoreClear(t *testing.T) {
	kv := newFakeKV()
	store, _ := NewStore(kv, 0, nil)
	_ = store.Save(context.Background(), "abc", State{CouponCode: "X"})
	if err := store.Clear(context.Background(), "abc"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(kv.values) != 0 {
		t.Fatal("expected key removed")
	}
}

func TestStateCartHelpers(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	var s State
	s.SetQuantity(a, 2)
	s.SetQuantity(b, 3)
	s.SetQuantity(a, 5)
	if s.ItemCount() != 8 {
		t.Fatalf("expected 8 items, got %d", s.ItemCount())
	}
	s.SetQuantity(b, 0)
	if _, ok := s.Line(b); ok {
		t.Fatal("zero quantity must remove the line")
	}
	s.RemoveLine(a)
	if !s.CartEmpty() {
		t.Fatal("expected empty cart")
	}
	s.SetQuantity(a, -1)
	if !s.CartEmpty() {
		t.Fatal("non-positive quantity must not add a line")
	}

	s.SetQuantity(a, 1)
	s.CouponCode = "SAVE10"
	s.Draft.PaymentMethod = enums.PaymentMethodPayPal
	s.ResetCheckout()
	if !s.CartEmpty() || s.CouponCode != "" || s.Draft.PaymentMethod != "" {
		t.Fatalf("reset incomplete: %+v", s)
	}
}
