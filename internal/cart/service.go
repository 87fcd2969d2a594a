package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/internal/pricing"
	"github.com/angelmondragon/storefront-backend/internal/session"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type productReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

type couponResolver interface {
	Resolve(ctx context.Context, code string) (*models.Coupon, error)
}

type sessionStore interface {
	Load(ctx context.Context, sessionID string) (session.State, error)
	Update(ctx context.Context, sessionID string, fn func(*session.State) error) (session.State, error)
}

// Service manages the session cart and prices it on demand.
type Service interface {
	Add(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error)
	View(ctx context.Context, sessionID string) (*View, error)
	Count(ctx context.Context, sessionID string) (int, error)
	// Quote prices an already loaded session state with live products and
	// the session coupon, if it is still valid.
	Quote(ctx context.Context, state session.State) (*Quote, error)
}

// Quote is a priced cart together with the coupon that was considered.
type Quote struct {
	Totals pricing.Totals
	Coupon *models.Coupon
}

type service struct {
	products productReader
	coupons  couponResolver
	sessions sessionStore
	rates    pricing.Rates
}

func NewService(products productReader, coupons couponResolver, sessions sessionStore, rates pricing.Rates) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon resolver required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &service{
		products: products,
		coupons:  coupons,
		sessions: sessions,
		rates:    rates,
	}, nil
}

// Add puts qty units of the product in the cart, merging with an existing
// line. The resulting quantity never exceeds stock.
func (s *service) Add(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != enums.ProductStatusActive || product.Stock <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available").
			WithDetails(map[string]any{"product_id": productID})
	}
	if qty < 1 {
		qty = 1
	}

	state, err := s.sessions.Update(ctx, sessionID, func(state *session.State) error {
		next := qty
		if line, ok := state.Line(productID); ok {
			next += line.Quantity
		}
		if next > product.Stock {
			next = product.Stock
		}
		state.SetQuantity(productID, next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.render(ctx, state)
}

// UpdateQuantity sets the quantity of an existing line. Zero or less removes
// it; products not already in the cart are ignored.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error) {
	if qty < 0 {
		qty = 0
	}
	state, err := s.sessions.Update(ctx, sessionID, func(state *session.State) error {
		if _, ok := state.Line(productID); !ok {
			return nil
		}
		state.SetQuantity(productID, qty)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.render(ctx, state)
}

func (s *service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(state *session.State) error {
		state.RemoveLine(productID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.render(ctx, state)
}

func (s *service) View(ctx context.Context, sessionID string) (*View, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, state)
}

func (s *service) Count(ctx context.Context, sessionID string) (int, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return state.ItemCount(), nil
}

func (s *service) Quote(ctx context.Context, state session.State) (*Quote, error) {
	ids := make([]uuid.UUID, 0, len(state.Cart))
	lines := make([]pricing.Line, 0, len(state.Cart))
	for _, line := range state.Cart {
		ids = append(ids, line.ProductID)
		lines = append(lines, pricing.Line{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	resolved, err := s.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	coupon, err := s.coupons.Resolve(ctx, state.CouponCode)
	if err != nil {
		return nil, err
	}

	return &Quote{
		Totals: pricing.Price(lines, resolved, coupon, s.rates),
		Coupon: coupon,
	}, nil
}

func (s *service) render(ctx context.Context, state session.State) (*View, error) {
	quote, err := s.Quote(ctx, state)
	if err != nil {
		return nil, err
	}
	return NewView(state, quote, s.rates), nil
}
