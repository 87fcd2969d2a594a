package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/pricing"
	"github.com/angelmondragon/storefront-backend/internal/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgdb "github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/outbox"
	"github.com/angelmondragon/storefront-backend/pkg/outbox/payloads"
)

// ErrEmptyCart is returned by every checkout operation when the session cart
// has no lines.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")

// ErrCouponUnavailable aborts placement when the coupon hit its cap after it
// was applied.
var ErrCouponUnavailable = pkgerrors.New(pkgerrors.CodeConflict, "coupon is no longer available")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionStore interface {
	Load(ctx context.Context, sessionID string) (session.State, error)
	Update(ctx context.Context, sessionID string, fn func(*session.State) error) (session.State, error)
}

type cartQuoter interface {
	Quote(ctx context.Context, state session.State) (*cart.Quote, error)
}

type couponRedeemer interface {
	RedeemTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type orderReader interface {
	Get(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error)
}

// Service drives the four-step checkout wizard and places orders.
type Service interface {
	View(ctx context.Context, sessionID string, step Step) (*View, error)
	SaveShipping(ctx context.Context, sessionID string, input ShippingInput) (Step, error)
	SavePayment(ctx context.Context, sessionID string, method string) (Step, error)
	PlaceOrder(ctx context.Context, sessionID, userID string) (*PlacedOrder, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error)
}

// PlacedOrder identifies the order created by PlaceOrder.
type PlacedOrder struct {
	OrderID uuid.UUID `json:"order_id"`
	Total   string    `json:"total"`
}

// ServiceParams groups the checkout dependencies.
type ServiceParams struct {
	Tx        txRunner
	Sessions  sessionStore
	Cart      cartQuoter
	Orders    orders.Repository
	OrderView orderReader
	Coupons   couponRedeemer
	Outbox    outboxPublisher
	Rates     pricing.Rates
	Config    config.CheckoutConfig
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger
}

type service struct {
	tx        txRunner
	sessions  sessionStore
	cart      cartQuoter
	orders    orders.Repository
	orderView orderReader
	coupons   couponRedeemer
	outbox    outboxPublisher
	rates     pricing.Rates
	cfg       config.CheckoutConfig
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the checkout service.
func NewService(p ServiceParams) (Service, error) {
	if p.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if p.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if p.Cart == nil {
		return nil, fmt.Errorf("cart quoter required")
	}
	if p.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if p.OrderView == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if p.Coupons == nil {
		return nil, fmt.Errorf("coupon redeemer required")
	}
	if p.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:        p.Tx,
		sessions:  p.Sessions,
		cart:      p.Cart,
		orders:    p.Orders,
		orderView: p.OrderView,
		coupons:   p.Coupons,
		outbox:    p.Outbox,
		rates:     p.Rates,
		cfg:       p.Config,
		metrics:   p.Metrics,
		logg:      p.Logger,
		now:       time.Now,
	}, nil
}

func (s *service) View(ctx context.Context, sessionID string, step Step) (*View, error) {
	step = ClampStepInt(int(step))
	state, quote, err := s.requireCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncStepView(step.String())
	return newView(step, state, quote, s.rates), nil
}

func (s *service) SaveShipping(ctx context.Context, sessionID string, input ShippingInput) (Step, error) {
	if _, _, err := s.requireCart(ctx, sessionID); err != nil {
		return StepShipping, err
	}
	addr, err := normalizeShipping(input, s.cfg.MaxFieldLength, s.cfg.DefaultCountry)
	if err != nil {
		return StepShipping, err
	}
	if _, err := s.sessions.Update(ctx, sessionID, func(state *session.State) error {
		if state.CartEmpty() {
			return ErrEmptyCart
		}
		state.Draft.Shipping = addr
		return nil
	}); err != nil {
		return StepShipping, err
	}
	return StepPayment, nil
}

func (s *service) SavePayment(ctx context.Context, sessionID string, raw string) (Step, error) {
	if _, _, err := s.requireCart(ctx, sessionID); err != nil {
		return StepPayment, err
	}
	method, err := parsePaymentMethod(raw)
	if err != nil {
		return StepPayment, err
	}
	if _, err := s.sessions.Update(ctx, sessionID, func(state *session.State) error {
		if state.CartEmpty() {
			return ErrEmptyCart
		}
		state.Draft.PaymentMethod = method
		return nil
	}); err != nil {
		return StepPayment, err
	}
	return StepReviewOrder, nil
}

// PlaceOrder snapshots the freshly priced cart into an order. The order, the
// coupon redemption and the outbox events commit together; the session is
// reset only after the commit.
func (s *service) PlaceOrder(ctx context.Context, sessionID, userID string) (*PlacedOrder, error) {
	state, quote, err := s.requireCart(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			s.metrics.IncPlacementFailure("empty_cart")
		} else {
			s.metrics.IncPlacementFailure("pricing")
		}
		return nil, err
	}

	order := buildOrder(sessionID, userID, state, quote)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Append(ctx, order); err != nil {
			if pkgdb.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order already placed")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store order")
		}
		if quote.Coupon != nil && quote.Totals.CouponApplied {
			ok, err := s.coupons.RedeemTx(ctx, tx, quote.Coupon.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem coupon")
			}
			if !ok {
				return ErrCouponUnavailable
			}
			if err := s.outbox.Emit(ctx, tx, couponRedeemedEvent(order, quote.Coupon, sessionID)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit coupon_redeemed")
			}
		}
		if err := s.outbox.Emit(ctx, tx, orderPlacedEvent(order, sessionID)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order_placed")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCouponUnavailable) {
			s.metrics.IncPlacementFailure("coupon_exhausted")
			s.dropCoupon(ctx, sessionID)
		} else {
			s.metrics.IncPlacementFailure("store")
		}
		return nil, err
	}

	s.metrics.ObserveOrder(string(order.PaymentMethod), order.Total.InexactFloat64())
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(s.logg.WithSessionID(ctx, sessionID), order.ID.String())
		s.logg.Info(logCtx, "order placed")
	}

	if _, err := s.sessions.Update(ctx, sessionID, func(state *session.State) error {
		state.ResetCheckout()
		return nil
	}); err != nil && s.logg != nil {
		// order already committed, log only
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "reset session after order", err)
	}

	return &PlacedOrder{OrderID: order.ID, Total: pricing.Money(order.Total)}, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	return s.orderView.Get(ctx, id)
}

// requireCart loads and prices the session cart. A cart with no lines, or
// whose lines no longer resolve to products, is ErrEmptyCart.
func (s *service) requireCart(ctx context.Context, sessionID string) (session.State, *cart.Quote, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return session.State{}, nil, err
	}
	if state.CartEmpty() {
		return session.State{}, nil, ErrEmptyCart
	}
	quote, err := s.cart.Quote(ctx, state)
	if err != nil {
		return session.State{}, nil, err
	}
	if len(quote.Totals.Lines) == 0 {
		return session.State{}, nil, ErrEmptyCart
	}
	return state, quote, nil
}

func (s *service) dropCoupon(ctx context.Context, sessionID string) {
	_, err := s.sessions.Update(ctx, sessionID, func(state *session.State) error {
		state.CouponCode = ""
		return nil
	})
	if err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "drop exhausted coupon", err)
	}
}

func buildOrder(sessionID, userID string, state session.State, quote *cart.Quote) *models.Order {
	totals := quote.Totals
	if userID == "" {
		userID = models.GuestUserID
	}
	method := state.Draft.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodPending
	}
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		SessionID:     sessionID,
		Subtotal:      totals.Subtotal,
		Shipping:      totals.Shipping,
		Discount:      totals.Discount,
		Tax:           totals.Tax,
		Total:         totals.Total,
		Status:        enums.OrderStatusPending,
		PaymentMethod: method,
		PaymentStatus: enums.PaymentStatusPending,
		Items:         make([]models.OrderLineItem, 0, len(totals.Lines)),
	}
	if state.Draft.Shipping != nil {
		order.ShippingAddress = *state.Draft.Shipping
	}
	if quote.Coupon != nil && totals.CouponApplied {
		code := quote.Coupon.Code
		order.CouponCode = &code
	}
	for i, line := range totals.Lines {
		order.Items = append(order.Items, models.OrderLineItem{
			ProductID: line.Product.ID,
			Title:     line.Product.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
			Position:  i,
		})
	}
	return order
}

func orderPlacedEvent(order *models.Order, sessionID string) outbox.DomainEvent {
	data := payloads.OrderPlacedEvent{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Items:         make([]payloads.OrderPlacedItem, 0, len(order.Items)),
		Subtotal:      pricing.Money(order.Subtotal),
		Shipping:      pricing.Money(order.Shipping),
		Discount:      pricing.Money(order.Discount),
		Tax:           pricing.Money(order.Tax),
		Total:         pricing.Money(order.Total),
		PaymentMethod: string(order.PaymentMethod),
		Email:         order.ShippingAddress.Email,
		PlacedAt:      order.CreatedAt,
	}
	if order.CouponCode != nil {
		data.CouponCode = *order.CouponCode
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, payloads.OrderPlacedItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: pricing.Money(item.UnitPrice),
		})
	}
	return outbox.DomainEvent{
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         &outbox.ActorRef{UserID: order.UserID, SessionID: sessionID},
		Data:          data,
	}
}

func couponRedeemedEvent(order *models.Order, coupon *models.Coupon, sessionID string) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.EventCouponRedeemed,
		AggregateType: enums.AggregateCoupon,
		AggregateID:   coupon.ID,
		Actor:         &outbox.ActorRef{UserID: order.UserID, SessionID: sessionID},
		Data: payloads.CouponRedeemedEvent{
			CouponID: coupon.ID,
			Code:     coupon.Code,
			OrderID:  order.ID,
			Uses:     coupon.Uses + 1,
			MaxUses:  coupon.MaxUses,
		},
	}
}
