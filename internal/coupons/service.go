package coupons

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

const (
	MessageApplied = "Coupon applied successfully!"
	MessageInvalid = "Invalid or expired coupon code."
)

// Service applies and removes the session coupon.
type Service interface {
	Apply(ctx context.Context, sessionID, code string) (*AppliedCoupon, error)
	Remove(ctx context.Context, sessionID string) error
	// Resolve returns the coupon behind code if it is still valid today.
	Resolve(ctx context.Context, code string) (*models.Coupon, error)
}

// AppliedCoupon is the confirmation returned after a successful apply.
type AppliedCoupon struct {
	Code    string           `json:"code"`
	Type    enums.CouponType `json:"type"`
	Value   string           `json:"value"`
	Message string           `json:"message"`
}

type couponLister interface {
	ListAll(ctx context.Context) ([]models.Coupon, error)
}

type sessionUpdater interface {
	Update(ctx context.Context, sessionID string, fn func(*session.State) error) (session.State, error)
}

type service struct {
	repo     couponLister
	sessions sessionUpdater
	limiter  redis.RateLimiter
	cfg      config.CheckoutConfig
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the coupon service. limiter may be nil to disable
// throttling.
func NewService(repo couponLister, sessions sessionUpdater, limiter redis.RateLimiter, cfg config.CheckoutConfig, m *metrics.CheckoutMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &service{
		repo:     repo,
		sessions: sessions,
		limiter:  limiter,
		cfg:      cfg,
		metrics:  m,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Apply(ctx context.Context, sessionID, code string) (*AppliedCoupon, error) {
	if err := s.throttle(ctx, sessionID); err != nil {
		return nil, err
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	today := s.now()
	coupon := FindValid(code, today, all)
	if coupon == nil {
		reason := RejectionReason(code, today, all)
		s.metrics.IncCouponRejected(reason)
		if s.logg != nil {
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{"session_id": sessionID, "reason": reason}), "coupon rejected")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MessageInvalid)
	}

	if _, err := s.sessions.Update(ctx, sessionID, func(state *session.State) error {
		state.CouponCode = coupon.Code
		return nil
	}); err != nil {
		return nil, err
	}
	s.metrics.IncCouponApplied(string(coupon.Type))

	return &AppliedCoupon{
		Code:    coupon.Code,
		Type:    coupon.Type,
		Value:   coupon.Value.StringFixed(2),
		Message: MessageApplied,
	}, nil
}

func (s *service) Remove(ctx context.Context, sessionID string) error {
	_, err := s.sessions.Update(ctx, sessionID, func(state *session.State) error {
		state.CouponCode = ""
		return nil
	})
	return err
}

func (s *service) Resolve(ctx context.Context, code string) (*models.Coupon, error) {
	if NormalizeCode(code) == "" {
		return nil, nil
	}
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return FindValid(code, s.now(), all), nil
}

func (s *service) throttle(ctx context.Context, sessionID string) error {
	if s.limiter == nil || s.cfg.CouponApplyLimit <= 0 {
		return nil
	}
	allowed, _, err := s.limiter.FixedWindowAllow(ctx, "coupon_apply:"+sessionID, s.cfg.CouponApplyLimit, s.cfg.CouponApplyWindow)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limit coupon apply")
	}
	if !allowed {
		s.metrics.IncCouponRejected("rate_limited")
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many coupon attempts, try again shortly")
	}
	return nil
}
