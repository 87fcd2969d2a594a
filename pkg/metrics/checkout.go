package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics tracks order placement and coupon outcomes.
type CheckoutMetrics struct {
	ordersPlaced     *prometheus.CounterVec
	orderTotal       prometheus.Histogram
	couponsApplied   *prometheus.CounterVec
	couponsRejected  *prometheus.CounterVec
	placementFailure *prometheus.CounterVec
	stepViews        *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Orders committed by the checkout flow.",
	}, []string{"payment_method"})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_order_total_amount",
		Help:    "Grand total of placed orders in store currency.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000},
	})
	couponsApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_coupons_applied_total",
		Help: "Coupons attached to a session.",
	}, []string{"type"})
	couponsRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_coupons_rejected_total",
		Help: "Coupon attempts that did not validate.",
	}, []string{"reason"})
	placementFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_placement_failures_total",
		Help: "Place-order attempts that did not commit.",
	}, []string{"reason"})
	stepViews := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_step_views_total",
		Help: "Checkout step renders by step name.",
	}, []string{"step"})
	reg.MustRegister(ordersPlaced, orderTotal, couponsApplied, couponsRejected, placementFailure, stepViews)
	return &CheckoutMetrics{
		ordersPlaced:     ordersPlaced,
		orderTotal:       orderTotal,
		couponsApplied:   couponsApplied,
		couponsRejected:  couponsRejected,
		placementFailure: placementFailure,
		stepViews:        stepViews,
	}
}

// ObserveOrder counts a placed order and records its total.
func (c *CheckoutMetrics) ObserveOrder(paymentMethod string, total float64) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
	c.orderTotal.Observe(total)
}

func (c *CheckoutMetrics) IncPlacementFailure(reason string) {
	if c == nil || c.placementFailure == nil {
		return
	}
	c.placementFailure.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (c *CheckoutMetrics) IncCouponApplied(couponType string) {
	if c == nil || c.couponsApplied == nil {
		return
	}
	c.couponsApplied.WithLabelValues(normalizeLabel(couponType)).Inc()
}

func (c *CheckoutMetrics) IncCouponRejected(reason string) {
	if c == nil || c.couponsRejected == nil {
		return
	}
	c.couponsRejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncStepView counts a checkout step being shown.
func (c *CheckoutMetrics) IncStepView(step string) {
	if c == nil || c.stepViews == nil {
		return
	}
	c.stepViews.WithLabelValues(normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
