package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics tracks cart ledger mutations and checkout conversions.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	items     prometheus.Histogram
	checkouts *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart ledger mutations, partitioned by operation.",
	}, []string{"op"})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_items_at_checkout",
		Help:    "Number of units in the cart when checkout starts.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
	})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout attempts, partitioned by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(mutations, items, checkouts)
	return &CartMetrics{
		mutations: mutations,
		items:     items,
		checkouts: checkouts,
	}
}

// IncMutation counts one cart mutation (add, update, remove, clear, reset).
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveCheckoutSize records the unit count of a cart entering checkout.
func (c *CartMetrics) ObserveCheckoutSize(units int) {
	if c == nil || c.items == nil {
		return
	}
	c.items.Observe(float64(units))
}

// IncCheckout counts one checkout attempt by outcome (completed, rejected, failed).
func (c *CartMetrics) IncCheckout(outcome string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}
