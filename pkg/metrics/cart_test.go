package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCartMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	cart := NewCartMetrics(reg)

	cart.IncMutation("add")
	cart.IncMutation("add")
	cart.IncMutation("clear")
	cart.ObserveCheckoutSize(4)
	cart.IncCheckout("completed")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_mutations_total", "op", "add"); err != nil {
		t.Fatalf("fetch add mutations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected add=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkouts_total", "outcome", "completed"); err != nil {
		t.Fatalf("fetch checkouts: %v", err)
	} else if got != 1 {
		t.Fatalf("expected completed=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "cart_items_at_checkout")
	if mf == nil {
		t.Fatal("cart_items_at_checkout not exported")
	}
	if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum != 4 {
		t.Fatalf("expected histogram sum 4, got %f", sum)
	}
}

func TestHTTPMetricsExportsRequestSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpm := NewHTTPMetrics(reg)

	httpm.IncInFlight()
	httpm.ObserveRequest("GET", "/api/v1/products", "200", 120*time.Millisecond)
	httpm.DecInFlight()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	mf := findMetricFamily(mfs, "http_requests_total")
	if mf == nil {
		t.Fatal("http_requests_total not exported")
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 request, got %f", got)
	}

	mf = findMetricFamily(mfs, "http_requests_in_flight")
	if mf == nil {
		t.Fatal("http_requests_in_flight not exported")
	}
	if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 0 {
		t.Fatalf("expected gauge back to 0, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	cart := NewCartMetrics(nil)
	cart.IncMutation("add")
	cart.ObserveCheckoutSize(1)

	httpm := NewHTTPMetrics(nil)
	httpm.ObserveRequest("GET", "/", "200", time.Millisecond)
	httpm.IncInFlight()
	httpm.DecInFlight()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
