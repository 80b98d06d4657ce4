package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestReviewSyncMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewReviewSyncMetrics(reg)
	op := "submit"
	metrics.ObserveDuration(op, 250*time.Millisecond)
	metrics.IncSuccess(op)
	metrics.IncFailure(op)
	metrics.IncRollback(op)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "review_sync_success", "op", op); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "review_sync_failure", "op", op); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "review_sync_rollbacks", "op", op); err != nil {
		t.Fatalf("fetch rollbacks: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rollbacks=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "review_sync_duration_seconds", "op", op); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestOrderMetricsExportsSubmittedAndItems(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOrderMetrics(reg)
	metrics.IncSubmitted("Friday")
	metrics.IncSubmitted("Friday")
	metrics.ObserveLineItems(3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "orders_submitted", "delivery_day", "Friday"); err != nil {
		t.Fatalf("fetch submitted: %v", err)
	} else if got != 2 {
		t.Fatalf("expected submitted=2, got %f", got)
	}

	mf := findMetricFamily(mfs, "order_line_items")
	if mf == nil {
		t.Fatal("order_line_items metric not found")
	}
	if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum != 3 {
		t.Fatalf("expected line item sum 3, got %f", sum)
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var rs *ReviewSyncMetrics
	rs.ObserveDuration("submit", time.Second)
	rs.IncSuccess("submit")
	rs.IncFailure("submit")
	rs.IncRollback("submit")

	var om *OrderMetrics
	om.IncSubmitted("Friday")
	om.ObserveLineItems(1)
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

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
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
