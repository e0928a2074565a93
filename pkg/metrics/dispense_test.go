package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestDispenseMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDispenseMetrics(reg)

	m.ObserveDispensed(map[string]int{"1": 3, "2": 1})
	m.ObserveDispensed(map[string]int{"1": 2})
	m.IncRejected("INSUFFICIENT_STOCK")
	m.IncRejected("")
	m.ObserveDuration(150 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := findMetricFamily(mfs, "lnmedico_prescriptions_dispensed_total"); got == nil {
		t.Fatal("prescription counter missing")
	} else if v := got.GetMetric()[0].GetCounter().GetValue(); v != 2 {
		t.Fatalf("expected 2 prescriptions, got %f", v)
	}

	if got, err := fetchCounterValue(mfs, "lnmedico_units_dispensed_total", "medicine_id", "1"); err != nil {
		t.Fatalf("fetch units: %v", err)
	} else if got != 5 {
		t.Fatalf("expected 5 units of medicine 1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "lnmedico_prescriptions_rejected_total", "reason", "INSUFFICIENT_STOCK"); err != nil {
		t.Fatalf("fetch rejections: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 rejection, got %f", got)
	}
	if _, err := fetchCounterValue(mfs, "lnmedico_prescriptions_rejected_total", "reason", "unknown"); err != nil {
		t.Fatalf("blank reason should be labelled unknown: %v", err)
	}

	hist := findMetricFamily(mfs, "lnmedico_dispense_duration_seconds")
	if hist == nil || hist.GetMetric()[0].GetHistogram().GetSampleSum() <= 0 {
		t.Fatal("expected duration samples")
	}
}

func TestObserveDispensedSkipsNonPositiveQuantities(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDispenseMetrics(reg)

	m.ObserveDispensed(map[string]int{"1": 2, "2": -5, "3": 0})

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "lnmedico_units_dispensed_total", "medicine_id", "1"); err != nil || got != 2 {
		t.Fatalf("expected 2 units of medicine 1, got %f (%v)", got, err)
	}
	if _, err := fetchCounterValue(mfs, "lnmedico_units_dispensed_total", "medicine_id", "2"); err == nil {
		t.Fatal("negative quantity should not be recorded")
	}
}

func TestNilDispenseMetricsIsNoop(t *testing.T) {
	var m *DispenseMetrics
	m.ObserveDispensed(map[string]int{"1": 1})
	m.IncRejected("x")
	m.ObserveDuration(time.Second)

	unregistered := NewDispenseMetrics(nil)
	unregistered.ObserveDispensed(map[string]int{"1": 1})
	unregistered.IncRejected("x")
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
