package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispenseMetrics records prescription engine outcomes.
type DispenseMetrics struct {
	prescriptions prometheus.Counter
	units         *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	duration      prometheus.Histogram
}

// NewDispenseMetrics registers the dispensing metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewDispenseMetrics(reg prometheus.Registerer) *DispenseMetrics {
	if reg == nil {
		return &DispenseMetrics{}
	}
	prescriptions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lnmedico_prescriptions_dispensed_total",
		Help: "Prescriptions committed by the dispensing transaction.",
	})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lnmedico_units_dispensed_total",
		Help: "Medicine units deducted from stock.",
	}, []string{"medicine_id"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lnmedico_prescriptions_rejected_total",
		Help: "Prescription requests rejected before commit.",
	}, []string{"reason"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lnmedico_dispense_duration_seconds",
		Help:    "Duration of the dispensing transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(prescriptions, units, rejections, duration)
	return &DispenseMetrics{
		prescriptions: prescriptions,
		units:         units,
		rejections:    rejections,
		duration:      duration,
	}
}

// ObserveDispensed records one committed prescription and its units per medicine.
func (m *DispenseMetrics) ObserveDispensed(units map[string]int) {
	if m == nil || m.prescriptions == nil {
		return
	}
	m.prescriptions.Inc()
	for id, qty := range units {
		if qty <= 0 {
			continue
		}
		m.units.WithLabelValues(normalizeLabel(id)).Add(float64(qty))
	}
}

// IncRejected counts a rejected request under the given reason.
func (m *DispenseMetrics) IncRejected(reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveDuration records how long one transaction took.
func (m *DispenseMetrics) ObserveDuration(d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
