package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus collectors exported by the detector
type Metrics struct {
	registry            *prometheus.Registry
	classifications     *prometheus.CounterVec
	classifierAvailable prometheus.Gauge
}

// New creates the collectors on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phish_detector_classifications_total",
			Help: "Total number of classifications by input type and label",
		}, []string{"input", "label"}),
		classifierAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "phish_detector_classifier_available",
			Help: "1 if a trained classifier is loaded, 0 otherwise",
		}),
	}

	m.registry.MustRegister(
		m.classifications,
		m.classifierAvailable,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveClassification counts one verdict
func (m *Metrics) ObserveClassification(input, label string) {
	m.classifications.WithLabelValues(input, label).Inc()
}

// SetClassifierAvailable records whether the model is loaded
func (m *Metrics) SetClassifierAvailable(available bool) {
	if available {
		m.classifierAvailable.Set(1)
	} else {
		m.classifierAvailable.Set(0)
	}
}

// Registry returns the registry to expose over HTTP
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
