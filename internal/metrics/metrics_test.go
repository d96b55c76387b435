package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveClassification(t *testing.T) {
	m := New()

	m.ObserveClassification("url", "Phishing")
	m.ObserveClassification("url", "Phishing")
	m.ObserveClassification("email", "Legitimate")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.classifications.WithLabelValues("url", "Phishing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classifications.WithLabelValues("email", "Legitimate")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.classifications.WithLabelValues("email", "Phishing")))
}

func TestSetClassifierAvailable(t *testing.T) {
	m := New()

	m.SetClassifierAvailable(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classifierAvailable))

	m.SetClassifierAvailable(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.classifierAvailable))
}

func TestRegistryGathers(t *testing.T) {
	m := New()
	m.ObserveClassification("email", "Unable to Analyze")

	families, err := m.Registry().Gather()
	assert.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["phish_detector_classifications_total"])
	assert.True(t, names["phish_detector_classifier_available"])
	assert.True(t, names["go_goroutines"])
}
