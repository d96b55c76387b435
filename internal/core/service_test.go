package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordedVerdict struct {
	input string
	label string
}

type fakeRecorder struct {
	verdicts []recordedVerdict
}

func (r *fakeRecorder) ObserveClassification(input, label string) {
	r.verdicts = append(r.verdicts, recordedVerdict{input, label})
}

func newObservedService(handle ClassifierHandle, recorder Recorder) (*DetectorService, *observer.ObservedLogs) {
	observed, logs := observer.New(zap.InfoLevel)
	svc := NewDetectorService(handle, recorder, zap.New(observed))
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, logs
}

func TestDetectorService_WarnsWithoutClassifier(t *testing.T) {
	svc, logs := newObservedService(Unavailable(), nil)

	assert.False(t, svc.ClassifierAvailable())
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestDetectorService_ClassifyURL(t *testing.T) {
	rec := &fakeRecorder{}
	svc, logs := newObservedService(Available(&fakeClassifier{class: 1, proba: []float64{0.1, 0.9}}), rec)

	result := svc.ClassifyURL("http://secure-login.example.com")

	assert.Equal(t, LabelPhishing, result.Label)
	assert.NotEmpty(t, result.RequestID)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), result.AnalyzedAt)
	assert.Equal(t, []recordedVerdict{{"url", "Phishing"}}, rec.verdicts)

	entries := logs.FilterMessage("Classified input").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, result.RequestID, fields["request_id"])
	assert.Equal(t, "Phishing", fields["label"])
	assert.Equal(t, true, fields["model_used"])
	for _, v := range fields {
		assert.NotEqual(t, "http://secure-login.example.com", v, "inputs must not be logged")
	}
}

func TestDetectorService_ClassifyEmail(t *testing.T) {
	rec := &fakeRecorder{}
	svc, logs := newObservedService(Unavailable(), rec)

	result := svc.ClassifyEmail("Urgent: confirm your details")

	assert.Equal(t, LabelPhishing, result.Label)
	assert.Equal(t, []recordedVerdict{{"email", "Phishing"}}, rec.verdicts)

	entries := logs.FilterMessage("Classified input").All()
	require.Len(t, entries, 1)
	assert.Equal(t, false, entries[0].ContextMap()["model_used"])
}

func TestDetectorService_UniqueRequestIDs(t *testing.T) {
	svc, _ := newObservedService(Unavailable(), nil)

	a := svc.ClassifyURL("https://example.com")
	b := svc.ClassifyURL("https://example.com")

	assert.NotEqual(t, a.RequestID, b.RequestID)
	assert.Equal(t, a.Label, b.Label)
	assert.Equal(t, a.Explanation, b.Explanation)
}
