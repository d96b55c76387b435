package filter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

func TestCliFilter_CheckURL(t *testing.T) {
	var out bytes.Buffer
	logger := zap.NewNop()
	f := NewCliFilter(core.NewDetectorService(core.Unavailable(), nil, logger), logger, &out, false, false)

	result, err := f.CheckURL("https://google.com")
	require.NoError(t, err)

	assert.Equal(t, core.LabelUnableToAnalyze, result.Label)
	assert.Contains(t, out.String(), "Prediction: Unable to Analyze")
	assert.Contains(t, out.String(), "Confidence: N/A")
	assert.Contains(t, out.String(), "Details: Length: 18, HTTPS: Yes, '@' present: No, Dots: 1")
}

func TestCliFilter_CheckEmailJSON(t *testing.T) {
	var out bytes.Buffer
	logger := zap.NewNop()
	f := NewCliFilter(core.NewDetectorService(core.Unavailable(), nil, logger), logger, &out, false, true)

	_, err := f.CheckEmail("Please verify your account now")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "Phishing", decoded["label"])
	assert.Equal(t, 95.0, decoded["confidence"])
	assert.Equal(t, "email", decoded["input_type"])
}

func TestCliFilter_CheckMessage(t *testing.T) {
	logger := zap.NewNop()
	f := NewCliFilter(core.NewDetectorService(core.Unavailable(), nil, logger), logger, &bytes.Buffer{}, true, false)

	raw := []byte("From: a@example.com\r\n" +
		"Subject: Security alert from your bank\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<p>Your <b>bank</b> account needs an update</p>\r\n")

	result, err := f.CheckMessage(raw)
	require.NoError(t, err)

	// The subject is not part of the body, so only the weak words count.
	assert.Equal(t, core.LabelPhishing, result.Label)
	assert.Equal(t, "88.0", result.Confidence.String())
	assert.Equal(t, "Your bank account needs an update", result.Input)
}

func TestCliFilter_CheckMessageFallsBackToPlainText(t *testing.T) {
	logger := zap.NewNop()
	f := NewCliFilter(core.NewDetectorService(core.Unavailable(), nil, logger), logger, &bytes.Buffer{}, false, false)

	result, err := f.CheckMessage([]byte("no headers here, just a note"))
	require.NoError(t, err)
	assert.Equal(t, core.LabelLegitimate, result.Label)
	assert.Equal(t, "no headers here, just a note", result.Input)
}
