package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/metrics"
)

type stubClassifier struct {
	class int
	proba []float64
}

func (c stubClassifier) Predict(core.FeatureVector) int { return c.class }
func (c stubClassifier) PredictProba(core.FeatureVector) []float64 { return c.proba }

func newTestServer(t *testing.T, handle core.ClassifierHandle, maxInput int64) *Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	m := metrics.New()

	cfg := config.ServerConfig{
		Frontend:      "web",
		ListenAddress: "127.0.0.1:0",
		ReadTimeout:   time.Second,
		WriteTimeout:  time.Second,
		MaxInputSize:  maxInput,
	}
	return NewServer(core.NewDetectorService(handle, m, logger), m, logger, cfg)
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Index(t *testing.T) {
	s := newTestServer(t, core.Unavailable(), 1<<20)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/predict"`)
	assert.Contains(t, rec.Body.String(), `action="/check_email"`)
	assert.Contains(t, rec.Body.String(), "No trained model is loaded")
}

func TestServer_PredictWithoutModel(t *testing.T) {
	s := newTestServer(t, core.Unavailable(), 1<<20)

	rec := postForm(t, s, "/predict", url.Values{"url": {"https://google.com"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Unable to Analyze")
	assert.Contains(t, body, "N/A")
	assert.Contains(t, body, "Length: 18, HTTPS: Yes, &#39;@&#39; present: No, Dots: 1")
}

func TestServer_PredictWithModel(t *testing.T) {
	s := newTestServer(t, core.Available(stubClassifier{class: 1, proba: []float64{0.13, 0.87}}), 1<<20)

	rec := postForm(t, s, "/predict", url.Values{"url": {"http://paypal-secure-login.example.com"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Phishing")
	assert.Contains(t, rec.Body.String(), "87.0")
}

func TestServer_CheckEmail(t *testing.T) {
	s := newTestServer(t, core.Unavailable(), 1<<20)

	rec := postForm(t, s, "/check_email", url.Values{"email_text": {"  Please verify your account now  "}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please verify your account now")
	assert.Contains(t, body, "Phishing")
	assert.Contains(t, body, "95.0")
	assert.Contains(t, body, "Strong suspicious words: verify")
}

func TestServer_CheckEmptyEmail(t *testing.T) {
	s := newTestServer(t, core.Unavailable(), 1<<20)

	rec := postForm(t, s, "/check_email", url.Values{"email_text": {"   "}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Empty email content.")
	assert.Contains(t, rec.Body.String(), "No text provided.")
}

func TestServer_MissingFormField(t *testing.T) {
	s := newTestServer(t, core.Unavailable(), 1<<20)

	tests := []struct {
		path string
		form url.Values
	}{
		{"/predict", url.Values{"email_text": {"x"}}},
		{"/check_email", url.Values{"url": {"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := postForm(t, s, tt.path, tt.form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestServer_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, core.Unavailable(), 64)
	big := strings.Repeat("a", 200)

	rec := postForm(t, s, "/check_email", url.Values{"email_text": {big}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = postJSON(t, s, "/api/v1/classify/email", `{"email_text":"`+big+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_APIClassifyURL(t *testing.T) {
	s := newTestServer(t, core.Available(stubClassifier{class: 0, proba: []float64{0.98, 0.02}}), 1<<20)

	rec := postJSON(t, s, "/api/v1/classify/url", `{"url":"https://google.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Legitimate", resp["label"])
	assert.Equal(t, 98.0, resp["confidence"])
	assert.Equal(t, "url", resp["input_type"])
	assert.Equal(t, true, resp["classifier_available"])
	assert.NotEmpty(t, resp["request_id"])
}

func TestServer_APIClassifyEmail(t *testing.T) {
	s := newTestServer(t, core.Unavailable(), 1<<20)

	rec := postJSON(t, s, "/api/v1/classify/email", `{"email_text":"Hello, lunch at noon?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Legitimate", resp["label"])
	assert.Equal(t, 98.0, resp["confidence"])
	assert.Equal(t, []any{"No URLs found in the email.", "No suspicious keywords found."}, resp["explanation"])
}

func TestServer_APIErrors(t *testing.T) {
	s := newTestServer(t, core.Unavailable(), 1<<20)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"invalid json", "/api/v1/classify/url", `{"url":`},
		{"missing url", "/api/v1/classify/url", `{}`},
		{"missing email_text", "/api/v1/classify/email", `{"url":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, s, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t, core.Unavailable(), 1<<20)

	postJSON(t, s, "/api/v1/classify/url", `{"url":"https://google.com"}`)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","classifier_available":false}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `phish_detector_classifications_total{input="url",label="Unable to Analyze"} 1`)
}

func TestServer_StartStop(t *testing.T) {
	s := newTestServer(t, core.Unavailable(), 1<<20)

	require.NoError(t, s.Start())
	assert.NoError(t, s.Stop())
}
