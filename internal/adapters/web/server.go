package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const shutdownTimeout = 5 * time.Second

// Server is the web form and JSON API frontend
type Server struct {
	service *core.DetectorService
	metrics *metrics.Metrics
	logger  *zap.Logger
	cfg     config.ServerConfig
	router  chi.Router
	server  *http.Server
}

// NewServer creates a new web frontend
func NewServer(service *core.DetectorService, m *metrics.Metrics, logger *zap.Logger, cfg config.ServerConfig) *Server {
	s := &Server{
		service: service,
		metrics: m,
		logger:  logger,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.limitBody)

		r.Get("/", s.handleIndex)
		r.Post("/predict", s.handlePredict)
		r.Post("/check_email", s.handleCheckEmail)

		r.Post("/api/v1/classify/url", s.handleAPIClassifyURL)
		r.Post("/api/v1/classify/email", s.handleAPIClassifyEmail)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the HTTP listener in the background
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.ListenAddress,
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	ln, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}

	s.logger.Info("Web frontend started", zap.String("address", ln.Addr().String()))

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the HTTP listener down
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// requestLogger logs the outcome of each request. Bodies are never logged.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.MaxInputSize > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxInputSize)
		}
		next.ServeHTTP(w, r)
	})
}

// --- HTML handlers ---

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", struct{ ClassifierAvailable bool }{s.service.ClassifierAvailable()})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	url, ok := s.formValue(w, r, "url")
	if !ok {
		return
	}
	s.render(w, "result.html", s.service.ClassifyURL(url))
}

func (s *Server) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	body, ok := s.formValue(w, r, "email_text")
	if !ok {
		return
	}
	s.render(w, "result.html", s.service.ClassifyEmail(body))
}

// formValue reads a required form field, writing the error response if it
// cannot.
func (s *Server) formValue(w http.ResponseWriter, r *http.Request, field string) (string, bool) {
	var err error
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(s.cfg.MaxInputSize)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		s.writeBodyError(w, err, false)
		return "", false
	}

	values, ok := r.PostForm[field]
	if !ok || len(values) == 0 {
		http.Error(w, fmt.Sprintf("missing form field: %s", field), http.StatusBadRequest)
		return "", false
	}
	return values[0], true
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("Failed to render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// --- JSON handlers ---

type classifyURLRequest struct {
	URL *string `json:"url"`
}

type classifyEmailRequest struct {
	EmailText *string `json:"email_text"`
}

type classifyResponse struct {
	*core.ClassificationResult
	ClassifierAvailable bool `json:"classifier_available"`
}

func (s *Server) handleAPIClassifyURL(w http.ResponseWriter, r *http.Request) {
	var req classifyURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBodyError(w, err, true)
		return
	}
	if req.URL == nil {
		writeError(w, http.StatusBadRequest, "missing field: url")
		return
	}

	writeJSON(w, http.StatusOK, classifyResponse{
		ClassificationResult: s.service.ClassifyURL(*req.URL),
		ClassifierAvailable:  s.service.ClassifierAvailable(),
	})
}

func (s *Server) handleAPIClassifyEmail(w http.ResponseWriter, r *http.Request) {
	var req classifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBodyError(w, err, true)
		return
	}
	if req.EmailText == nil {
		writeError(w, http.StatusBadRequest, "missing field: email_text")
		return
	}

	writeJSON(w, http.StatusOK, classifyResponse{
		ClassificationResult: s.service.ClassifyEmail(*req.EmailText),
		ClassifierAvailable:  s.service.ClassifierAvailable(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":               "ok",
		"classifier_available": s.service.ClassifierAvailable(),
	})
}

// writeBodyError maps a request body failure to 413 or 400
func (s *Server) writeBodyError(w http.ResponseWriter, err error, asJSON bool) {
	status, msg := http.StatusBadRequest, "invalid request body"

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status, msg = http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
	}

	s.logger.Warn("Rejected request body", zap.Int("status", status), zap.Error(err))

	if asJSON {
		writeError(w, status, msg)
		return
	}
	http.Error(w, msg, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
