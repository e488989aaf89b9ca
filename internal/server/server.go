// Package server exposes the prediction service over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-bikerental/internal/config"
	"github.com/mrz1836/go-bikerental/internal/logging"
	"github.com/mrz1836/go-bikerental/internal/metrics"
	"github.com/mrz1836/go-bikerental/internal/predict"
)

// Routes
const (
	PredictPath = "/api/v1/predict"
	HealthPath  = "/api/v1/health"
	MetricsPath = "/metrics"
)

const (
	requestIDHeader = "X-Request-Id"
	shutdownTimeout = 10 * time.Second
)

// Server serves predictions, health and metrics
type Server struct {
	service      *predict.Service
	collector    *metrics.Collector
	throttle     *Throttle
	cfg          config.ServerConfig
	maxBodyBytes int64
	logger       *logrus.Entry
}

// New creates a server. collector may be nil, which disables /metrics.
func New(service *predict.Service, collector *metrics.Collector, cfg config.ServerConfig, logger logrus.FieldLogger, logConfig *logging.LogConfig) *Server {
	entry := logging.WithStandardFields(logger, logConfig, logging.ComponentNames.Server)
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = config.DefaultMaxBodyBytes
	}
	if collector != nil {
		collector.SetModelVersion(service.Version())
	}
	return &Server{
		service:      service,
		collector:    collector,
		throttle:     NewThrottle(cfg.RateLimit, cfg.RateBurst, entry),
		cfg:          cfg,
		maxBodyBytes: maxBody,
		logger:       entry,
	}
}

// Throttle returns the predict rate limiter, nil when disabled
func (s *Server) Throttle() *Throttle { return s.throttle }

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get(HealthPath, s.handleHealth)
	r.With(s.throttle.Middleware).Post(PredictPath, s.handlePredict)
	if s.collector != nil {
		r.Method(http.MethodGet, MetricsPath, s.collector.Handler())
	}
	return r
}

// observe logs every request and feeds the HTTP metrics, labeled by route pattern
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		if s.collector != nil {
			s.collector.ObserveHTTP(r.Method, route, ww.Status(), elapsed)
		}
		s.logger.WithFields(logrus.Fields{
			"method":                          r.Method,
			"path":                            route,
			"status_code":                     ww.Status(),
			logging.StandardFields.DurationMs: elapsed.Milliseconds(),
			logging.StandardFields.RequestID:  ww.Header().Get(requestIDHeader),
		}).Debug("Handled request")
	})
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr":                              ln.Addr().String(),
			logging.StandardFields.ModelVersion: s.service.Version(),
		}).Info("Prediction server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("Prediction server stopped")
	return nil
}
