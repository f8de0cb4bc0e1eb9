package server

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strconv"
	"time"

	"release-tracker/internal/config"
	"release-tracker/internal/handlers"
	"release-tracker/internal/logger"
	"release-tracker/internal/metrics"
	"release-tracker/internal/ratelimit"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	apiKeyHeader    = "X-API-Key"
	rateLimitWindow = time.Minute
)

// Options carries the optional collaborators of the server.
type Options struct {
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Limiter  ratelimit.Limiter
	NewRelic *newrelic.Application
}

type Server struct {
	config  *config.Config
	handler *handlers.Handler
	router  *mux.Router
	opts    Options
	httpSrv *http.Server
	logger  *logrus.Entry
}

func NewServer(cfg *config.Config, handler *handlers.Handler, opts Options) *Server {
	s := &Server{
		config:  cfg,
		handler: handler,
		router:  mux.NewRouter(),
		opts:    opts,
		logger:  logger.WithModule("server"),
	}

	s.setupRoutes()
	s.httpSrv = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.DriftTimeout + 10*time.Second,
	}
	return s
}

// Router exposes the configured routes, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware, s.metricsMiddleware)

	s.router.HandleFunc(s.wrap("/health", s.handler.Health)).Methods("GET")
	s.router.HandleFunc(s.wrap("/releases", s.handler.ListReleases)).Methods("GET")
	s.router.HandleFunc(s.wrap("/drift", s.handler.Drift)).Methods("GET")

	if s.opts.Gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	// Protected routes with API key validation
	protectedRouter := s.router.PathPrefix("").Subrouter()
	protectedRouter.Use(s.authMiddleware, s.rateLimitMiddleware)
	protectedRouter.HandleFunc(s.wrap("/release", s.handler.CreateRelease)).Methods("POST")
}

func (s *Server) wrap(pattern string, h http.HandlerFunc) (string, func(http.ResponseWriter, *http.Request)) {
	if s.opts.NewRelic == nil {
		return pattern, h
	}
	return newrelic.WrapHandleFunc(s.opts.NewRelic, pattern, h)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(apiKeyHeader)
		s.logger.WithFields(logrus.Fields{
			"path":   r.URL.Path,
			"method": r.Method,
		}).Debug("Authenticating request")

		if apiKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.config.APIKey)) != 1 {
			s.logger.WithFields(logrus.Fields{
				"path":   r.URL.Path,
				"method": r.Method,
				"ip":     r.RemoteAddr,
			}).Warn("Invalid API key provided")
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		decision := s.opts.Limiter.Allow(r.Context(), "release:"+clientIP(r), s.config.ReleaseRateLimit, rateLimitWindow)
		if !decision.Allowed {
			retryAfter := int(time.Until(decision.WindowEnd).Seconds()) + 1
			s.opts.Metrics.ObserveRateLimited(r.URL.Path)
			s.logger.WithFields(logrus.Fields{
				"ip":    clientIP(r),
				"count": decision.Count,
			}).Warn("Rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.opts.Metrics.ObserveRequest(r.Method, route, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) Start() error {
	s.logger.WithField("port", s.config.Port).Info("Server starting")
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Server shutting down")
	return s.httpSrv.Shutdown(ctx)
}
