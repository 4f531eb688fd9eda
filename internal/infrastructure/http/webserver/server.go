// Package webserver provides the web frontend HTTP server implementation
package webserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/recipeverse/web/internal/infrastructure/config"
	"github.com/recipeverse/web/internal/infrastructure/monitoring"
	"github.com/recipeverse/web/internal/infrastructure/render"
	"github.com/recipeverse/web/internal/ports/outbound"
	"github.com/recipeverse/web/pkg/healthcheck"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// readinessCacheTTL bounds how often /ready probes the backend
const readinessCacheTTL = 2 * time.Second

type contextKey string

const sessionContextKey contextKey = "session"

// WebServer represents the web frontend HTTP server
type WebServer struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   *chi.Mux
	sessions *SessionStore
	backend  outbound.GenerationBackend
	renderer *render.RecipeRenderer
	metrics  *monitoring.MetricsCollector
	health   *healthcheck.HealthCheck
}

// NewWebServer creates a new web frontend server instance. metrics may be nil.
func NewWebServer(
	cfg *config.Config,
	log *zap.Logger,
	sessions *SessionStore,
	backend outbound.GenerationBackend,
	renderer *render.RecipeRenderer,
	metrics *monitoring.MetricsCollector,
) *WebServer {
	s := &WebServer{
		config:   cfg,
		logger:   log.Named("webserver"),
		sessions: sessions,
		backend:  backend,
		renderer: renderer,
		metrics:  metrics,
		health:   newHealthCheck(cfg, log, sessions, backend),
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      otelhttp.NewHandler(s.router, "recipeverse-web"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// setupRoutes configures the web frontend routes
func (s *WebServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.securityHeadersMiddleware)
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
	}

	r.Get("/health", s.health.LivenessHandler())
	r.Get("/ready", s.health.ReadinessHandler())
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Handle(s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Route("/api/cook", func(r chi.Router) {
			r.Get("/", s.handleState)
			r.Get("/options", s.handleOptions)
			r.Post("/ingredients/toggle", s.handleToggleIngredient)
			r.Post("/ingredients", s.handleAddCustomIngredient)
			r.Post("/dietary/toggle", s.handleToggleDietary)
			r.Put("/spice", s.handleSetSpice)
			r.Put("/portions", s.handleSetPortions)
			r.Put("/cuisine", s.handleSetCuisine)
			r.Post("/reset", s.handleReset)
			r.Post("/generate", s.handleGenerate)
			r.Post("/credits/refresh", s.handleRefreshCredits)
		})
		r.Post("/api/subscribe", s.handleSubscribe)
	})

	return r
}

func newHealthCheck(cfg *config.Config, log *zap.Logger, sessions *SessionStore, backend outbound.GenerationBackend) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log.Named("healthcheck"))
	hc.SetCacheTTL(readinessCacheTTL)
	hc.Register("backend", healthcheck.NewPingChecker(backend))
	hc.Register("sessions", healthcheck.NewCustomChecker(func(context.Context) (healthcheck.Status, string, interface{}) {
		return healthcheck.StatusHealthy, "", map[string]int{"active": sessions.Len()}
	}))
	return hc
}

// Handler exposes the routed handler
func (s *WebServer) Handler() http.Handler {
	return s.router
}

// Start starts the web frontend HTTP server
func (s *WebServer) Start() error {
	s.logger.Info("Starting web server", zap.String("address", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the web server
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down web server...")
	s.sessions.Close()
	return s.server.Shutdown(ctx)
}

// Middleware

func (s *WebServer) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.sessions.Get(r)
		switch {
		case ok:
		case isReadOnly(r.Method):
			// reads see the default state without storing anything
			session = s.sessions.Transient()
		default:
			session = s.sessions.New()
			s.sessions.Save(w, session)
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *WebServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("trace_id", monitoring.TraceIDFromContext(r.Context())),
		)
	})
}

// securityHeadersMiddleware adds security headers to all responses
func (s *WebServer) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if s.config.IsProduction() {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func sessionFrom(r *http.Request) *Session {
	return r.Context().Value(sessionContextKey).(*Session)
}

// credentialFrom prefers the caller's bearer token and falls back to the
// backend session cookie.
func (s *WebServer) credentialFrom(r *http.Request) outbound.Credential {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok && strings.TrimSpace(token) != "" {
			return outbound.Credential{BearerToken: strings.TrimSpace(token)}
		}
	}
	if c, err := r.Cookie(s.config.Backend.SessionCookieName); err == nil && c.Value != "" {
		return outbound.Credential{SessionCookie: c.Value}
	}
	return outbound.Credential{}
}
