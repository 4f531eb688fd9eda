// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"errors"
	"net/http"

	"github.com/recipeverse/web/internal/application/cook"
	"github.com/recipeverse/web/internal/infrastructure/backend"
	"github.com/recipeverse/web/internal/infrastructure/config"
	"github.com/recipeverse/web/internal/infrastructure/http/webserver"
	"github.com/recipeverse/web/internal/infrastructure/monitoring"
	"github.com/recipeverse/web/internal/infrastructure/render"
	"github.com/recipeverse/web/internal/ports/inbound"
	"github.com/recipeverse/web/internal/ports/outbound"
	"github.com/recipeverse/web/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConfigPath is the optional configuration file; empty searches the default locations
type ConfigPath string

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	BackendModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	func(log *zap.Logger) *monitoring.MetricsCollector {
		return monitoring.NewMetricsCollector(nil, log)
	},
	func(cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		return monitoring.NewTracingProvider(monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
	},
)

// BackendModule provides the external backend client. The tracing provider
// is requested so the global tracer is installed before the transport is built.
var BackendModule = fx.Provide(
	func(cfg *config.Config, _ *monitoring.TracingProvider, log *zap.Logger) outbound.GenerationBackend {
		return backend.NewAPIClient(cfg.Backend, nil, log)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(b outbound.GenerationBackend, m *monitoring.MetricsCollector, log *zap.Logger) *cook.Service {
		return cook.NewService(b, m, log)
	},
	func(svc *cook.Service) inbound.CookSessionFactory {
		return svc
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	render.NewRecipeRenderer,
	func(cfg *config.Config, factory inbound.CookSessionFactory, log *zap.Logger) *webserver.SessionStore {
		return webserver.NewSessionStore(cfg.Server, factory, log)
	},
	webserver.NewWebServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	server *webserver.WebServer,
	tracing *monitoring.TracingProvider,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting RecipeVerse web",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("backend", cfg.Backend.BaseURL),
			)

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped unexpectedly", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down RecipeVerse web")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			if err := tracing.Shutdown(ctx); err != nil {
				log.Error("Failed to flush traces", zap.Error(err))
			}

			_ = log.Sync()

			return nil
		},
	})
}
