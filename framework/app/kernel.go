package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/km-arc/go-factory/framework/config"
	"github.com/km-arc/go-factory/framework/container"
	"github.com/km-arc/go-factory/framework/providers"
	"github.com/km-arc/go-factory/framework/routing"
)

const shutdownTimeout = 5 * time.Second

// Application is the top-level application. It embeds the Container and its
// ProviderRegistry so user code can declare factories and add providers on
// it directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	config    *providers.ConfigServiceProvider
	logging   *providers.LoggingServiceProvider
	inspector *providers.InspectorServiceProvider
}

// Option configures an Application.
type Option func(*Application)

// WithEnvFiles sets the .env files the configuration is loaded from.
func WithEnvFiles(files ...string) Option {
	return func(a *Application) { a.config.EnvFiles = files }
}

// WithLogOutput sends application logs to w instead of os.Stderr.
func WithLogOutput(w io.Writer) Option {
	return func(a *Application) { a.logging.Output = w }
}

// New creates the application on a fresh container and registers the
// framework providers: config, logging, then the inspector.
func New(opts ...Option) *Application {
	c := container.New()
	a := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		config:    &providers.ConfigServiceProvider{},
		logging:   &providers.LoggingServiceProvider{},
		inspector: &providers.InspectorServiceProvider{},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.Providers.Register(a.config)
	a.logging.Config = a.config.Config
	a.Providers.Register(a.logging)
	a.inspector.Logger = a.logging.Logger
	a.Providers.Register(a.inspector)

	return a
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Config resolves the application configuration.
func (a *Application) Config() *config.Config { return a.config.Config.Get() }

// ConfigFactory returns the factory behind Config, e.g. to Register a
// fixed configuration in tests.
func (a *Application) ConfigFactory() *container.Factory[*config.Config] { return a.config.Config }

// Log resolves the application logger.
func (a *Application) Log() *slog.Logger { return a.logging.Logger.Get() }

// Router resolves the router serving the inspector endpoints.
func (a *Application) Router() *routing.Router { return a.inspector.Router.Get() }

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }

// Run boots the application (if needed), validates its configuration and,
// unless INSPECT_ENABLED is false, serves the inspector on INSPECT_HOST:INSPECT_PORT
// until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		a.Boot()
	}
	cfg := a.Config()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.Inspect.Enabled {
		a.Log().Info("inspector disabled", "app", cfg.App.Name, "env", cfg.App.Env)
		return nil
	}

	ln, err := net.Listen("tcp", cfg.Inspect.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Inspect.Addr(), err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves the inspector on ln until ctx is cancelled, then shuts the
// server down gracefully. ln is closed on return.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if !a.Providers.Booted() {
		a.Boot()
	}
	logger := a.Log()
	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("inspector listening", "addr", "http://"+ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("inspector stopped")
		return nil
	})
	return g.Wait()
}
