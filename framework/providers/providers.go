package providers

import (
	"io"
	"log/slog"
	"os"

	"github.com/km-arc/go-factory/framework/config"
	"github.com/km-arc/go-factory/framework/container"
	"github.com/km-arc/go-factory/framework/inspect"
	"github.com/km-arc/go-factory/framework/logging"
	"github.com/km-arc/go-factory/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider declares the cached "config" factory, loading
// configuration from EnvFiles (default .env) and the process environment.
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string

	// Config is set by Register.
	Config *container.Factory[*config.Config]
}

func (p *ConfigServiceProvider) Register(c *container.Container) {
	envFiles := p.EnvFiles
	p.Config = container.NewFactory(c, "config", c.Cached(), func() *config.Config {
		return config.Load(envFiles...)
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider declares the cached "logger" factory built from
// the LOG_LEVEL and LOG_FORMAT settings. Boot makes it the container's
// logger.
type LoggingServiceProvider struct {
	Config *container.Factory[*config.Config]
	Output io.Writer // default: os.Stderr

	// Logger is set by Register.
	Logger *container.Factory[*slog.Logger]
}

func (p *LoggingServiceProvider) Register(c *container.Container) {
	out := p.Output
	if out == nil {
		out = os.Stderr
	}
	cfg := p.Config
	p.Logger = container.NewFactory(c, "logger", c.Cached(), func() *slog.Logger {
		lc := cfg.Get().Log
		return logging.New(lc.Level, lc.Format, out)
	})
}

func (p *LoggingServiceProvider) Boot(c *container.Container) {
	c.SetLogger(p.Logger.Get())
}

// ── InspectorServiceProvider ──────────────────────────────────────────────────

// InspectorServiceProvider declares the "inspector" and "router" factories.
// The router serves the inspector endpoints for the provider's container.
type InspectorServiceProvider struct {
	container.BaseProvider
	Logger *container.Factory[*slog.Logger]

	// Inspector and Router are set by Register.
	Inspector *container.Factory[*inspect.Inspector]
	Router    *container.Factory[*routing.Router]
}

func (p *InspectorServiceProvider) Register(c *container.Container) {
	logger := p.Logger
	p.Inspector = container.NewFactory(c, "inspector", c.Cached(), func() *inspect.Inspector {
		return inspect.New(c)
	})
	inspector := p.Inspector
	p.Router = container.NewFactory(c, "router", c.Cached(), func() *routing.Router {
		r := routing.New(logger.Get())
		inspector.Get().Routes(r)
		return r
	})
}
