package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/km-arc/go-factory/framework/validation"
)

// Config is the typed configuration of a go-factory application.
type Config struct {
	App     AppConfig
	Log     LogConfig
	Inspect InspectConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

// InspectConfig controls the HTTP diagnostics surface over the container.
type InspectConfig struct {
	Enabled bool
	Host    string
	Port    string
}

// Addr returns host:port for the inspector listener.
func (c InspectConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Load reads .env (if present) and populates a Config from environment variables.
// Variables already present in the process environment win over the files.
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "go-factory"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "text"),
		},
		Inspect: InspectConfig{
			Enabled: envBool("INSPECT_ENABLED", true),
			Host:    env("INSPECT_HOST", "127.0.0.1"),
			Port:    env("INSPECT_PORT", "8000"),
		},
	}
}

// Rules are the validation rules applied by Validate, keyed by variable name.
var Rules = validation.Rules{
	"APP_ENV":      "required|alpha_dash",
	"LOG_LEVEL":    "required|in:debug,info,warn,error",
	"LOG_FORMAT":   "required|in:text,json",
	"INSPECT_PORT": "required|integer|gte:1|lte:65535",
}

// Env returns the configuration keyed by the variable names it was read from.
func (c *Config) Env() map[string]string {
	return map[string]string{
		"APP_NAME":        c.App.Name,
		"APP_ENV":         c.App.Env,
		"APP_DEBUG":       strconv.FormatBool(c.App.Debug),
		"LOG_LEVEL":       c.Log.Level,
		"LOG_FORMAT":      c.Log.Format,
		"INSPECT_ENABLED": strconv.FormatBool(c.Inspect.Enabled),
		"INSPECT_HOST":    c.Inspect.Host,
		"INSPECT_PORT":    c.Inspect.Port,
	}
}

// Validate checks the loaded values against Rules.
func (c *Config) Validate() error {
	if err := validation.Make(c.Env(), Rules).Err(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
