package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort          = 8080
	DefaultLength            = 12
	DefaultMinLength         = 4
	DefaultMaxLength         = 128
	DefaultAnalyticsCacheTTL = 60 * time.Second
	DefaultBroadcastInterval = 5 * time.Second
)

// Config holds the configuration parsed from the `server:` section of the
// config file. Unknown top-level keys are ignored.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, realtime endpoint and metrics
	// listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Generation is the length policy applied to generate requests.
	Generation GenerationConfig `yaml:"generation"`

	// Analytics controls snapshot caching.
	Analytics AnalyticsConfig `yaml:"analytics"`

	// Realtime controls the duplex session endpoint.
	Realtime RealtimeConfig `yaml:"realtime"`

	// Alerts holds rule definitions and webhook delivery targets.
	Alerts AlertsConfig `yaml:"alerts"`
}

// GenerationConfig is the length policy for password generation.
// The structural minimum of 1 lives in the generator; these bounds are
// service policy and may be tightened per deployment.
type GenerationConfig struct {
	// DefaultLength is used when a request omits the length (default 12).
	DefaultLength int `yaml:"default_length"`

	// MinLength rejects shorter requests (default 4).
	MinLength int `yaml:"min_length"`

	// MaxLength rejects longer requests (default 128).
	MaxLength int `yaml:"max_length"`
}

// AnalyticsConfig controls snapshot caching.
type AnalyticsConfig struct {
	// CacheTTL is how long an analytics snapshot is served from cache
	// before it is recomputed. Default: 60s.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// RealtimeConfig controls the duplex session endpoint.
type RealtimeConfig struct {
	// BroadcastInterval is how often the hub pushes an analytics update
	// to all open sessions. Zero disables the broadcast. Default: 5s.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one threshold-based alert condition evaluated
// against the analytics snapshot.
type AlertRule struct {
	// Name is the human-readable alert identifier, used as the
	// deduplication key.
	Name string `yaml:"name"`

	// Condition is a simple expression over snapshot fields:
	// "weak_pct > 50", "total_generated > 100000", "ultra_pct < 10".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert
	// fires. Defaults to 15 minutes if zero.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: teams | slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the
	// webhook URL. Keeping URLs out of the file keeps them out of VCS.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the config file at path. Missing fields are
// filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Generation: GenerationConfig{
				DefaultLength: DefaultLength,
				MinLength:     DefaultMinLength,
				MaxLength:     DefaultMaxLength,
			},
			Analytics: AnalyticsConfig{
				CacheTTL: DefaultAnalyticsCacheTTL,
			},
			Realtime: RealtimeConfig{
				BroadcastInterval: DefaultBroadcastInterval,
			},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	g := s.Generation
	if g.MinLength < 1 {
		return fmt.Errorf("server.generation.min_length must be at least 1, got %d", g.MinLength)
	}
	if g.MaxLength < g.MinLength {
		return fmt.Errorf("server.generation.max_length %d is below min_length %d", g.MaxLength, g.MinLength)
	}
	if g.DefaultLength < g.MinLength || g.DefaultLength > g.MaxLength {
		return fmt.Errorf("server.generation.default_length %d is outside [%d, %d]", g.DefaultLength, g.MinLength, g.MaxLength)
	}
	if s.Analytics.CacheTTL < 0 {
		return fmt.Errorf("server.analytics.cache_ttl must not be negative")
	}
	if s.Realtime.BroadcastInterval < 0 {
		return fmt.Errorf("server.realtime.broadcast_interval must not be negative")
	}
	for i, r := range s.Alerts.Rules {
		if r.Name == "" {
			return fmt.Errorf("server.alerts.rules[%d]: name is required", i)
		}
		switch r.Severity {
		case "critical", "warning", "info", "":
		default:
			return fmt.Errorf("server.alerts.rules[%d]: severity %q unknown: want critical|warning|info", i, r.Severity)
		}
	}
	return nil
}
