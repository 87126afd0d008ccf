package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Map       MapConfig       `yaml:"map" mapstructure:"map"`
	Basemap   BasemapConfig   `yaml:"basemap" mapstructure:"basemap"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	// SessionIdleMins closes sessions untouched for this long. Zero keeps
	// them until deleted.
	SessionIdleMins int `yaml:"session_idle_mins" mapstructure:"session_idle_mins"`
}

// AnthropicConfig holds inference settings. An empty Key disables the
// remote density source and every fetch is served from the fallback.
type AnthropicConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	MaxTokens         int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	BreakerFailures   int    `yaml:"breaker_failures" mapstructure:"breaker_failures"`
	BreakerResetSecs  int    `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// MapConfig selects the renderer and its distribution/color policies.
type MapConfig struct {
	Renderer          string  `yaml:"renderer" mapstructure:"renderer"`
	Distribution      string  `yaml:"distribution" mapstructure:"distribution"`
	Color             string  `yaml:"color" mapstructure:"color"`
	NoiseBand         float64 `yaml:"noise_band" mapstructure:"noise_band"`
	BoundaryBaseURL   string  `yaml:"boundary_base_url" mapstructure:"boundary_base_url"`
	BoundaryPrimary   string  `yaml:"boundary_primary" mapstructure:"boundary_primary"`
	BoundaryAlternate string  `yaml:"boundary_alternate" mapstructure:"boundary_alternate"`
}

// Renderer names.
const (
	RendererStylized = "stylized"
	RendererGeo      = "geo"
)

// DistributionPolicy returns the configured distribution policy, or the
// renderer's default when none is set.
func (m MapConfig) DistributionPolicy() string {
	if m.Distribution != "" {
		return m.Distribution
	}
	if m.Renderer == RendererGeo {
		return "hash"
	}
	return "noisy"
}

// ColorScheme returns the configured color scheme, or the renderer's
// default when none is set.
func (m MapConfig) ColorScheme() string {
	if m.Color != "" {
		return m.Color
	}
	if m.Renderer == RendererGeo {
		return "discrete"
	}
	return "continuous"
}

// BoundaryPaths returns the primary and alternate boundary locations joined
// to the base URL or directory.
func (m MapConfig) BoundaryPaths() (primary, alternate string) {
	base := strings.TrimRight(m.BoundaryBaseURL, "/")
	join := func(name string) string {
		if base == "" {
			return name
		}
		return base + "/" + strings.TrimLeft(name, "/")
	}
	return join(m.BoundaryPrimary), join(m.BoundaryAlternate)
}

// BasemapConfig configures the tile proxy.
type BasemapConfig struct {
	URL          string `yaml:"url" mapstructure:"url"`
	Format       string `yaml:"format" mapstructure:"format"`
	CacheSize    int    `yaml:"cache_size" mapstructure:"cache_size"`
	CacheTTLMins int    `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
}

// Load reads configuration from config.yaml (optional), environment
// variables prefixed CENSUSMAP_, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CENSUSMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.session_idle_mins", 30)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("anthropic.requests_per_minute", 30)
	v.SetDefault("anthropic.breaker_failures", 3)
	v.SetDefault("anthropic.breaker_reset_secs", 60)
	v.SetDefault("map.renderer", RendererStylized)
	v.SetDefault("map.distribution", "")
	v.SetDefault("map.color", "")
	v.SetDefault("map.noise_band", 10)
	v.SetDefault("map.boundary_base_url", "./static")
	v.SetDefault("map.boundary_primary", "2021hktpu.geojson")
	v.SetDefault("map.boundary_alternate", "2021hktpu.geojson.geojson")
	v.SetDefault("basemap.url", "https://a.basemaps.cartocdn.com/light_all")
	v.SetDefault("basemap.format", "png")
	v.SetDefault("basemap.cache_size", 2000)
	v.SetDefault("basemap.cache_ttl_mins", 60)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes: "serve",
// "analyze".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Map.Renderer {
	case RendererStylized, RendererGeo:
	default:
		problems = append(problems, fmt.Sprintf("map.renderer must be %q or %q", RendererStylized, RendererGeo))
	}
	switch c.Map.DistributionPolicy() {
	case "noisy", "hash":
	default:
		problems = append(problems, "map.distribution must be noisy or hash")
	}
	switch c.Map.ColorScheme() {
	case "continuous", "discrete":
	default:
		problems = append(problems, "map.color must be continuous or discrete")
	}
	if c.Map.NoiseBand < 0 || c.Map.NoiseBand > 100 {
		problems = append(problems, "map.noise_band must be between 0 and 100")
	}
	if c.Anthropic.RequestsPerMinute < 0 {
		problems = append(problems, "anthropic.requests_per_minute must be >= 0")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.SessionIdleMins < 0 {
			problems = append(problems, "server.session_idle_mins must be >= 0")
		}
		if c.Basemap.URL == "" {
			problems = append(problems, "basemap.url is required")
		}
	case "analyze":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
