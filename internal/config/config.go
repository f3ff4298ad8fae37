package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Map     MapConfig     `yaml:"map" mapstructure:"map"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig selects the boundary sources. Empty paths use the embedded dataset.
type DataConfig struct {
	ProvincesPath string            `yaml:"provinces_path" mapstructure:"provinces_path"`
	RegenciesPath string            `yaml:"regencies_path" mapstructure:"regencies_path"`
	FieldMap      map[string]string `yaml:"field_map" mapstructure:"field_map"`
}

// MapConfig holds the viewport defaults sent to the map widget.
type MapConfig struct {
	CenterLat  float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLng  float64 `yaml:"center_lng" mapstructure:"center_lng"`
	Zoom       int     `yaml:"zoom" mapstructure:"zoom"`
	FitPadding int     `yaml:"fit_padding" mapstructure:"fit_padding"`
	FitMaxZoom int     `yaml:"fit_max_zoom" mapstructure:"fit_max_zoom"`
}

// RenderConfig configures the region layer.
type RenderConfig struct {
	ThemePath       string `yaml:"theme_path" mapstructure:"theme_path"`
	TooltipMinWidth int    `yaml:"tooltip_min_width" mapstructure:"tooltip_min_width"`
}

// SessionConfig configures the in-memory map session store.
type SessionConfig struct {
	MaxSessions int           `yaml:"max_sessions" mapstructure:"max_sessions"`
	TTL         time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REGIONMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("data.provinces_path", "")
	v.SetDefault("data.regencies_path", "")
	v.SetDefault("map.center_lat", -2.0)
	v.SetDefault("map.center_lng", 118.0)
	v.SetDefault("map.zoom", 5)
	v.SetDefault("map.fit_padding", 50)
	v.SetDefault("map.fit_max_zoom", 10)
	v.SetDefault("render.theme_path", "")
	v.SetDefault("render.tooltip_min_width", 768)
	v.SetDefault("session.max_sessions", 1000)
	v.SetDefault("session.ttl", 30*time.Minute)

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

// Validate checks that the settings required by the given mode are sane.
// Supported modes are "serve" and "cli".
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Map.Zoom < 0 || c.Map.FitMaxZoom < 0 {
		problems = append(problems, "map zoom levels must be >= 0")
	}
	if c.Map.FitPadding < 0 {
		problems = append(problems, "map.fit_padding must be >= 0")
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 || c.Map.CenterLng < -180 || c.Map.CenterLng > 180 {
		problems = append(problems, "map center must be a valid lat/lng")
	}
	if (c.Data.ProvincesPath == "") != (c.Data.RegenciesPath == "") {
		problems = append(problems, "data.provinces_path and data.regencies_path must be set together")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
			problems = append(problems, "server.rate_limit and server.rate_burst must be > 0")
		}
		if c.Session.MaxSessions <= 0 {
			problems = append(problems, "session.max_sessions must be > 0")
		}
		if c.Session.TTL <= 0 {
			problems = append(problems, "session.ttl must be > 0")
		}
	case "cli":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
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
