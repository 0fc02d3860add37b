package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Location LocationConfig `mapstructure:"location"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	UI       UIConfig       `mapstructure:"ui"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig holds the places gazetteer settings.
type DatabaseConfig struct {
	Path       string `mapstructure:"path"`
	Migrations string `mapstructure:"migrations"`
}

// LocationConfig controls how the device position is sensed.
type LocationConfig struct {
	Sensor      string        `mapstructure:"sensor"` // ip | static | none
	IPEndpoint  string        `mapstructure:"ip_endpoint"`
	Timeout     time.Duration `mapstructure:"timeout"`
	StaticLat   float64       `mapstructure:"static_lat"`
	StaticLon   float64       `mapstructure:"static_lon"`
	FallbackLat float64       `mapstructure:"fallback_lat"`
	FallbackLon float64       `mapstructure:"fallback_lon"`
}

// GeocoderConfig holds address lookup settings.
type GeocoderConfig struct {
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
}

// AnalysisConfig declares the result provider latency.
type AnalysisConfig struct {
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	FullDelay    time.Duration `mapstructure:"full_delay"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	ContinueDelay time.Duration `mapstructure:"continue_delay"`
	Hints         []string      `mapstructure:"hints"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr       string        `mapstructure:"addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	PruneEvery int           `mapstructure:"prune_every"` // minutes
}

// LogConfig holds log output settings.
type LogConfig struct {
	File string `mapstructure:"file"`
}

// DefaultHints are the suggested queries offered on the query screen.
var DefaultHints = []string{
	"Rainfall trend in past month",
	"NDVI analysis for vegetation",
	"Air quality index trends",
	"Temperature variations",
	"Soil moisture levels",
}

// Load reads configuration from file and env. Env var overrides use prefix ECOSCOPE_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ECOSCOPE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "ecoscope"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ECOSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine; a present but broken one is not
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.UI.Hints) == 0 {
		c.UI.Hints = append([]string(nil), DefaultHints...)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "ecoscope", "places.db"))
	v.SetDefault("database.migrations", "internal/database/migrations")
	v.SetDefault("location.sensor", "ip")
	v.SetDefault("location.ip_endpoint", "https://ipapi.co/json/")
	v.SetDefault("location.timeout", "3s")
	v.SetDefault("location.static_lat", 0.0)
	v.SetDefault("location.static_lon", 0.0)
	v.SetDefault("location.fallback_lat", 51.505)
	v.SetDefault("location.fallback_lon", -0.09)
	v.SetDefault("geocoder.api_key_env", "GOOGLE_GEOCODING_API_KEY")
	v.SetDefault("geocoder.api_key", "")
	v.SetDefault("analysis.initial_delay", "2s")
	v.SetDefault("analysis.full_delay", "2s")
	v.SetDefault("ui.continue_delay", "1s")
	v.SetDefault("ui.hints", DefaultHints)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.session_ttl", "30m")
	v.SetDefault("server.prune_every", 1)
	v.SetDefault("log.file", "")
}

// Path returns where Save writes the config file.
func Path() string {
	if p := os.Getenv("ECOSCOPE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "ecoscope", "config.toml")
}

// Save persists the fields of cfg that differ from the current effective
// config. Keys already in the file are kept, and values that only come from
// defaults or ECOSCOPE_ env overrides are not written.
func Save(cfg Config) error {
	path := Path()
	current, err := Load()
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("toml")
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	prev := settings(current)
	for k, val := range settings(cfg) {
		if !reflect.DeepEqual(val, prev[k]) {
			v.Set(k, val)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// settings flattens cfg into viper keys, durations as strings.
func settings(cfg Config) map[string]any {
	return map[string]any{
		"database.path":          cfg.Database.Path,
		"database.migrations":    cfg.Database.Migrations,
		"location.sensor":        cfg.Location.Sensor,
		"location.ip_endpoint":   cfg.Location.IPEndpoint,
		"location.timeout":       cfg.Location.Timeout.String(),
		"location.static_lat":    cfg.Location.StaticLat,
		"location.static_lon":    cfg.Location.StaticLon,
		"location.fallback_lat":  cfg.Location.FallbackLat,
		"location.fallback_lon":  cfg.Location.FallbackLon,
		"geocoder.api_key_env":   cfg.Geocoder.APIKeyEnv,
		"geocoder.api_key":       cfg.Geocoder.APIKey,
		"analysis.initial_delay": cfg.Analysis.InitialDelay.String(),
		"analysis.full_delay":    cfg.Analysis.FullDelay.String(),
		"ui.continue_delay":      cfg.UI.ContinueDelay.String(),
		"ui.hints":               cfg.UI.Hints,
		"server.addr":            cfg.Server.Addr,
		"server.session_ttl":     cfg.Server.SessionTTL.String(),
		"server.prune_every":     cfg.Server.PruneEvery,
		"log.file":               cfg.Log.File,
	}
}
