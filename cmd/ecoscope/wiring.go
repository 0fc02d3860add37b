package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/jask/ecoscope/internal/analysis"
	"github.com/jask/ecoscope/internal/config"
	"github.com/jask/ecoscope/internal/database"
	"github.com/jask/ecoscope/internal/geo"
	"github.com/jask/ecoscope/internal/prefs"
	"github.com/jask/ecoscope/internal/secrets"
)

func buildSensor(cfg config.Config) geo.Sensor {
	switch strings.ToLower(strings.TrimSpace(cfg.Location.Sensor)) {
	case "static":
		return geo.StaticSensor{Point: geo.Coordinate{Latitude: cfg.Location.StaticLat, Longitude: cfg.Location.StaticLon}}
	case "none", "off":
		return geo.NoSensor{}
	default:
		return geo.NewIPSensor(&http.Client{}, cfg.Location.IPEndpoint, cfg.Location.Timeout)
	}
}

func buildSource(cfg config.Config) geo.FallbackSource {
	return geo.FallbackSource{
		Sensor:   buildSensor(cfg),
		Fallback: geo.Coordinate{Latitude: cfg.Location.FallbackLat, Longitude: cfg.Location.FallbackLon},
	}
}

func buildProvider(cfg config.Config) *analysis.Synthetic {
	return analysis.NewSynthetic(cfg.Analysis.InitialDelay, cfg.Analysis.FullDelay)
}

// buildGeocoder returns nil when no key is available so callers can test for it.
func buildGeocoder(cfg config.Config) geo.AddressLookup {
	key := resolveAPIKey(cfg)
	if key == "" {
		return nil
	}
	return geo.NewGoogleLookup(key)
}

// resolveAPIKey prefers the env var, then the secrets store, then config.
func resolveAPIKey(cfg config.Config) string {
	if env := strings.TrimSpace(cfg.Geocoder.APIKeyEnv); env != "" {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	if k, err := secrets.FetchProviderKey(secrets.ProviderGeocoder); err == nil && k != "" {
		return k
	}
	return strings.TrimSpace(cfg.Geocoder.APIKey)
}

func resolveHints(cfg config.Config) []string {
	return prefs.Resolve(cfg.UI.Hints)
}

// openPlaces opens the gazetteer; a failure only disables place search.
func openPlaces(ctx context.Context, cfg config.Config) *sql.DB {
	db, err := database.Prepare(ctx, cfg.Database.Path, cfg.Database.Migrations)
	if err != nil {
		log.Printf("warn: places database unavailable: %v", err)
		return nil
	}
	return db
}
