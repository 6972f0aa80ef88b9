// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	defaultBusinessName = "SCSD"
	defaultMarkup       = 20.0
)

// Config holds the settings read at startup.
type Config struct {
	// BusinessName titles exported quotes.
	BusinessName string
	// DefaultMarkupPercentage seeds new editing sessions, clamped to [0,100].
	DefaultMarkupPercentage float64
	// SeedCatalog seeds the starter catalog and sample estimate on serve.
	SeedCatalog bool
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: Load: could not read .env: %v", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a lookup func shaped like os.LookupEnv.
// Unparsable values fall back to the default.
func FromLookup(lookup func(string) (string, bool)) Config {
	cfg := Config{
		BusinessName:            defaultBusinessName,
		DefaultMarkupPercentage: defaultMarkup,
		SeedCatalog:             true,
	}

	if v, ok := lookup("QUOTE_BUSINESS_NAME"); ok && strings.TrimSpace(v) != "" {
		cfg.BusinessName = strings.TrimSpace(v)
	}
	if v, ok := lookup("QUOTE_DEFAULT_MARKUP"); ok {
		if p, err := cast.ToFloat64E(strings.TrimSpace(v)); err == nil {
			cfg.DefaultMarkupPercentage = min(max(p, 0), 100)
		}
	}
	if v, ok := lookup("QUOTE_SEED_CATALOG"); ok {
		if b, err := cast.ToBoolE(strings.TrimSpace(v)); err == nil {
			cfg.SeedCatalog = b
		}
	}
	return cfg
}
