// Package lastfm provides Last.fm API integration for resolving track metadata.
package lastfm

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// ErrMissingAPIKey is returned when LASTFM_API_KEY is not set.
var ErrMissingAPIKey = errors.New("missing LASTFM_API_KEY environment variable")

// Config holds Last.fm API configuration.
type Config struct {
	APIKey   string `envconfig:"LASTFM_API_KEY"`
	Endpoint string `envconfig:"LASTFM_ENDPOINT" default:"http://ws.audioscrobbler.com/2.0/"`
}

// LoadConfig reads Last.fm configuration from environment variables.
// Returns ErrMissingAPIKey if LASTFM_API_KEY is not set.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading lastfm config: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultBaseURL
	}
	return &cfg, nil
}
