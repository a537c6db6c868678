// Package notion reads and writes rows of the Notion tracks database.
package notion

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// ErrMissingCredentials is returned when NOTION_API_KEY or NOTION_DATABASE_ID is not set.
var ErrMissingCredentials = errors.New("missing NOTION_API_KEY or NOTION_DATABASE_ID environment variable")

// Config holds Notion API configuration.
type Config struct {
	APIKey     string `envconfig:"NOTION_API_KEY"`
	DatabaseID string `envconfig:"NOTION_DATABASE_ID"`
}

// LoadConfig reads Notion configuration from environment variables.
// Returns ErrMissingCredentials if either variable is not set.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading notion config: %w", err)
	}
	if cfg.APIKey == "" || cfg.DatabaseID == "" {
		return nil, ErrMissingCredentials
	}
	return &cfg, nil
}
