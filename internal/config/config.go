// Package config resolves the starter kit's environment configuration
// into an immutable struct at startup.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ResourceNone is the sentinel resource identifier meaning "use the first
// suitable resource of the package".
const ResourceNone = "NONE"

// Config holds all environment-derived settings. Values are read once at
// startup and never mutated afterwards.
type Config struct {
	// PackageID names the dataset package to build a starter notebook
	// for. Empty means the image's built-in default dataset is kept.
	PackageID string `env:"PACKAGE_ID"`

	// ResourceID names a specific resource within the package. Empty is
	// normalized to ResourceNone by the selector, not here, so the
	// selector can emit its notice.
	ResourceID string `env:"RESOURCE_ID"`

	// APIBaseURL is the CKAN action API of the data portal.
	APIBaseURL string `env:"CKAN_API_URL" envDefault:"https://data.stadt-zuerich.ch/api/3/action"`

	// Language selects localized metadata fields (de/en/fr/it).
	Language string `env:"OD_LANGUAGE" envDefault:"de"`

	// ClassifyCmd optionally names an external classifier command. When
	// set, the selector shells out to it instead of querying the CKAN
	// API in-process. The package id is appended as the last argument.
	ClassifyCmd string `env:"CLASSIFY_CMD"`

	// Notebook server settings. The bind address and token are fixed for
	// container use: all interfaces, no authentication token (the
	// platform fronts the server with its own auth).
	JupyterBin  string `env:"JUPYTER_BIN" envDefault:"jupyter"`
	JupyterIP   string `env:"JUPYTER_IP" envDefault:"0.0.0.0"`
	JupyterPort int    `env:"JUPYTER_PORT" envDefault:"8888"`
}

// FromEnv parses configuration from the process environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// HasPackage reports whether a dataset package was requested.
func (c Config) HasPackage() bool {
	return c.PackageID != ""
}

// Resource returns the configured resource id, substituting the
// ResourceNone sentinel when unset. The second return reports whether the
// sentinel was substituted.
func (c Config) Resource() (string, bool) {
	if c.ResourceID == "" {
		return ResourceNone, true
	}
	return c.ResourceID, false
}
