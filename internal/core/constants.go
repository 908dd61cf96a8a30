// Package core provides shared constants and helpers for the salat CLI.
package core

import (
	"os"
	"path/filepath"
)

// Date and clock formats
const (
	DateFmt  = "2006-01-02"
	ClockFmt = "3:04 PM"
)

// DefaultGeoEndpoint is the IP-geolocation endpoint queried when no fixed
// coordinates are configured.
const DefaultGeoEndpoint = "http://ip-api.com/json"

// appDir returns the per-user application directory (~/.salat).
func appDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".salat")
}

// CacheRoot returns the default cache directory path.
func CacheRoot() string {
	return filepath.Join(appDir(), "cache")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(appDir(), "config.yaml")
}

// Version is the current CLI version.
const Version = "0.2.0"
