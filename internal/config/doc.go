// Package config loads, normalizes, and validates the TOML configuration
// shared by the API server, the collector, and the CLI utilities.
package config
