// Package config loads, normalizes, and validates the trackman TOML
// configuration file.
package config
