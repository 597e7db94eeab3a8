// Package config loads, normalizes, and validates the TOML configuration for
// the Genvid CLI.
//
// It owns the default value set, tilde expansion for local paths, environment
// overrides (including .env files), and the embedded sample config written by
// `genvid config init`. Loading always succeeds without a config file present;
// the defaults describe a localhost backend.
//
// Prefer Load over constructing Config literals so every entry point observes
// the same normalization and validation rules.
package config
