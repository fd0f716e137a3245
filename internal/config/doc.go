// Package config loads, normalizes, and validates vrhouse configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and applies VRHOUSE_* environment overrides.
// The Config type centralizes every knob the CLI, watcher, and history ledger
// need so conversion defaults are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
