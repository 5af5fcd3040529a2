// Package config loads, normalizes, and validates Takt configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TAKT_ERP_API_KEY. The Config type centralizes every knob the daemon and CLI
// need, so the calculation policy, ERP connection, and notification settings
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
