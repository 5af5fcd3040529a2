// Package logging builds the slog loggers used across Takt.
//
// Two output formats are supported: a human-oriented console format and JSON
// for machine consumption. Loggers can tee into the configured log directory
// alongside stdout. Standardized field names keep audit output greppable
// across the runner, engine, and daemon.
package logging
