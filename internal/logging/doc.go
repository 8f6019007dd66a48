// Package logging builds the slog loggers used across the daemon and CLI.
// Two output formats are supported: a compact console format for humans
// and line-delimited JSON for ingestion. Format "auto" picks console when
// stdout is a terminal.
package logging
