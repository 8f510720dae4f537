// Package logging configures the daemon-wide slog logger and provides
// attribute helpers shared across packages.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log files that operators collect from kiosks in the field.
// Components obtain scoped loggers through NewComponentLogger so every line
// carries a component attribute.
package logging
