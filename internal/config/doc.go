// Package config loads, normalizes, and validates kiosk configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// daemon and CLI need: directories, HTTP bind address, presence timing, and
// log output. Timing values the exhibition hardware never agreed on (presence
// timeout, image hold duration) are deliberately configuration parameters
// rather than constants.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
