// Package config loads, normalizes, and validates strava2gpx configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STRAVA2GPX_GPSBABEL. The Config type centralizes every knob the CLI needs
// so output, staging, and state directories are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
