// Package config loads, normalizes, and validates subcorpus configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for the
// external tokenizer locations. The Config type gathers every knob the
// converter, the batch runner and the CLI need so paths and tuning values
// are resolved in one pass.
//
// Obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
