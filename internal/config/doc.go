// Package config loads, normalizes, and validates tracksplit configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes the codec
// binaries, audio output settings, history storage and logging knobs the CLI
// needs, so commands discover everything in one pass.
//
// A missing config file is not an error: defaults reproduce the standard
// behaviour of normalizing to -20 dBFS and encoding 128 kbit/s MP3 files.
package config
