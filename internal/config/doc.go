// Package config provides configuration structures and utilities for fnmetrics.
// It defines the output, history and table interpretation options, and
// loads overrides from an optional YAML configuration file.
package config
