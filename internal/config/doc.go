// Package config loads the static application configuration from defaults,
// an optional YAML file, and environment variables (highest precedence).
// The resulting Config is immutable input for the rest of the system.
package config
