// Package config handles configuration loading for specbridge.
//
// It provides functionality for:
//   - Loading configuration from .specbridge.yaml files
//   - Default configuration values
//   - CLI flags overriding file values
package config
