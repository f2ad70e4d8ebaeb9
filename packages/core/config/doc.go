// Package config handles configuration loading and management for hitvcr.
//
// It provides functionality for:
//   - Loading configuration from .hitvcr.yml, .hitvcr.yaml or .hitvcr.json files
//   - Ordered static recorder options, applied before every test
//   - Default configuration values and merging of overrides
package config
