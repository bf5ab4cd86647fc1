// Package config loads and validates wxcore configuration.
//
// Configuration is layered: hardcoded defaults, then the YAML file,
// then WXCORE_* environment variables. Secrets (broker password,
// InfluxDB token) are expected via environment variables so they stay
// out of the config file.
package config
