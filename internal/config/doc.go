// Package config provides 12-factor configuration management for TamaOS.
//
// Configuration is loaded once at startup from environment variables with
// sensible defaults, into an immutable struct that callers pass explicitly.
// There is no reload and no ambient global lookup.
//
// Configuration Sections:
//   - Device: century-life device tuning (century length, burst/stasis)
//   - Paths: VFS and log directory roots created at boot
//   - Skin: display skin selection
//   - Server: HTTP server settings (port, host)
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("VFS root at %s\n", cfg.Paths.VFS)
//
// Environment Variables:
//   - CENTURY_REAL_SEC, BURST_CAP_PER_HOUR, STASIS_FILL_RATE, STASIS_MAX_HOURS
//   - VFS_PATH, LOG_PATH, SKIN_MODE
//   - PORT, HOST, LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
