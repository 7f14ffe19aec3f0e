package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Device    DeviceConfig
	Paths     PathsConfig
	Skin      SkinConfig
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// DeviceConfig holds century-life device tuning.
//
// Burst and stasis values are read and reported but drive no mechanics yet;
// the life-cycle model that consumes them is an unimplemented extension
// point. Values are accepted as-is, including zero and negative.
type DeviceConfig struct {
	CenturyRealSec  float64 `envconfig:"CENTURY_REAL_SEC" default:"2592000"`
	BurstCapPerHour float64 `envconfig:"BURST_CAP_PER_HOUR" default:"1.0"`
	StasisFillRate  float64 `envconfig:"STASIS_FILL_RATE" default:"0.15"`
	StasisMaxHours  int     `envconfig:"STASIS_MAX_HOURS" default:"72"`
}

// PathsConfig holds filesystem roots created at boot.
type PathsConfig struct {
	VFS  string `envconfig:"VFS_PATH" default:"./vfs"`
	Logs string `envconfig:"LOG_PATH" default:"./logs"`
}

// SkinConfig holds display skin selection. The mode string is not
// validated against a known set.
type SkinConfig struct {
	Mode string `envconfig:"SKIN_MODE" default:"BSS"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			CenturyRealSec:  2592000,
			BurstCapPerHour: 1.0,
			StasisFillRate:  0.15,
			StasisMaxHours:  72,
		},
		Paths: PathsConfig{
			VFS:  "./vfs",
			Logs: "./logs",
		},
		Skin: SkinConfig{
			Mode: "BSS",
		},
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
