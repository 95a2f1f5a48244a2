// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Estimator  EstimatorConfig  `mapstructure:"estimator"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ModerationConfig holds the decision thresholds and batch settings.
// The numeric defaults mirror the calibration the scoring layers were
// shipped with; they are overridable but not re-derived.
type ModerationConfig struct {
	AutoApproveAbove float64 `mapstructure:"auto_approve_above"`
	RejectBelow      float64 `mapstructure:"reject_below"`
	BatchWorkers     int     `mapstructure:"batch_workers"`
	LexiconPath      string  `mapstructure:"lexicon_path"`
}

// EstimatorConfig holds settings for the external price-estimation service.
type EstimatorConfig struct {
	URL           string  `mapstructure:"url"`
	Timeout       int     `mapstructure:"timeout"` // milliseconds
	FallbackScore float64 `mapstructure:"fallback_score"`
}

// CacheConfig holds settings for the optional predicted-price cache.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Address    string `mapstructure:"address"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
