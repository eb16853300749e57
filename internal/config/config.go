package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Local store
	DatabasePath string `mapstructure:"DATABASE_PATH"`

	// Redis (notification job queue + dedupe tags)
	RedisURL       string `mapstructure:"REDIS_URL"`
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// Remote authority
	RemoteSyncURL    string        `mapstructure:"REMOTE_SYNC_URL"`
	SyncInterval     time.Duration `mapstructure:"SYNC_INTERVAL"`
	SyncTimeout      time.Duration `mapstructure:"SYNC_TIMEOUT"`
	ProbeInterval    time.Duration `mapstructure:"CONNECTIVITY_PROBE_INTERVAL"`
	AlertCheckPeriod time.Duration `mapstructure:"ALERT_CHECK_INTERVAL"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	JWTRefreshHours    int    `mapstructure:"JWT_REFRESH_HOURS"`

	// Notifications (email channel)
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	AlertEmailTo string `mapstructure:"ALERT_EMAIL_TO"`

	// Retention
	ActivityRetentionDays int `mapstructure:"ACTIVITY_RETENTION_DAYS"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_PATH", "stocktrail.db")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("WORKER_POOL_SIZE", 3)
	viper.SetDefault("REMOTE_SYNC_URL", "http://localhost:9000")
	viper.SetDefault("SYNC_INTERVAL", "1m")
	viper.SetDefault("SYNC_TIMEOUT", "15s")
	viper.SetDefault("CONNECTIVITY_PROBE_INTERVAL", "10s")
	viper.SetDefault("ALERT_CHECK_INTERVAL", "30s")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 8)
	viper.SetDefault("JWT_REFRESH_HOURS", 24)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("ACTIVITY_RETENTION_DAYS", 90)

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
