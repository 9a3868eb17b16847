package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the startup configuration. Missing or malformed values are
// fatal at startup; the core never sees an invalid Config.
type Config struct {
	Token                 string `mapstructure:"TOKEN" validate:"required"`
	AnonymousChannelID    string `mapstructure:"anonymous_channel_id" validate:"required,number"`
	AuditChannelID        string `mapstructure:"audit_channel_id" validate:"required,number"`
	ConfirmTimeoutSeconds int    `mapstructure:"confirm_timeout_seconds" validate:"min=10,max=3600"`
	LogLevel              string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

// Load reads config.yaml from the working directory, with environment
// variables taking precedence, and validates the result.
func Load() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	viper.SetDefault("confirm_timeout_seconds", 300)
	viper.SetDefault("log_level", "info")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// ConfirmTimeout returns the confirmation deadline as a duration.
func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.ConfirmTimeoutSeconds) * time.Second
}
