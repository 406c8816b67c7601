package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL             string `mapstructure:"API_BASE_URL"`
	OpenAPIBaseURL         string `mapstructure:"OPEN_API_BASE_URL"`
	Env                    string `mapstructure:"ENV"`
	HTTPTimeoutSeconds     int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	RefreshIntervalSeconds int    `mapstructure:"REFRESH_INTERVAL_SECONDS"`
	TokenFile              string `mapstructure:"TOKEN_FILE"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("OPEN_API_BASE_URL", "")
	v.SetDefault("ENV", "development")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	v.SetDefault("REFRESH_INTERVAL_SECONDS", 60)
	v.SetDefault("TOKEN_FILE", ".records-token")
	v.SetDefault("LOG_LEVEL", "info")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("API_BASE_URL")
	v.BindEnv("OPEN_API_BASE_URL")
	v.BindEnv("ENV")
	v.BindEnv("HTTP_TIMEOUT_SECONDS")
	v.BindEnv("REFRESH_INTERVAL_SECONDS")
	v.BindEnv("TOKEN_FILE")
	v.BindEnv("LOG_LEVEL")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// The open (unauthenticated) endpoints live under the same base unless
	// overridden, mirroring the split between the authenticated and public
	// API roots.
	if cfg.OpenAPIBaseURL == "" {
		cfg.OpenAPIBaseURL = cfg.APIBaseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HTTPTimeout returns the request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// RefreshInterval returns the appointment list refresh period.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// Validate checks that the configuration is usable: the API base URL must be
// an absolute http(s) URL and the timers must be positive.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must be http or https, got %q", c.APIBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be absolute, got %q", c.APIBaseURL)
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTPTimeoutSeconds)
	}
	if c.RefreshIntervalSeconds <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL_SECONDS must be positive, got %d", c.RefreshIntervalSeconds)
	}
	if c.TokenFile == "" {
		return fmt.Errorf("TOKEN_FILE is required")
	}
	return nil
}
