// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig            `yaml:"server"`
	Station  StationConfig           `yaml:"station"`
	Database DatabaseConfig          `yaml:"database"`
	Auth     AuthConfig              `yaml:"auth"`
	Assets   AssetsConfig            `yaml:"assets"`
	Spotify  SpotifyConfig           `yaml:"spotify"`
	Filters  map[string]FilterConfig `yaml:"filters"`
	Messages MessagesConfig          `yaml:"messages"`
	Metrics  MetricsConfig           `yaml:"metrics"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr      string      `yaml:"addr" default:":8080"`
	PublicURL string      `yaml:"public_url" validate:"omitempty,url"`
	Hooks     HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// StationConfig describes the station shown on the public site.
type StationConfig struct {
	Name         string `yaml:"name" validate:"required"`
	Tagline      string `yaml:"tagline"`
	StreamURL    string `yaml:"stream_url" validate:"required,url"`
	ContactEmail string `yaml:"contact_email" validate:"omitempty,email"`
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	Driver string `yaml:"driver" default:"sqlite" validate:"oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" default:"onair.db" validate:"required"`
}

// AuthConfig represents admin authentication configuration.
type AuthConfig struct {
	JWTSecret         string `yaml:"jwt_secret" validate:"required,min=16"`
	Issuer            string `yaml:"issuer" default:"onair"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes" default:"720" validate:"gte=5,lte=43200"`
}

// AssetsConfig represents uploaded image storage configuration.
type AssetsConfig struct {
	Root           string `yaml:"root" default:"./data/media"`
	BaseURL        string `yaml:"base_url" default:"/media"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" default:"5242880" validate:"gt=0"`
}

// SpotifyConfig represents Spotify API configuration.
// Podcast import is disabled when credentials are not set.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id" validate:"required_with=ClientSecret"`
	ClientSecret string `yaml:"client_secret" validate:"required_with=ClientID"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"JP"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	Success          string `yaml:"success" default:"Thank you! Your message has been sent."`
	DefaultError     string `yaml:"default_error" default:"Your message could not be sent."`
	MessageLength    string `yaml:"message_length" default:"Your message is too short or too long."`
	BlockedDomain    string `yaml:"blocked_domain" default:"Messages from this address are not accepted."`
	DuplicateMessage string `yaml:"duplicate_message" default:"We already received this message."`
	RateLimited      string `yaml:"rate_limited" default:"Too many messages. Please try again later."`
}

// MetricsConfig represents Prometheus metrics configuration.
type MetricsConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path" default:"/metrics"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes, applies environment overrides
// and defaults, and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("ONAIR_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("ONAIR_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
}

// GetMessage returns the message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "success":
		return c.Messages.Success
	case "message_length":
		return c.Messages.MessageLength
	case "blocked_domain":
		return c.Messages.BlockedDomain
	case "duplicate_message":
		return c.Messages.DuplicateMessage
	case "rate_limited":
		return c.Messages.RateLimited
	default:
		return c.Messages.DefaultError
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// SessionTTL returns the admin session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLMinutes) * time.Minute
}

// SpotifyEnabled reports whether Spotify credentials are configured.
func (c *Config) SpotifyEnabled() bool {
	return c.Spotify.ClientID != "" && c.Spotify.ClientSecret != ""
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// GetFilterSettings returns the settings for a filter.
func (c *Config) GetFilterSettings(filterName string) map[string]any {
	if f, ok := c.Filters[filterName]; ok {
		return f.Settings
	}
	return nil
}
