package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080"},
		Station:  StationConfig{Name: "Onair FM", StreamURL: "https://stream.example.com/live.mp3"},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "onair.db"},
		Auth:     AuthConfig{JWTSecret: "0123456789abcdef0123", SessionTTLMinutes: 60},
		Assets:   AssetsConfig{Root: "./media", BaseURL: "/media", MaxUploadBytes: 1024},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing station name",
			mutate:  func(c *Config) { c.Station.Name = "" },
			wantErr: true,
			errMsg:  "Name",
		},
		{
			name:    "invalid stream url",
			mutate:  func(c *Config) { c.Station.StreamURL = "not a url" },
			wantErr: true,
			errMsg:  "StreamURL",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "short" },
			wantErr: true,
			errMsg:  "JWTSecret",
		},
		{
			name:    "unknown database driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: true,
			errMsg:  "Driver",
		},
		{
			name:    "spotify client id without secret",
			mutate:  func(c *Config) { c.Spotify.ClientID = "client-id" },
			wantErr: true,
			errMsg:  "ClientSecret",
		},
		{
			name: "invalid market length",
			mutate: func(c *Config) {
				c.Spotify = SpotifyConfig{ClientID: "id", ClientSecret: "secret", Market: "JAPAN"}
			},
			wantErr: true,
			errMsg:  "Market",
		},
		{
			name:    "invalid contact email",
			mutate:  func(c *Config) { c.Station.ContactEmail = "nobody" },
			wantErr: true,
			errMsg:  "ContactEmail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestParse_Defaults(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")

	data := []byte(`
station:
  name: Onair FM
  stream_url: https://stream.example.com/live.mp3
auth:
  jwt_secret: 0123456789abcdef0123
filters:
  message_length_filter:
    enabled: true
    settings:
      min_chars: 5
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "onair.db", cfg.Database.DSN)
	assert.Equal(t, "/media", cfg.Assets.BaseURL)
	assert.Equal(t, int64(5242880), cfg.Assets.MaxUploadBytes)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.SpotifyEnabled())

	assert.True(t, cfg.IsFilterEnabled("message_length_filter"))
	assert.False(t, cfg.IsFilterEnabled("rate_limit_filter"))
	assert.Equal(t, 5, cfg.GetFilterSettings("message_length_filter")["min_chars"])
	assert.Nil(t, cfg.GetFilterSettings("rate_limit_filter"))
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("ONAIR_JWT_SECRET", "secret-from-environment")
	t.Setenv("SPOTIFY_CLIENT_ID", "env-client")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")

	data := []byte(`
station:
  name: Onair FM
  stream_url: https://stream.example.com/live.mp3
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "secret-from-environment", cfg.Auth.JWTSecret)
	assert.Equal(t, "env-client", cfg.Spotify.ClientID)
	assert.True(t, cfg.SpotifyEnabled())
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("station: ["), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("validation failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("station:\n  name: Onair FM\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})
}

func TestConfig_GetMessage(t *testing.T) {
	cfg := validConfig()
	cfg.Messages = MessagesConfig{
		Success:          "ok",
		DefaultError:     "error",
		MessageLength:    "length",
		BlockedDomain:    "domain",
		DuplicateMessage: "duplicate",
		RateLimited:      "slow down",
	}

	tests := []struct {
		code     string
		expected string
	}{
		{"success", "ok"},
		{"message_length", "length"},
		{"blocked_domain", "domain"},
		{"duplicate_message", "duplicate"},
		{"rate_limited", "slow down"},
		{"unknown_code", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, cfg.GetMessage(tt.code))
		})
	}
}
