package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config file", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
		assert.Equal(t, "sajilotrack", cfg.MongoDB.Database)
		assert.Equal(t, "accounts", cfg.UserDB.Database)
		assert.Equal(t, "job_events_exchange", cfg.RabbitMQ.Exchange.Name)
		assert.Equal(t, "topic", cfg.RabbitMQ.Exchange.Type)
		assert.Equal(t, "job.*", cfg.RabbitMQ.BindingKey)
		assert.InDelta(t, 26.347, cfg.Geofence.MinLatitude, 1e-9)
		assert.InDelta(t, 88.201, cfg.Geofence.MaxLongitude, 1e-9)
		assert.Equal(t, 4, cfg.Tracker.Concurrency)
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, err := Load("testdata/does_not_exist.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load("testdata/malformed.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load("testdata/valid_config.yaml")
	require.NoError(t, err)
	return cfg
}

func TestValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "missing mongodb uri",
			mutate:  func(c *Config) { c.MongoDB.URI = "" },
			wantErr: "mongodb uri is required",
		},
		{
			name:    "missing mongodb database",
			mutate:  func(c *Config) { c.MongoDB.Database = "" },
			wantErr: "mongodb database is required",
		},
		{
			name:    "missing userdb host",
			mutate:  func(c *Config) { c.UserDB.Host = "" },
			wantErr: "userdb host is required",
		},
		{
			name:    "missing rabbitmq exchange",
			mutate:  func(c *Config) { c.RabbitMQ.Exchange.Name = "" },
			wantErr: "rabbitmq exchange name is required",
		},
		{
			name:    "missing rabbitmq queue",
			mutate:  func(c *Config) { c.RabbitMQ.Queue.Name = "" },
			wantErr: "rabbitmq queue name is required",
		},
		{
			name:    "inverted latitude bounds",
			mutate:  func(c *Config) { c.Geofence.MinLatitude = 31.0 },
			wantErr: "min_latitude must be less than max_latitude",
		},
		{
			name:    "latitude beyond the poles",
			mutate:  func(c *Config) { c.Geofence.MaxLatitude = 91.0 },
			wantErr: "latitude bounds must be within [-90, 90]",
		},
		{
			name: "longitude beyond the antimeridian",
			mutate: func(c *Config) {
				c.Geofence.MinLongitude = -181.0
			},
			wantErr: "longitude bounds must be within [-180, 180]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateTrackerConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing mongodb uri",
			mutate:  func(c *Config) { c.MongoDB.URI = "" },
			wantErr: "mongodb uri is required",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Tracker.Concurrency = 0 },
			wantErr: "tracker concurrency must be greater than 0",
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Tracker.ShutdownTimeout = 0 },
			wantErr: "tracker shutdown_timeout must be greater than 0",
		},
		{
			name:    "rabbitmq host still required",
			mutate:  func(c *Config) { c.RabbitMQ.Host = "" },
			wantErr: "rabbitmq host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.ValidateTrackerConfig()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
