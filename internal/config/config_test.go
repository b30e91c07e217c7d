package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
		check   func(t *testing.T, c Config)
	}{
		{
			name:    "missing secret",
			env:     map[string]string{"DB_DRIVER": "sqlite"},
			wantErr: "JWT_SECRET",
		},
		{
			name: "sqlite defaults",
			env:  map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "sqlite"},
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "8080", c.Port)
				assert.Equal(t, 30*time.Minute, c.AccessTTL())
				assert.Equal(t, 24*time.Hour, c.RefreshTTL())
				assert.Equal(t, "marketplace.db", c.DB.Path)
				assert.True(t, c.DB.AutoMigrate)
			},
		},
		{
			name:    "mysql without user",
			env:     map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "mysql", "DB_NAME": "market"},
			wantErr: "DB_USER",
		},
		{
			name: "postgres default port",
			env:  map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "postgres", "DB_USER": "u", "DB_NAME": "market"},
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "5432", c.DB.Port)
			},
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "oracle"},
			wantErr: "unsupported DB_DRIVER",
		},
		{
			name:    "bad ttl",
			env:     map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "ACCESS_TOKEN_TTL_MIN": "-1"},
			wantErr: "ACCESS_TOKEN_TTL_MIN",
		},
		{
			name:    "malformed ttl",
			env:     map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "ACCESS_TOKEN_TTL_MIN": "abc"},
			wantErr: `ACCESS_TOKEN_TTL_MIN must be an integer, got "abc"`,
		},
		{
			name:    "malformed duration",
			env:     map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "SHUTDOWN_TIMEOUT": "soon"},
			wantErr: "SHUTDOWN_TIMEOUT must be a duration",
		},
		{
			name:    "malformed bool",
			env:     map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "DB_AUTO_MIGRATE": "maybe"},
			wantErr: "DB_AUTO_MIGRATE must be a boolean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"JWT_SECRET", "DB_DRIVER", "DB_USER", "DB_NAME", "DB_PORT", "ACCESS_TOKEN_TTL_MIN", "SHUTDOWN_TIMEOUT", "DB_AUTO_MIGRATE", "BCRYPT_COST"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadReportsEveryMalformedValue(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "abc")
	t.Setenv("UPLOAD_MAX_BYTES", "10MB")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_TTL_MIN")
	assert.Contains(t, err.Error(), "UPLOAD_MAX_BYTES")
}

func TestLoadBcryptCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")
	cost, err := LoadBcryptCost()
	require.NoError(t, err)
	assert.Equal(t, 10, cost)

	t.Setenv("BCRYPT_COST", "high")
	_, err = LoadBcryptCost()
	assert.ErrorContains(t, err, "BCRYPT_COST")

	t.Setenv("BCRYPT_COST", "99")
	_, err = LoadBcryptCost()
	assert.ErrorContains(t, err, "out of range")
}
