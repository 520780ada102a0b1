package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEnv(t *testing.T, key, value string) {
	t.Helper()
	original, had := os.LookupEnv(key)
	if value == "" {
		os.Unsetenv(key)
	} else {
		os.Setenv(key, value)
	}
	t.Cleanup(func() {
		if had {
			os.Setenv(key, original)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	withEnv(t, "DATABASE_URL", "postgres://localhost/kaamsetu")
	withEnv(t, "PORT", "")
	withEnv(t, "REDIS_ADDR", "")
	withEnv(t, "RELIABILITY_STEP", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "postgres://localhost/kaamsetu", cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 0.1, cfg.ReliabilityStep)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	withEnv(t, "DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Overrides(t *testing.T) {
	withEnv(t, "DATABASE_URL", "postgres://localhost/kaamsetu")
	withEnv(t, "PORT", "9090")
	withEnv(t, "REDIS_ADDR", "localhost:6379")
	withEnv(t, "RELIABILITY_STEP", "0.25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0.25, cfg.ReliabilityStep)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Port: 8080, DatabaseURL: "postgres://x", ReliabilityStep: 0.1},
		},
		{
			name:    "bad port",
			cfg:     Config{Port: 0, DatabaseURL: "postgres://x"},
			wantErr: "PORT",
		},
		{
			name:    "step out of range",
			cfg:     Config{Port: 8080, DatabaseURL: "postgres://x", ReliabilityStep: 1.5},
			wantErr: "RELIABILITY_STEP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
