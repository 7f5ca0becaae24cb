package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	tests := []struct {
		name          string
		expiration    string
		expectedHours int
		description   string
	}{
		{
			name:          "custom expiration 12 hours",
			expiration:    "12",
			expectedHours: 12,
			description:   "should accept custom expiration of 12 hours",
		},
		{
			name:          "minimum expiration 1 hour",
			expiration:    "1",
			expectedHours: 1,
			description:   "should accept minimum expiration of 1 hour",
		},
		{
			name:          "large expiration",
			expiration:    "168", // 1 week
			expectedHours: 168,
			description:   "should accept large expiration values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret-key")
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			require.NoError(t, err)
			require.NotNil(t, cfg)
			assert.Equal(t, tt.expectedHours, cfg.ExpirationHours, tt.description)
		})
	}
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := NewJWTConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNewJWTConfig_InvalidExpiration(t *testing.T) {
	tests := []struct {
		name        string
		expiration  string
		description string
	}{
		{
			name:        "non-numeric expiration",
			expiration:  "invalid",
			description: "should error when JWT_EXPIRATION_HOURS is non-numeric",
		},
		{
			name:        "zero expiration",
			expiration:  "0",
			description: "should error when JWT_EXPIRATION_HOURS is zero",
		},
		{
			name:        "negative expiration",
			expiration:  "-1",
			description: "should error when JWT_EXPIRATION_HOURS is negative",
		},
		{
			name:        "float expiration",
			expiration:  "12.5",
			description: "should error when JWT_EXPIRATION_HOURS is a float",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret-key")
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			require.Error(t, err, tt.description)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "JWT_EXPIRATION_HOURS")
		})
	}
}

func TestJWTConfig_TTL(t *testing.T) {
	cfg := &JWTConfig{Secret: "s", ExpirationHours: 36}
	assert.Equal(t, 36*time.Hour, cfg.TTL())
}
