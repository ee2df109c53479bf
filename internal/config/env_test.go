package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnvOverrides(t *testing.T) {
	type nested struct {
		Port   int           `env:"TEST_CFG_PORT"`
		UseTLS bool          `env:"TEST_CFG_USE_TLS"`
		Expiry time.Duration `env:"TEST_CFG_EXPIRY"`
	}
	type testConfig struct {
		Host     string `env:"TEST_CFG_HOST"`
		Untagged string
		Nested   nested
	}

	t.Setenv("TEST_CFG_HOST", "db.internal")
	t.Setenv("TEST_CFG_PORT", "5433")
	t.Setenv("TEST_CFG_USE_TLS", "false")
	t.Setenv("TEST_CFG_EXPIRY", "45m")

	cfg := testConfig{
		Host:     "localhost",
		Untagged: "kept",
		Nested:   nested{Port: 5432, UseTLS: true, Expiry: time.Hour},
	}
	require.NoError(t, applyEnvOverrides(&cfg))

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, "kept", cfg.Untagged)
	assert.Equal(t, 5433, cfg.Nested.Port)
	assert.False(t, cfg.Nested.UseTLS)
	assert.Equal(t, 45*time.Minute, cfg.Nested.Expiry)
}

func TestApplyEnvOverridesRejectsBadValues(t *testing.T) {
	type testConfig struct {
		Port int `env:"TEST_CFG_BAD_PORT"`
	}

	t.Setenv("TEST_CFG_BAD_PORT", "not-a-number")

	cfg := testConfig{}
	err := applyEnvOverrides(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_CFG_BAD_PORT")
}

func TestApplyEnvOverridesSkipsUnsetVariables(t *testing.T) {
	type testConfig struct {
		Host string `env:"TEST_CFG_UNSET_HOST"`
	}

	cfg := testConfig{Host: "from-yaml"}
	require.NoError(t, applyEnvOverrides(&cfg))
	assert.Equal(t, "from-yaml", cfg.Host)
}
