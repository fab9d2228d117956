package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		_ = os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, old)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, "PORT", "CREDENTIALS_JSON", "CREDENTIALS_DIR", "GCLI_CONFIG_FILE", "UPSTREAM_TIMEOUT")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./creds", cfg.Credentials.Dir)
	assert.Equal(t, 120*time.Second, cfg.Upstream.RequestTimeout)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, "UTC", cfg.Security.DisplayTimezone)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	clearEnv(t, "PORT", "CREDENTIALS_JSON", "CREDENTIALS_DIR", "GCLI_CONFIG_FILE", "UPSTREAM_TIMEOUT")
	t.Setenv("PORT", "9090")
	t.Setenv("CREDENTIALS_DIR", "/tmp/creds")
	t.Setenv("UPSTREAM_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/creds", cfg.Credentials.Dir)
	assert.Equal(t, 30*time.Second, cfg.Upstream.RequestTimeout)
}

func TestValidateRejectsMissingCredentialSource(t *testing.T) {
	cfg := defaults()
	cfg.Credentials.Dir = ""
	cfg.Credentials.JSON = ""
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidateRejectsEmptyPort(t *testing.T) {
	cfg := defaults()
	cfg.Port = ""
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	cfg := defaults()
	cfg.Upstream.RequestTimeout = 0
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestAddressPreservesExplicitColonForm(t *testing.T) {
	cfg := defaults()
	cfg.Port = ":1234"
	assert.Equal(t, ":1234", cfg.Address())
}

func TestToolSchemaStripKeysFromEnv(t *testing.T) {
	clearEnv(t, "PORT", "CREDENTIALS_JSON", "CREDENTIALS_DIR", "GCLI_CONFIG_FILE", "TOOL_SCHEMA_STRIP_KEYS")
	t.Setenv("TOOL_SCHEMA_STRIP_KEYS", "$schema,exclusiveMinimum,exclusiveMaximum")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"$schema", "exclusiveMinimum", "exclusiveMaximum"}, cfg.ToolSchema.StripKeys)
}
