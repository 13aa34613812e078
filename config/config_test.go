package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/w3resolve/types"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Default().PaymentIDAPIURL, cfg.PaymentIDAPIURL)
	assert.Equal(t, 10*time.Second, cfg.LookupTimeout)
	assert.Equal(t, 2, cfg.RetryCount)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.EnableMetrics)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `
payment_id_api_url: https://pid.example.com
lookup_timeout: 3s
log_level: debug
enable_metrics: true
rpc_overrides:
  Ethereum: http://localhost:8545
session:
  redis_addr: localhost:6379
  ttl: 1h
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "w3resolve.yaml"), []byte(yaml), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://pid.example.com", cfg.PaymentIDAPIURL)
	assert.Equal(t, 3*time.Second, cfg.LookupTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, "localhost:6379", cfg.Session.RedisAddr)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	// viper lower-cases map keys
	assert.Equal(t, "http://localhost:8545", cfg.RPCOverrides["ethereum"])
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "w3resolve.yaml"), []byte("log_level: debug\n"), 0o600))

	t.Setenv("W3RESOLVE_LOG_LEVEL", "warn")
	t.Setenv("W3RESOLVE_LOOKUP_TIMEOUT", "750ms")
	t.Setenv("W3RESOLVE_SESSION_REDIS_ADDR", "redis:6379")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 750*time.Millisecond, cfg.LookupTimeout)
	assert.Equal(t, "redis:6379", cfg.Session.RedisAddr)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("W3RESOLVE_LOG_LEVEL", "verbose")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfigError))
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "w3resolve.yaml"), []byte("log_level: [unterminated\n"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfigError))
}

func TestDescribe_MasksPassword(t *testing.T) {
	cfg := Default()
	cfg.Session.RedisPassword = "hunter2"

	d := Describe(cfg)
	assert.Equal(t, "****", d["session.redis_pass"])
	for _, v := range d {
		assert.NotEqual(t, "hunter2", v)
	}
}
