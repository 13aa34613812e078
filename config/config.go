// Package config loads ResolverConfig from a YAML file, a .env file and
// W3RESOLVE_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/vitwit/w3resolve/clients"
	"github.com/vitwit/w3resolve/types"
	"github.com/vitwit/w3resolve/utils"
)

const (
	configName = "w3resolve"
	envPrefix  = "W3RESOLVE"
)

// Load reads the configuration. The YAML file w3resolve.yaml is searched for
// in dirs, or in ./configs and . when dirs is empty; a missing file is not an
// error.
func Load(dirs ...string) (*types.ResolverConfig, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		dirs = []string{"./configs", "."}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &types.ResolverError{
				Code:    types.ErrConfigError,
				Message: "error reading config file",
				Err:     err,
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg types.ResolverConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &types.ResolverError{
			Code:    types.ErrConfigError,
			Message: "error unmarshaling config",
			Err:     err,
		}
	}

	if err := utils.ValidateResolverConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration Load yields with no file and no
// environment overrides.
func Default() *types.ResolverConfig {
	return &types.ResolverConfig{
		PaymentIDAPIURL:    clients.DefaultPaymentIDAPIURL,
		LookupTimeout:      10 * time.Second,
		RequestTimeout:     10 * time.Second,
		RetryCount:         2,
		RateLimitPerSecond: 20,
		LogLevel:           "info",
		RPCOverrides:       map[string]string{},
		Session: types.SessionConfig{
			TTL: 24 * time.Hour,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("payment_id_api_url", d.PaymentIDAPIURL)
	v.SetDefault("lookup_timeout", d.LookupTimeout)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("retry_count", d.RetryCount)
	v.SetDefault("rate_limit_per_second", d.RateLimitPerSecond)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("enable_metrics", d.EnableMetrics)
	v.SetDefault("rpc_overrides", d.RPCOverrides)

	v.SetDefault("session.redis_addr", "")
	v.SetDefault("session.redis_password", "")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("session.ttl", d.Session.TTL)
}

// Describe renders cfg for logs with secrets masked.
func Describe(cfg *types.ResolverConfig) map[string]any {
	password := ""
	if cfg.Session.RedisPassword != "" {
		password = "****"
	}
	return map[string]any{
		"payment_id_api_url":    cfg.PaymentIDAPIURL,
		"lookup_timeout":        cfg.LookupTimeout.String(),
		"request_timeout":       cfg.RequestTimeout.String(),
		"retry_count":           cfg.RetryCount,
		"rate_limit_per_second": cfg.RateLimitPerSecond,
		"log_level":             cfg.LogLevel,
		"enable_metrics":        cfg.EnableMetrics,
		"rpc_overrides":         len(cfg.RPCOverrides),
		"session.redis_addr":    cfg.Session.RedisAddr,
		"session.redis_pass":    password,
	}
}
