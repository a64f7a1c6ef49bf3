package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Sternrassler/esi-go/pkg/client"
	"github.com/Sternrassler/esi-go/pkg/logging"
)

// proxyConfig is the resolved configuration of the proxy. Every field can be
// set by flag or by environment variable (ESI_PORT, ESI_USER_AGENT, ...).
type proxyConfig struct {
	Port           string
	UserAgent      string
	BaseURL        string
	Version        string
	Retries        int
	MaxConcurrency int
	RequestTimeout time.Duration
	Token          string
	RedisAddr      string
	TokenName      string
	LogLevel       string
	LogFormat      string
}

func registerFlags(flags *pflag.FlagSet) {
	flags.String("port", "8080", "listen port")
	flags.String("user-agent", "esi-go-proxy/0.1.0", "User-Agent sent to ESI (include contact info)")
	flags.String("base-url", client.DefaultBaseURL, "ESI base URL")
	flags.String("version", client.DefaultVersion, "ESI route version")
	flags.Int("retries", client.DefaultRetries, "attempts per call")
	flags.Int("max-concurrency", client.DefaultMaxConcurrency, "parallel page requests, -1 for no limit")
	flags.Duration("request-timeout", 60*time.Second, "deadline per proxied call")
	flags.String("token", "", "bearer token")
	flags.String("redis-addr", "", "load the bearer token from this Redis instance")
	flags.String("token-name", "default", "token name in Redis")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "json", "log format (json, console)")
}

func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("ESI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	return v, nil
}

func loadConfig(v *viper.Viper) (proxyConfig, error) {
	cfg := proxyConfig{
		Port:           v.GetString("port"),
		UserAgent:      v.GetString("user-agent"),
		BaseURL:        v.GetString("base-url"),
		Version:        v.GetString("version"),
		Retries:        v.GetInt("retries"),
		MaxConcurrency: v.GetInt("max-concurrency"),
		RequestTimeout: v.GetDuration("request-timeout"),
		Token:          v.GetString("token"),
		RedisAddr:      v.GetString("redis-addr"),
		TokenName:      v.GetString("token-name"),
		LogLevel:       v.GetString("log-level"),
		LogFormat:      v.GetString("log-format"),
	}

	if cfg.Port == "" {
		return cfg, fmt.Errorf("port is required")
	}
	if cfg.UserAgent == "" {
		return cfg, fmt.Errorf("user-agent is required")
	}
	if cfg.RequestTimeout <= 0 {
		return cfg, fmt.Errorf("request-timeout must be positive (got %s)", cfg.RequestTimeout)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	if _, err := logging.ParseFormat(cfg.LogFormat); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (cfg proxyConfig) clientConfig() client.Config {
	c := client.DefaultConfig(cfg.UserAgent)
	c.BaseURL = cfg.BaseURL
	c.Version = cfg.Version
	c.Retries = cfg.Retries
	c.MaxConcurrency = cfg.MaxConcurrency
	c.Token = cfg.Token
	return c
}

func (cfg proxyConfig) loggingConfig() logging.Config {
	format, _ := logging.ParseFormat(cfg.LogFormat)
	out := logging.DefaultConfig()
	out.Level = logging.LogLevel(strings.ToLower(cfg.LogLevel))
	out.Format = format
	return out
}
