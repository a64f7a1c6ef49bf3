package client

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Defaults for ESI.
const (
	DefaultBaseURL        = "https://esi.evetech.net"
	DefaultVersion        = "latest"
	DefaultRetries        = 10
	DefaultInitialBackoff = 250 * time.Millisecond
	DefaultMaxBackoff     = 10 * time.Second
	DefaultMaxConcurrency = 10

	// UnboundedConcurrency removes the fan-out limit.
	UnboundedConcurrency = -1
	DefaultTimeout        = 30 * time.Second
)

// Config holds the client configuration.
type Config struct {
	// User-Agent header (REQUIRED by ESI)
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// BaseURL is scheme and host of the API, without a trailing path.
	BaseURL string

	// Version is the route version segment ("latest", "dev", "v4", ...).
	Version string

	// Token is the bearer token sent as Authorization header. Optional.
	Token string

	// Retry
	Retries        int // Max attempts per call, including the first one
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// IdempotentRetriesOnly disables retries for POST and PUT.
	IdempotentRetriesOnly bool

	// Concurrency
	MaxConcurrency int // Max parallel requests during page fan-out, UnboundedConcurrency for no limit

	// Timeout per HTTP exchange. Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the transport. Optional.
	HTTPClient *http.Client

	// Logger overrides the component logger. Optional.
	Logger *zerolog.Logger
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent:      userAgent,
		BaseURL:        DefaultBaseURL,
		Version:        DefaultVersion,
		Retries:        DefaultRetries,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
		MaxConcurrency: DefaultMaxConcurrency,
		Timeout:        DefaultTimeout,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (cfg Config) withDefaults() Config {
	def := DefaultConfig(cfg.UserAgent)
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.Retries == 0 {
		cfg.Retries = def.Retries
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = def.MaxConcurrency
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	return cfg
}

func (cfg Config) validate() error {
	if cfg.UserAgent == "" {
		return fmt.Errorf("user-agent is required")
	}

	if cfg.Retries < 1 {
		return fmt.Errorf("retries must be >= 1 (got %d)", cfg.Retries)
	}

	if cfg.InitialBackoff < 0 || cfg.MaxBackoff < 0 {
		return fmt.Errorf("backoff durations must not be negative")
	}

	if cfg.MaxConcurrency < UnboundedConcurrency {
		return fmt.Errorf("max_concurrency must be >= %d (got %d)", UnboundedConcurrency, cfg.MaxConcurrency)
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base url %q: scheme and host are required", cfg.BaseURL)
	}

	return nil
}
