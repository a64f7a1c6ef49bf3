// Package client provides the core ESI HTTP client: request building,
// concurrent dispatch, retries, pagination and error mapping.
package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/esi-go/pkg/logging"
	"github.com/Sternrassler/esi-go/pkg/pagination"
)

// TokenSource provides a bearer token, e.g. one stored by an SSO flow.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the main ESI client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger

	mu    sync.RWMutex
	token string
}

// New creates a new ESI client. Zero fields of cfg are filled from DefaultConfig,
// except Token, IdempotentRetriesOnly, HTTPClient and Logger.
func New(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	logger := logging.NewLogger("esi-client")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		logger:     logger,
		token:      cfg.Token,
	}, nil
}

// SetToken sets the bearer token used for subsequent requests. An empty
// token disables the Authorization header. It is meant to be called once
// authentication completes, before traffic starts.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// LoadToken reads a token from src and sets it.
func (c *Client) LoadToken(ctx context.Context, src TokenSource) error {
	token, err := src.Token(ctx)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	c.SetToken(token)
	return nil
}

// Config returns the effective configuration (token excluded).
func (c *Client) Config() Config {
	cfg := c.config
	cfg.Token = ""
	return cfg
}

// Get performs a GET request and returns the decoded body. Paginated
// responses are returned as one array holding every page in order.
func (c *Client) Get(ctx context.Context, path string, query, headers map[string]string) (any, error) {
	return c.call(ctx, RequestSpec{Method: http.MethodGet, Path: path, Query: query, Headers: headers})
}

// Post performs a POST request with an optional JSON payload.
func (c *Client) Post(ctx context.Context, path string, query, headers map[string]string, payload any) (any, error) {
	return c.call(ctx, RequestSpec{Method: http.MethodPost, Path: path, Query: query, Headers: headers, Payload: payload})
}

// Put performs a PUT request with an optional JSON payload.
func (c *Client) Put(ctx context.Context, path string, query, headers map[string]string, payload any) (any, error) {
	return c.call(ctx, RequestSpec{Method: http.MethodPut, Path: path, Query: query, Headers: headers, Payload: payload})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query, headers map[string]string) (any, error) {
	return c.call(ctx, RequestSpec{Method: http.MethodDelete, Path: path, Query: query, Headers: headers})
}

func (c *Client) call(ctx context.Context, spec RequestSpec) (any, error) {
	result, err := c.Do(ctx, spec)
	if err != nil {
		return nil, err
	}
	return result.Decode()
}

// Do executes one logical call: the initial request under retry, followed by
// the remaining pages when the response announces more than one.
// It returns once every constituent request reached a terminal state.
func (c *Client) Do(ctx context.Context, spec RequestSpec) (*Result, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	callID := uuid.NewString()
	logger := c.logger.With().
		Str("call_id", callID).
		Str("method", spec.Method).
		Str("path", spec.Path).
		Logger()

	startTime := time.Now()
	defer func() {
		esiRequestDuration.WithLabelValues(spec.Method).Observe(time.Since(startTime).Seconds())
	}()

	logger.Debug().Msg("Executing ESI request")

	var first *RawResponse
	err := c.retry(ctx, spec.Method, logger, func(int) error {
		out := c.dispatch(ctx, callID, []RequestSpec{spec})[0]
		if out.err != nil {
			return out.err
		}
		first = out.resp
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("ESI request failed")
		return nil, err
	}

	// An explicit page parameter asks for that page only.
	if spec.hasPage() {
		return &Result{Pages: []*RawResponse{first}}, nil
	}

	total := pagination.TotalPages(first.Header(pagination.HeaderPages))
	if total <= 1 {
		return &Result{Pages: []*RawResponse{first}}, nil
	}

	pages, err := c.paginate(ctx, callID, spec, first, total, logger)
	if err != nil {
		logger.Error().Err(err).Int("pages", total).Msg("ESI pagination failed")
		return nil, err
	}

	logger.Debug().
		Int("pages", total).
		Dur("duration", time.Since(startTime)).
		Msg("Fetch complete")

	return &Result{Pages: pages}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Close releases idle connections held by the transport.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
