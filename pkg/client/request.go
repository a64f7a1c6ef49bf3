package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sternrassler/esi-go/pkg/pagination"
)

// Header names set by the request builder.
const (
	HeaderAuthorization = "Authorization"
	HeaderAccept        = "Accept"
	HeaderUserAgent     = "User-Agent"
	HeaderContentType   = "Content-Type"
	HeaderXRequestID    = "X-Request-ID"
	ContentTypeJSON     = "application/json"
)

// RequestSpec describes one logical call. It is treated as immutable once
// handed to the client: retries and page requests are derived copies.
type RequestSpec struct {
	Method string

	// Path is the unversioned route, e.g. "/characters/2112625428/".
	Path string

	Query   map[string]string
	Headers map[string]string

	// Payload is serialized as JSON body. Nil sends no body.
	Payload any
}

// WithPage returns a copy of the spec addressing the given page.
func (s RequestSpec) WithPage(page int) RequestSpec {
	query := maps.Clone(s.Query)
	if query == nil {
		query = make(map[string]string, 1)
	}
	query[pagination.QueryPage] = strconv.Itoa(page)
	s.Query = query
	return s
}

func (s RequestSpec) hasPage() bool {
	_, ok := s.Query[pagination.QueryPage]
	return ok
}

// pageNumber returns the page the spec addresses, 1 when unset.
func (s RequestSpec) pageNumber() int {
	if n, err := strconv.Atoi(s.Query[pagination.QueryPage]); err == nil && n > 0 {
		return n
	}
	return 1
}

func (s RequestSpec) validate() error {
	if s.Method == "" {
		return fmt.Errorf("method is required")
	}
	if !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, s.Path)
	}
	return nil
}

// buildURL joins base url, version and path, then appends the encoded query.
func (c *Client) buildURL(spec RequestSpec) string {
	fullURL := strings.TrimSuffix(c.config.BaseURL, "/") + "/" + strings.Trim(c.config.Version, "/") + spec.Path

	if len(spec.Query) == 0 {
		return fullURL
	}

	params := url.Values{}
	for k, v := range spec.Query {
		params.Set(k, v)
	}
	return fullURL + "?" + params.Encode()
}

// buildRequest creates a fresh *http.Request from the spec. It performs no I/O.
func (c *Client) buildRequest(ctx context.Context, callID string, spec RequestSpec) (*http.Request, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	var body io.Reader
	if spec.Payload != nil {
		data, err := json.Marshal(spec.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, c.buildURL(spec), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set(HeaderAccept, ContentTypeJSON)
	req.Header.Set(HeaderUserAgent, c.config.UserAgent)
	if body != nil {
		req.Header.Set(HeaderContentType, ContentTypeJSON)
	}
	if callID != "" {
		req.Header.Set(HeaderXRequestID, callID)
	}

	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	// A caller supplied Authorization header wins over the client token.
	if token := c.Token(); token != "" && req.Header.Get(HeaderAuthorization) == "" {
		req.Header.Set(HeaderAuthorization, "Bearer "+token)
	}

	return req, nil
}
