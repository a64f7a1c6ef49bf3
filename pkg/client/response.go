package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Sternrassler/esi-go/pkg/pagination"
)

// RawResponse is the result of one HTTP exchange.
type RawResponse struct {
	StatusCode int

	// Headers holds the first value of every response header, keyed lower-case.
	Headers map[string]string

	Body []byte

	// Page is the page number the request was issued for (1 for unpaged calls).
	Page int
}

// Header returns a header value using a case-insensitive lookup.
func (r *RawResponse) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

// PageNumber returns the page the response belongs to.
func (r *RawResponse) PageNumber() int {
	return r.Page
}

// readResponse drains and closes resp, producing a RawResponse.
func readResponse(resp *http.Response, page int) (*RawResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    normalizeHeaders(resp.Header),
		Body:       body,
		Page:       page,
	}, nil
}

func normalizeHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		if len(values) == 0 {
			continue
		}
		out[strings.ToLower(key)] = values[0]
	}
	return out
}

// Decode parses a JSON body. Integral numbers decode as int64 (float64 when
// out of range), other numbers as float64. An empty body decodes to nil.
func Decode(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode response: trailing data after JSON value")
	}
	return convertNumbers(v), nil
}

func convertNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = convertNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = convertNumbers(t[k])
		}
		return t
	default:
		return v
	}
}

// Result holds the responses of one logical call, ordered by page ascending.
type Result struct {
	Pages []*RawResponse
}

// First returns the page 1 response.
func (r *Result) First() *RawResponse {
	if len(r.Pages) == 0 {
		return nil
	}
	return r.Pages[0]
}

// Paginated reports whether more than one page was fetched.
func (r *Result) Paginated() bool {
	return len(r.Pages) > 1
}

// JSON returns the aggregated body: the body of a single page unchanged, or
// the page bodies concatenated into one JSON array in page order.
func (r *Result) JSON() (json.RawMessage, error) {
	if len(r.Pages) == 0 {
		return nil, nil
	}
	if len(r.Pages) == 1 {
		return r.Pages[0].Body, nil
	}

	bodies := make([][]byte, len(r.Pages))
	for i, page := range r.Pages {
		bodies[i] = page.Body
	}
	return pagination.Concat(bodies)
}

// Decode returns the aggregated body decoded with Decode.
func (r *Result) Decode() (any, error) {
	body, err := r.JSON()
	if err != nil {
		return nil, err
	}
	return Decode(body)
}

// Unmarshal decodes the aggregated body into v.
func (r *Result) Unmarshal(v any) error {
	body, err := r.JSON()
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
