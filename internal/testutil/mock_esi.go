// Package testutil provides testing utilities for the ESI client.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockESIResponse defines the behavior for a mock ESI endpoint response.
type MockESIResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is a snapshot of a request received by the mock.
type RecordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Header http.Header
	Body   []byte
}

// MockESI is a configurable mock ESI server for testing.
type MockESI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	requests  []RecordedRequest
	pathCount map[string]int
	pageCount map[string]map[int]int
}

// NewMockESI creates a new mock ESI server.
func NewMockESI() *MockESI {
	mock := &MockESI{
		handlers:  make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pathCount: make(map[string]int),
		pageCount: make(map[string]map[int]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		query := make(map[string]string)
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
		page := 1
		if n, err := strconv.Atoi(query["page"]); err == nil {
			page = n
		}

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  query,
			Header: r.Header.Clone(),
			Body:   body,
		})
		mock.pathCount[r.URL.Path]++
		if mock.pageCount[r.URL.Path] == nil {
			mock.pageCount[r.URL.Path] = make(map[int]int)
		}
		mock.pageCount[r.URL.Path][page]++
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"error":"Requested route %s not found"}`, r.URL.Path)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockESI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockESI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockESI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.pathCount = make(map[string]int)
	m.pageCount = make(map[string]map[int]int)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockESI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockESI) SetResponse(path string, resp MockESIResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, resp)
	})
}

// SetSequence answers the n-th request to path with responses[n]. Once the
// sequence is used up the last response repeats.
func (m *MockESI) SetSequence(path string, responses ...MockESIResponse) {
	var mu sync.Mutex
	next := 0

	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		resp := responses[min(next, len(responses)-1)]
		next++
		mu.Unlock()

		writeResponse(w, resp)
	})
}

// PagedEndpoint describes a paginated endpoint served by SetPages.
type PagedEndpoint struct {
	// Pages holds the body of every page, page 1 first.
	Pages []string

	// Delays per page number, used to force out-of-order completion.
	Delays map[int]time.Duration

	// Faults per page number are answered, in order, before the page succeeds.
	Faults map[int][]MockESIResponse
}

// SetPages serves a paginated endpoint with an X-Pages header on every page.
func (m *MockESI) SetPages(path string, endpoint PagedEndpoint) {
	var mu sync.Mutex
	faultsServed := make(map[int]int)

	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > len(endpoint.Pages) {
				writeResponse(w, MockESIResponse{
					StatusCode: http.StatusNotFound,
					Body:       `{"error":"Undefined page"}`,
				})
				return
			}
			page = n
		}

		mu.Lock()
		faults := endpoint.Faults[page]
		served := faultsServed[page]
		faultsServed[page]++
		mu.Unlock()

		if served < len(faults) {
			writeResponse(w, faults[served])
			return
		}

		writeResponse(w, MockESIResponse{
			StatusCode: http.StatusOK,
			Body:       endpoint.Pages[page-1],
			Delay:      endpoint.Delays[page],
			Headers: map[string]string{
				"X-Pages":      strconv.Itoa(len(endpoint.Pages)),
				"Content-Type": "application/json; charset=utf-8",
			},
		})
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockESI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// GetPathCount returns the number of requests made to path.
func (m *MockESI) GetPathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCount[path]
}

// GetPageCount returns how often page of path was requested.
func (m *MockESI) GetPageCount(path string, page int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pageCount[path][page]
}

// Requests returns a copy of every recorded request.
func (m *MockESI) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// LastRequest returns the most recent request, or false if none was made.
func (m *MockESI) LastRequest() (RecordedRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

func writeResponse(w http.ResponseWriter, resp MockESIResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewHealthyResponse creates a standard 200 OK response.
func NewHealthyResponse(data string) MockESIResponse {
	return MockESIResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewErrorResponse creates a JSON error response with the given status.
func NewErrorResponse(status int, message string) MockESIResponse {
	return MockESIResponse{
		StatusCode: status,
		Body:       fmt.Sprintf(`{"error":%q}`, message),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewErrorLimitedResponse creates a 420 Error Limited response.
func NewErrorLimitedResponse() MockESIResponse {
	return NewErrorResponse(420, "Error limited message")
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockESIResponse {
	return NewErrorResponse(http.StatusInternalServerError, "Internal server error")
}

// NewUnavailableResponse creates a 503 Service Unavailable response.
func NewUnavailableResponse() MockESIResponse {
	return NewErrorResponse(http.StatusServiceUnavailable, "Service unavailable")
}

// NewUpstreamErrorResponse creates a 520 response.
func NewUpstreamErrorResponse() MockESIResponse {
	return NewErrorResponse(520, "Upstream server error")
}
