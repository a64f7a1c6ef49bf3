package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/esi-go/pkg/client"
	"github.com/Sternrassler/esi-go/pkg/metrics"
)

// caller is the part of *client.Client used by the proxy.
type caller interface {
	Do(ctx context.Context, spec client.RequestSpec) (*client.Result, error)
}

// Upstream headers copied from the first page.
var forwardedHeaders = []string{"expires", "last-modified", "etag", "x-esi-request-id"}

func newMux(esi caller, timeout time.Duration, logger zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/esi/", esiProxyHandler(esi, timeout, logger))
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func esiProxyHandler(esi caller, timeout time.Duration, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, http.StatusMethodNotAllowed, "only GET is proxied")
			return
		}

		// /esi/markets/10000002/orders/ -> /markets/10000002/orders/
		route := strings.TrimPrefix(r.URL.Path, "/esi")

		query := make(map[string]string, len(r.URL.Query()))
		for key, values := range r.URL.Query() {
			query[key] = values[0]
		}

		var headers map[string]string
		if authz := r.Header.Get("Authorization"); authz != "" {
			headers = map[string]string{"Authorization": authz}
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		result, err := esi.Do(ctx, client.RequestSpec{
			Method:  http.MethodGet,
			Path:    route,
			Query:   query,
			Headers: headers,
		})
		if err != nil {
			status, message := statusForError(err)
			logger.Warn().Err(err).Str("path", route).Int("status", status).Msg("Proxied ESI call failed")
			writeError(w, status, message)
			return
		}

		body, err := result.JSON()
		if err != nil {
			logger.Error().Err(err).Str("path", route).Msg("Failed to aggregate pages")
			writeError(w, http.StatusBadGateway, "malformed upstream response")
			return
		}

		first := result.First()
		for _, name := range forwardedHeaders {
			if value := first.Header(name); value != "" {
				w.Header().Set(name, value)
			}
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Pages-Fetched", strconv.Itoa(len(result.Pages)))
		w.WriteHeader(first.StatusCode)

		if _, err := w.Write(body); err != nil {
			logger.Error().Err(err).Msg("Failed to write response")
		}

		logger.Info().
			Str("path", route).
			Int("status", first.StatusCode).
			Int("pages", len(result.Pages)).
			Msg("Proxied ESI call")
	}
}

// statusForError maps a client error to the status returned to the caller.
// ESI errors keep their upstream status, even after retries ran out.
func statusForError(err error) (int, string) {
	var esiErr *client.ESIError
	switch {
	case errors.As(err, &esiErr):
		return esiErr.StatusCode, esiErr.Message
	case errors.Is(err, client.ErrInvalidPath):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, client.ErrContextCancelled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "ESI call timed out"
	default:
		return http.StatusBadGateway, "ESI request failed"
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, message)
}
