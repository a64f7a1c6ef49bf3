// Package metrics exposes the Prometheus registry the ESI packages register
// with. The metrics themselves live next to the code that updates them
// (pkg/client, pkg/auth) and are registered via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the ESI client.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the source Handler serves.
var Gatherer = prometheus.DefaultGatherer

// Handler returns an HTTP handler serving every registered metric in the
// Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - esi_requests_total{method, status} (Counter): HTTP exchanges by method and status
//   - esi_request_duration_seconds{method} (Histogram): Duration of logical calls
//   - esi_errors_total{kind, class} (Counter): Error responses by kind and class,
//     transport failures are counted as kind="network_error"
//
// Retry Metrics (pkg/client):
//   - esi_retries_total{kind} (Counter): Retry attempts by error kind
//   - esi_retry_backoff_seconds{kind} (Histogram): Backoff duration by error kind
//   - esi_retry_exhausted_total{kind} (Counter): Calls that used up every attempt
//
// Pagination Metrics (pkg/client):
//   - esi_pages_fetched_total (Counter): Follow-up pages fetched
//   - esi_pagination_sweeps_total (Counter): Sweeps over pending pages
//
// Token Metrics (pkg/auth):
//   - esi_token_store_operations_total{operation, result} (Counter)
//
// Example Prometheus Queries:
//
//   # Error limit hits
//   rate(esi_errors_total{kind="error_limited"}[5m])
//
//   # Calls that gave up
//   sum by (kind) (rate(esi_retry_exhausted_total[5m]))
//
//   # P95 call latency
//   histogram_quantile(0.95, rate(esi_request_duration_seconds_bucket[5m]))
//
//   # Average pages per paginated call
//   rate(esi_pages_fetched_total[5m]) / rate(esi_pagination_sweeps_total[5m])
