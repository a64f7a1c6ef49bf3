package client

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// outcome is the terminal state of one dispatched request.
type outcome struct {
	resp *RawResponse
	err  error
}

// dispatch executes specs concurrently and blocks until all of them are
// terminal. outcomes[i] belongs to specs[i]. A failing request does not
// cancel its siblings.
func (c *Client) dispatch(ctx context.Context, callID string, specs []RequestSpec) []outcome {
	outcomes := make([]outcome, len(specs))

	var g errgroup.Group
	if c.config.MaxConcurrency > 0 {
		g.SetLimit(c.config.MaxConcurrency)
	}

	for i, spec := range specs {
		g.Go(func() error {
			outcomes[i] = c.send(ctx, callID, spec)
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}

// send performs a single HTTP exchange and maps non-2xx statuses to *ESIError.
func (c *Client) send(ctx context.Context, callID string, spec RequestSpec) outcome {
	page := spec.pageNumber()

	req, err := c.buildRequest(ctx, callID, spec)
	if err != nil {
		return outcome{err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("call_id", callID).
			Str("path", spec.Path).
			Int("page", page).
			Msg("HTTP request failed")
		esiRequestsTotal.WithLabelValues(spec.Method, "network_error").Inc()
		return outcome{err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}

	raw, err := readResponse(resp, page)
	if err != nil {
		esiRequestsTotal.WithLabelValues(spec.Method, "network_error").Inc()
		return outcome{err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}

	esiRequestsTotal.WithLabelValues(spec.Method, strconv.Itoa(raw.StatusCode)).Inc()

	if raw.StatusCode < 200 || raw.StatusCode >= 300 {
		esiErr := NewESIError(raw)
		esiErrorsTotal.WithLabelValues(string(esiErr.Kind), string(esiErr.Kind.Class())).Inc()

		c.logger.Warn().
			Str("call_id", callID).
			Str("path", spec.Path).
			Int("page", page).
			Int("status", raw.StatusCode).
			Str("kind", string(esiErr.Kind)).
			Msg("ESI request error")

		return outcome{resp: raw, err: esiErr}
	}

	return outcome{resp: raw}
}
