package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// attemptsFor returns the attempt budget for a method.
func (c *Client) attemptsFor(method string) int {
	if c.config.IdempotentRetriesOnly && (method == http.MethodPost || method == http.MethodPut) {
		return 1
	}
	return c.config.Retries
}

// newBackOff returns a jittered exponential backoff (±20%).
func (c *Client) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.InitialBackoff
	b.MaxInterval = c.config.MaxBackoff
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.2
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// retry runs unit until it succeeds, fails with a non-retriable error, or the
// attempt budget is spent. Every attempt replays the same immutable work.
func (c *Client) retry(ctx context.Context, method string, logger zerolog.Logger, unit func(attempt int) error) error {
	attempts := c.attemptsFor(method)
	b := c.newBackOff()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := unit(attempt)
		if err == nil {
			if attempt > 1 {
				logger.Info().
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		lastErr = err

		if !isRetriable(err) {
			return err
		}

		if attempt >= attempts {
			break
		}

		kind, _ := KindOf(err)
		esiRetriesTotal.WithLabelValues(string(kind)).Inc()

		wait := b.NextBackOff()
		esiRetryBackoffSeconds.WithLabelValues(string(kind)).Observe(wait.Seconds())

		logger.Warn().
			Str("kind", string(kind)).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("Retrying request after backoff")

		select {
		case <-ctx.Done():
			logger.Warn().
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return fmt.Errorf("%w: %w", ErrContextCancelled, ctx.Err())
		case <-time.After(wait):
		}
	}

	if attempts == 1 {
		return lastErr
	}

	kind, _ := KindOf(lastErr)
	esiRetryExhaustedTotal.WithLabelValues(string(kind)).Inc()
	logger.Error().
		Str("kind", string(kind)).
		Int("max_attempts", attempts).
		Msg("Retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, attempts, lastErr)
}
