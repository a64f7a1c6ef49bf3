package client

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/esi-go/pkg/pagination"
)

// paginate fetches pages 2..total in retried sweeps. Each sweep dispatches
// every pending page once; a page leaves the pending set only on success.
// A terminal failure of any page fails the whole call.
func (c *Client) paginate(ctx context.Context, callID string, spec RequestSpec, first *RawResponse, total int, logger zerolog.Logger) ([]*RawResponse, error) {
	pending := pagination.NewPending(total)

	pages := make([]*RawResponse, 0, total)
	pages = append(pages, first)

	logger.Debug().Int("total_pages", total).Msg("Starting parallel page fetch")

	err := c.retry(ctx, spec.Method, logger, func(attempt int) error {
		numbers := pending.Pages()
		specs := make([]RequestSpec, len(numbers))
		for i, page := range numbers {
			specs[i] = spec.WithPage(page)
		}

		esiPaginationSweepsTotal.Inc()
		logger.Debug().
			Int("attempt", attempt).
			Int("pending", len(numbers)).
			Msg("Page sweep")

		var terminal, retriable error
		for i, out := range c.dispatch(ctx, callID, specs) {
			if out.err != nil {
				if isRetriable(out.err) {
					if retriable == nil {
						retriable = out.err
					}
				} else if terminal == nil {
					terminal = out.err
				}
				continue
			}

			if pending.Done(numbers[i]) {
				pages = append(pages, out.resp)
				esiPagesFetchedTotal.Inc()
			}
		}

		if terminal != nil {
			return terminal
		}
		return retriable
	})
	if err != nil {
		return nil, err
	}

	pagination.Sort(pages)
	return pages, nil
}
