package endpoints

import "context"

// Status returns the server status (player count, server version).
func Status(ctx context.Context, r Requester) (any, error) {
	return r.Get(ctx, "/status/", nil, nil)
}
