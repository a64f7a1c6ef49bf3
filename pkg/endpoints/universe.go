package endpoints

import "context"

// UniverseNames resolves ids to names and categories.
func UniverseNames(ctx context.Context, r Requester, ids []int64) (any, error) {
	return r.Post(ctx, "/universe/names/", nil, nil, ids)
}

// UniverseIDs resolves names to ids.
func UniverseIDs(ctx context.Context, r Requester, names []string) (any, error) {
	return r.Post(ctx, "/universe/ids/", nil, nil, names)
}
