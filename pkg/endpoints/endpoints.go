// Package endpoints holds thin per-operation wrappers over the generic verb
// methods of client.Client. Each function only fixes the path and parameter
// shape of one ESI operation; responses are returned as decoded JSON.
package endpoints

import (
	"context"
	"strconv"
	"strings"

	"github.com/Sternrassler/esi-go/pkg/client"
)

// Requester is the verb surface the wrappers need. *client.Client implements it.
type Requester interface {
	Get(ctx context.Context, path string, query, headers map[string]string) (any, error)
	Post(ctx context.Context, path string, query, headers map[string]string, payload any) (any, error)
	Put(ctx context.Context, path string, query, headers map[string]string, payload any) (any, error)
	Delete(ctx context.Context, path string, query, headers map[string]string) (any, error)
}

var _ Requester = (*client.Client)(nil)

// joinIDs renders ids the way ESI expects array query parameters.
func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
