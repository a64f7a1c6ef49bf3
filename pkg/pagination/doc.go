// Package pagination provides the building blocks for ESI paginated endpoints.
//
// ESI uses the X-Pages header to indicate the total page count of a collection.
// The client fetches page 1, reads the count with TotalPages, then fetches the
// remaining pages in sweeps: each sweep dispatches every page still held by a
// Pending set concurrently, and a page leaves the set only once it has been
// fetched successfully. A failed sweep is retried over what is left.
//
// Example usage:
//
//	total := pagination.TotalPages(resp.Header("x-pages"))
//	pending := pagination.NewPending(total)
//	for !pending.Empty() {
//		for _, page := range pending.Pages() {
//			// fetch page, then pending.Done(page) on success
//		}
//	}
//
// Pages complete in any order. Sort and Concat restore page order before the
// aggregate is handed to the caller.
package pagination
