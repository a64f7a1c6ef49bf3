package pagination

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Numbered is implemented by values that know the page they belong to.
type Numbered interface {
	PageNumber() int
}

// Sort orders pages ascending by page number, in place.
func Sort[T Numbered](pages []T) {
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].PageNumber() < pages[j].PageNumber()
	})
}

// Concat joins page bodies into a single JSON array, preserving order.
// Array bodies contribute their elements; any other JSON value is appended
// as one element. Empty bodies contribute nothing.
func Concat(bodies [][]byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	first := true
	for i, body := range bodies {
		body = bytes.TrimSpace(body)
		if len(body) == 0 {
			continue
		}

		var elems []json.RawMessage
		if body[0] == '[' {
			if err := json.Unmarshal(body, &elems); err != nil {
				return nil, fmt.Errorf("page %d: invalid JSON array: %w", i+1, err)
			}
		} else {
			if !json.Valid(body) {
				return nil, fmt.Errorf("page %d: invalid JSON body", i+1)
			}
			elems = []json.RawMessage{body}
		}

		for _, elem := range elems {
			if !first {
				buf.WriteByte(',')
			}
			buf.Write(elem)
			first = false
		}
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}
