package pagination

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// HeaderPages is the response header carrying the total page count.
const HeaderPages = "x-pages"

// QueryPage is the query parameter selecting a page.
const QueryPage = "page"

// TotalPages parses an X-Pages header value. A missing or malformed value
// counts as a single page.
func TotalPages(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Pending tracks the page numbers still waiting for a successful fetch.
// It is safe for concurrent use.
type Pending struct {
	mu    sync.Mutex
	pages map[int]struct{}
}

// NewPending returns the set {2..total}. Page 1 is fetched by the initiating
// request and is never pending.
func NewPending(total int) *Pending {
	p := &Pending{pages: make(map[int]struct{})}
	for page := 2; page <= total; page++ {
		p.pages[page] = struct{}{}
	}
	return p
}

// Pages returns a snapshot of the pending pages in ascending order.
func (p *Pending) Pages() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	pages := make([]int, 0, len(p.pages))
	for page := range p.pages {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}

// Done removes a page from the set. It reports false if the page was not pending.
func (p *Pending) Done(page int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.pages[page]; !ok {
		return false
	}
	delete(p.pages, page)
	return true
}

// Len returns the number of pending pages.
func (p *Pending) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pages)
}

// Empty reports whether every page has been fetched.
func (p *Pending) Empty() bool {
	return p.Len() == 0
}
