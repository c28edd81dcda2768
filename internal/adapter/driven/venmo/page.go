package venmo

import "context"

// ListOptions carries the continuation arguments of a list operation.
type ListOptions struct {
	// Offset is the number of records to skip on offset-paged endpoints.
	Offset int
	// Limit caps the page size. Zero selects the endpoint default.
	Limit int
	// BeforeID restricts cursor-paged endpoints to records older than this id.
	BeforeID string
}

// unboundedOffset marks an offset-paged endpoint without a maximum offset.
const unboundedOffset = -1

type pageFetcher[T any] func(ctx context.Context, opts ListOptions) (*Page[T], error)

// Page is one page of records plus what is needed to fetch the following
// page. Every call to Next performs exactly one request; nothing is
// prefetched.
type Page[T any] struct {
	Items []T

	fetch       pageFetcher[T]
	opts        ListOptions
	offsetPaged bool
	maxOffset   int
	idOf        func(T) string
}

// newOffsetPage attaches offset continuation to items fetched with opts.
// Continuation stops once the next offset would pass maxOffset.
func newOffsetPage[T any](items []T, opts ListOptions, maxOffset int, fetch pageFetcher[T]) *Page[T] {
	return &Page[T]{Items: items, fetch: fetch, opts: opts, offsetPaged: true, maxOffset: maxOffset}
}

// newCursorPage attaches before-id continuation to items fetched with opts.
func newCursorPage[T any](items []T, opts ListOptions, fetch pageFetcher[T], idOf func(T) string) *Page[T] {
	return &Page[T]{Items: items, fetch: fetch, opts: opts, idOf: idOf}
}

// Len returns the number of records on the page.
func (p *Page[T]) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// HasNext reports whether Next would issue a request.
func (p *Page[T]) HasNext() bool {
	return p != nil && len(p.Items) > 0 && p.fetch != nil && !p.pastMaxOffset()
}

func (p *Page[T]) pastMaxOffset() bool {
	return p.offsetPaged && p.maxOffset != unboundedOffset && p.opts.Offset+len(p.Items) > p.maxOffset
}

// Next fetches the following page. Offset-paged pages continue at
// Offset+Len; cursor-paged pages continue before the last record's id. A page
// with no records, no continuation, or whose next offset passes the endpoint
// maximum returns an empty terminal page.
func (p *Page[T]) Next(ctx context.Context) (*Page[T], error) {
	if !p.HasNext() {
		return &Page[T]{Items: []T{}}, nil
	}

	next := p.opts
	if p.offsetPaged {
		next.Offset = p.opts.Offset + len(p.Items)
	} else {
		last := p.Items[len(p.Items)-1]
		next.BeforeID = p.idOf(last)
		if next.BeforeID == "" {
			return &Page[T]{Items: []T{}}, nil
		}
	}
	return p.fetch(ctx, next)
}
