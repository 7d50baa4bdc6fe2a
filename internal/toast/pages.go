package toast

import (
	"context"
	"fmt"
	"net/url"

	"github.com/storeops/toast-exports/internal/domain"
)

// Pages is a lazy, finite, forward-only traversal of one paginated listing.
// Callers pull one page at a time with Next; the traversal is restartable
// only by constructing a new Pages value, never resumable mid-stream.
type Pages[T any] struct {
	client  *Client
	store   string
	path    string
	params  url.Values
	next    string
	raw     []byte
	started bool
	done    bool
}

func newPages[T any](c *Client, store, path string, params url.Values) *Pages[T] {
	return &Pages[T]{client: c, store: store, path: path, params: params}
}

// Next returns the next page of records. The second return value is false
// once the sequence is exhausted. Any retrieval failure ends the sequence and
// reports domain.ErrFetchFailed.
func (p *Pages[T]) Next(ctx context.Context) ([]T, bool, error) {
	if p.done {
		return nil, false, nil
	}

	target := p.path
	params := p.params
	if p.started {
		target = p.next
		params = nil
	}

	var page []T
	next, raw, err := p.client.get(ctx, target, p.store, params, &page)
	if err != nil {
		p.done = true
		return nil, false, fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, p.path, err)
	}

	p.started = true
	p.next = next
	p.raw = raw
	if next == "" {
		p.done = true
	}
	return page, true, nil
}

// Raw returns the unparsed body of the page most recently returned by Next.
func (p *Pages[T]) Raw() []byte {
	return p.raw
}

// drain collects every remaining page into one slice.
func (p *Pages[T]) drain(ctx context.Context) ([]T, error) {
	var all []T
	for {
		page, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return all, nil
		}
		all = append(all, page...)
	}
}
