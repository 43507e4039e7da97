package discovery_test

import (
	"context"
	"sync"

	"mediabrowse/discovery/internal/domain"
)

type searchCall struct {
	query string
	page  int
}

// fakeSearcher answers by query string. Queries with a gate block until the
// gate is closed.
type fakeSearcher struct {
	mu      sync.Mutex
	calls   []searchCall
	results map[string][]domain.MediaItem
	errs    map[string]error
	gates   map[string]chan struct{}
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		results: make(map[string][]domain.MediaItem),
		errs:    make(map[string]error),
		gates:   make(map[string]chan struct{}),
	}
}

func (f *fakeSearcher) on(query string, ids ...string) *fakeSearcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[query] = items(ids...)
	return f
}

func (f *fakeSearcher) fail(query string, err error) *fakeSearcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[query] = err
	return f
}

func (f *fakeSearcher) block(query string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[query] = gate
	return gate
}

func (f *fakeSearcher) SearchMedia(ctx context.Context, query string, page int) ([]domain.MediaItem, error) {
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{query: query, page: page})
	gate := f.gates[query]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSearcher) queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.query)
	}
	return out
}

func items(ids ...string) []domain.MediaItem {
	out := make([]domain.MediaItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.MediaItem{ID: id, Title: "Title " + id})
	}
	return out
}

func keys(list []domain.MediaItem) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, item.IdentityKey())
	}
	return out
}
