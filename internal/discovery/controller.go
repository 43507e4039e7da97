package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mediabrowse/discovery/internal/domain"

	log "github.com/sirupsen/logrus"
)

var ErrUnknownCategory = errors.New("unknown category")

// Searcher is the remote media search. An empty result is a valid answer
// meaning there is nothing more to show for that query.
type Searcher interface {
	SearchMedia(ctx context.Context, query string, page int) ([]domain.MediaItem, error)
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseExhausted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of the controller state handed to the presentation layer.
type Snapshot struct {
	Session    uint64             `json:"session"`
	CategoryID string             `json:"category_id"`
	Page       int                `json:"page"`
	Items      []domain.MediaItem `json:"items"`
	IsLoading  bool               `json:"is_loading"`
	HasMore    bool               `json:"has_more"`
	Phase      string             `json:"phase"`
}

type Options struct {
	Kind       domain.MediaKind
	Categories domain.CategoryTable
	AnchorYear int
	// MinYear, when set, ends a session instead of querying a year older than
	// it. Category pages leave it at zero and stop only on an empty page; the
	// crawler uses it to bound a run.
	MinYear int
}

// pageState is replaced as a whole on every reset. items is never appended to
// in place, so it can be shared with snapshots.
type pageState struct {
	category  domain.Category
	page      int
	items     []domain.MediaItem
	loading   bool
	exhausted bool
}

// Controller drives incremental discovery for one page kind: it owns the
// accumulated items of the active category session and fetches year pages
// on demand. Each Reset starts a new session; responses issued under an older
// session are dropped when they arrive.
type Controller struct {
	searcher    Searcher
	kind        domain.MediaKind
	categories  domain.CategoryTable
	synthesizer QuerySynthesizer
	minYear     int

	mu      sync.Mutex
	session uint64
	state   pageState
}

func NewController(searcher Searcher, opts Options) *Controller {
	return &Controller{
		searcher:    searcher,
		kind:        opts.Kind,
		categories:  opts.Categories,
		synthesizer: NewQuerySynthesizer(opts.AnchorYear),
		minYear:     opts.MinYear,
	}
}

func (c *Controller) Kind() domain.MediaKind {
	return c.kind
}

// Reset starts a new session for categoryID and fetches its first page.
// It supersedes any request still in flight. A fetch error is logged and
// returned; the controller is left idle with no items so a later Reset can
// retry.
func (c *Controller) Reset(ctx context.Context, categoryID string) error {
	category, ok := c.categories.Find(categoryID)
	if !ok {
		return fmt.Errorf("%w: %s (%s)", ErrUnknownCategory, categoryID, c.kind)
	}

	c.mu.Lock()
	c.session++
	session := c.session
	c.state = pageState{
		category: category,
		page:     1,
		loading:  true,
	}
	c.mu.Unlock()

	log.Infof("🔄 [%s] Switching to category %s (session %d)", c.kind, category.ID, session)

	return c.fetch(ctx, session, category, 1)
}

// LoadNext fetches the page after the current one. It does nothing while a
// request is outstanding, after the session is exhausted, or before the first
// Reset.
func (c *Controller) LoadNext(ctx context.Context) error {
	c.mu.Lock()
	if c.session == 0 || c.state.loading || c.state.exhausted {
		c.mu.Unlock()
		return nil
	}

	session := c.session
	category := c.state.category
	nextPage := c.state.page + 1

	if c.minYear > 0 && c.synthesizer.YearFor(nextPage) < c.minYear {
		c.state.exhausted = true
		c.mu.Unlock()
		log.Infof("🏁 [%s] %s reached year floor %d after %d pages", c.kind, category.ID, c.minYear, nextPage-1)
		return nil
	}

	c.state.loading = true
	c.mu.Unlock()

	return c.fetch(ctx, session, category, nextPage)
}

func (c *Controller) fetch(ctx context.Context, session uint64, category domain.Category, page int) error {
	query := c.synthesizer.Synthesize(category.QueryPhrase, page)

	results, err := c.searcher.SearchMedia(ctx, query, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if session != c.session {
		log.Debugf("[%s] Dropping response for %q from superseded session %d", c.kind, query, session)
		return nil
	}

	c.state.loading = false

	if err != nil {
		log.Errorf("❌ [%s] Failed to load page %d of %s: %v", c.kind, page, category.ID, err)
		return fmt.Errorf("failed to load page %d of %s: %w", page, category.ID, err)
	}

	if len(results) == 0 {
		c.state.exhausted = true
		log.Infof("🏁 [%s] No results for %q, %s exhausted after %d pages", c.kind, query, category.ID, c.state.page)
		return nil
	}

	tagged := make([]domain.MediaItem, len(results))
	for i, item := range results {
		item.Kind = c.kind
		tagged[i] = item
	}

	before := len(c.state.items)
	c.state.items = Merge(c.state.items, tagged)
	c.state.page = page

	log.Debugf("[%s] Page %d of %s added %d of %d items (total %d)",
		c.kind, page, category.ID, len(c.state.items)-before, len(results), len(c.state.items))

	return nil
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Session:    c.session,
		CategoryID: c.state.category.ID,
		Page:       c.state.page,
		Items:      append([]domain.MediaItem{}, c.state.items...),
		IsLoading:  c.state.loading,
		HasMore:    c.hasMoreLocked(),
		Phase:      c.phaseLocked().String(),
	}
}

func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.loading
}

func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMoreLocked()
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phaseLocked()
}

func (c *Controller) hasMoreLocked() bool {
	return c.session > 0 && !c.state.exhausted
}

func (c *Controller) phaseLocked() Phase {
	switch {
	case c.state.loading:
		return PhaseLoading
	case c.state.exhausted:
		return PhaseExhausted
	default:
		return PhaseIdle
	}
}
