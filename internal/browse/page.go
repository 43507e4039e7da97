package browse

import (
	"context"
	"fmt"
	"sync"

	"mediabrowse/discovery/internal/discovery"
	"mediabrowse/discovery/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Settings shared by every category page.
type Settings struct {
	AnchorYear          int
	VisibilityThreshold float64
}

// View is what a category page renders: the selector, the grid and the
// loading/end-of-list markers.
type View struct {
	Kind       domain.MediaKind   `json:"kind"`
	Title      string             `json:"title"`
	Categories []domain.Category  `json:"categories"`
	Active     string             `json:"active"`
	Mounted    bool               `json:"mounted"`
	State      discovery.Snapshot `json:"state"`
}

// Page is one category-filtered grid (movies, TV or anime). It binds the
// category selector to the controller and the sentinel to a viewport trigger.
type Page struct {
	table      domain.CategoryTable
	controller *discovery.Controller
	threshold  float64

	mu       sync.Mutex
	sentinel *discovery.ChannelSource
	trigger  *discovery.ViewportTrigger
	active   string
	mounted  bool
}

func NewPage(table domain.CategoryTable, searcher discovery.Searcher, settings Settings) *Page {
	return &Page{
		table: table,
		controller: discovery.NewController(searcher, discovery.Options{
			Kind:       table.Kind,
			Categories: table,
			AnchorYear: settings.AnchorYear,
		}),
		threshold: settings.VisibilityThreshold,
	}
}

func (p *Page) Kind() domain.MediaKind {
	return p.table.Kind
}

// Mount starts observing a fresh sentinel and loads the default category.
// Mounting an already mounted page only retries the first page of the active
// category when that load failed and nothing has been shown yet.
func (p *Page) Mount(ctx context.Context) error {
	p.mu.Lock()
	if p.mounted {
		active := p.active
		p.mu.Unlock()

		state := p.controller.Snapshot()
		if len(state.Items) == 0 && !state.IsLoading && state.HasMore {
			log.Infof("🔄 Retrying first page of %s/%s", p.table.Kind, active)
			return p.Select(ctx, active)
		}
		return nil
	}
	p.mounted = true
	p.sentinel = discovery.NewChannelSource(8)
	p.trigger = discovery.NewViewportTrigger(p.controller, p.sentinel, p.threshold)
	p.trigger.Start(context.WithoutCancel(ctx))
	p.mu.Unlock()

	log.Infof("📺 Mounted %s page", p.table.Kind.GetPageTitle())

	return p.Select(ctx, p.table.Default().ID)
}

// Select makes categoryID the active category and loads its first page.
func (p *Page) Select(ctx context.Context, categoryID string) error {
	if _, ok := p.table.Find(categoryID); !ok {
		return fmt.Errorf("%w: %s", discovery.ErrUnknownCategory, categoryID)
	}

	p.mu.Lock()
	p.active = categoryID
	p.mu.Unlock()

	return p.controller.Reset(ctx, categoryID)
}

// LoadMore requests the next page directly, as a "load more" button would.
func (p *Page) LoadMore(ctx context.Context) error {
	return p.controller.LoadNext(ctx)
}

func (p *Page) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// ReportVisibility feeds a sentinel observation to the viewport trigger.
// Observations arriving while the page is not mounted are ignored.
func (p *Page) ReportVisibility(ratio float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted {
		return false
	}
	return p.sentinel.Report(ratio)
}

// Unmount stops the viewport trigger and drops its sentinel together with
// any observation still queued. The page can be mounted again.
func (p *Page) Unmount() {
	p.mu.Lock()
	trigger := p.trigger
	p.trigger = nil
	p.sentinel = nil
	p.mounted = false
	p.mu.Unlock()

	if trigger != nil {
		trigger.Stop()
		log.Infof("📴 Unmounted %s page", p.table.Kind.GetPageTitle())
	}
}

func (p *Page) View() View {
	p.mu.Lock()
	active, mounted := p.active, p.mounted
	p.mu.Unlock()

	return View{
		Kind:       p.table.Kind,
		Title:      p.table.Kind.GetPageTitle(),
		Categories: p.table.Categories,
		Active:     active,
		Mounted:    mounted,
		State:      p.controller.Snapshot(),
	}
}
