package browse

import (
	"mediabrowse/discovery/internal/catalog"
	"mediabrowse/discovery/internal/discovery"
	"mediabrowse/discovery/internal/domain"
)

// Pages holds one page per media kind, in domain.MediaKinds order.
type Pages struct {
	pages map[domain.MediaKind]*Page
}

func NewPages(searcher discovery.Searcher, settings Settings) *Pages {
	pages := make(map[domain.MediaKind]*Page, len(domain.MediaKinds))
	for _, kind := range domain.MediaKinds {
		table, ok := catalog.Table(kind)
		if !ok {
			continue
		}
		pages[kind] = NewPage(table, searcher, settings)
	}
	return &Pages{pages: pages}
}

func (p *Pages) Get(kind domain.MediaKind) (*Page, bool) {
	page, ok := p.pages[kind]
	return page, ok
}

func (p *Pages) Kinds() []domain.MediaKind {
	kinds := make([]domain.MediaKind, 0, len(p.pages))
	for _, kind := range domain.MediaKinds {
		if _, ok := p.pages[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Home builds the home page rails from what the category pages have loaded.
func (p *Pages) Home() []catalog.Rail {
	var items []domain.MediaItem
	for _, kind := range p.Kinds() {
		items = append(items, p.pages[kind].View().State.Items...)
	}
	return catalog.HomeRails(items)
}

func (p *Pages) UnmountAll() {
	for _, page := range p.pages {
		page.Unmount()
	}
}
