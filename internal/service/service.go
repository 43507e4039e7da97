package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"mediabrowse/discovery/internal/catalog"
	"mediabrowse/discovery/internal/discovery"
	"mediabrowse/discovery/internal/domain"
	"mediabrowse/discovery/internal/repository"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type CrawlOptions struct {
	AnchorYear int
	MinYear    int
	MaxPages   int // 0 means until exhausted
	MaxWorkers int
	MaxRetries int           // consecutive failures tolerated per category
	RetryDelay time.Duration // wait before each retry, doubled per attempt
}

// CrawlStats summarizes one crawl run.
type CrawlStats struct {
	Categories int64
	Pages      int64
	Items      int64
	Failed     int64
}

// Crawler walks every category of the page tables to exhaustion and stores
// what it finds, using the same controller as the interactive pages.
type Crawler struct {
	repository repository.MediaRepository
	searcher   discovery.Searcher
	opts       CrawlOptions
}

func NewCrawler(repository repository.MediaRepository, searcher discovery.Searcher, opts CrawlOptions) *Crawler {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 1
	}
	return &Crawler{
		repository: repository,
		searcher:   searcher,
		opts:       opts,
	}
}

func (s *Crawler) Crawl(ctx context.Context, kinds []domain.MediaKind) (*CrawlStats, error) {
	tables := make([]domain.CategoryTable, 0, len(kinds))
	for _, kind := range kinds {
		table, ok := catalog.Table(kind)
		if !ok {
			return nil, fmt.Errorf("no category table for %s", kind)
		}
		tables = append(tables, table)
	}

	stats := &CrawlStats{}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxWorkers)

	for _, table := range tables {
		for _, category := range table.Categories {
			g.Go(func() error {
				return s.crawlCategory(ctx, table, category, stats)
			})
		}
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}

	log.Infof("✅ Crawl finished: %d categories, %d pages, %d items, %d failed",
		stats.Categories, stats.Pages, stats.Items, stats.Failed)

	return stats, nil
}

func (s *Crawler) crawlCategory(ctx context.Context, table domain.CategoryTable, category domain.Category, stats *CrawlStats) error {
	log.Infof("🔄 Processing category: %s / %s", table.Kind.GetPageTitle(), category.Label)

	controller := discovery.NewController(s.searcher, discovery.Options{
		Kind:       table.Kind,
		Categories: table,
		AnchorYear: s.opts.AnchorYear,
		MinYear:    s.opts.MinYear,
	})

	failures := 0
	err := controller.Reset(ctx, category.ID)
	for err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		failures++
		if failures > s.opts.MaxRetries {
			atomic.AddInt64(&stats.Failed, 1)
			log.Errorf("❌ Giving up on %s/%s after %d failures: %v", table.Kind, category.ID, failures, err)
			return nil
		}
		log.Warnf("🔄 Retrying first page of %s/%s (attempt %d)", table.Kind, category.ID, failures+1)
		if err := s.backoff(ctx, failures); err != nil {
			return err
		}
		err = controller.Reset(ctx, category.ID)
	}

	saved := 0
	if saved, err = s.saveNew(ctx, table.Kind, category.ID, controller, saved, stats); err != nil {
		return err
	}
	atomic.AddInt64(&stats.Pages, 1)

	failures = 0
	for controller.HasMore() {
		if s.opts.MaxPages > 0 && controller.Snapshot().Page >= s.opts.MaxPages {
			log.Infof("⏹️ %s/%s stopped at page limit %d", table.Kind, category.ID, s.opts.MaxPages)
			break
		}

		before := controller.Snapshot().Page
		if err := controller.LoadNext(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			if failures > s.opts.MaxRetries {
				atomic.AddInt64(&stats.Failed, 1)
				log.Errorf("❌ Giving up on %s/%s at page %d: %v", table.Kind, category.ID, before+1, err)
				break
			}
			log.Warnf("🔄 Retrying page %d of %s/%s (attempt %d)", before+1, table.Kind, category.ID, failures+1)
			if err := s.backoff(ctx, failures); err != nil {
				return err
			}
			continue
		}
		failures = 0

		if controller.Snapshot().Page > before {
			atomic.AddInt64(&stats.Pages, 1)
		}
		if saved, err = s.saveNew(ctx, table.Kind, category.ID, controller, saved, stats); err != nil {
			return err
		}
	}

	atomic.AddInt64(&stats.Categories, 1)
	log.Infof("✅ Completed %s/%s: %d pages, %d items", table.Kind, category.ID, controller.Snapshot().Page, saved)

	return nil
}

// backoff waits RetryDelay * 2^(attempt-1) or until ctx is done.
func (s *Crawler) backoff(ctx context.Context, attempt int) error {
	if s.opts.RetryDelay <= 0 {
		return ctx.Err()
	}
	delay := s.opts.RetryDelay << min(attempt-1, 6)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// saveNew stores the items appended since the last call. Items only ever
// grow at the tail within a session, so the saved count is an offset.
func (s *Crawler) saveNew(ctx context.Context, kind domain.MediaKind, categoryID string, controller *discovery.Controller, saved int, stats *CrawlStats) (int, error) {
	items := controller.Snapshot().Items
	if len(items) <= saved {
		return saved, nil
	}

	fresh := items[saved:]
	if s.repository != nil {
		if err := s.repository.SaveMediaItems(ctx, kind, categoryID, fresh); err != nil {
			return saved, fmt.Errorf("failed to save %s/%s: %w", kind, categoryID, err)
		}
	}
	atomic.AddInt64(&stats.Items, int64(len(fresh)))

	return len(items), nil
}
