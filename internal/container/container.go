package container

import (
	"context"
	"fmt"
	"time"

	"mediabrowse/discovery/internal/api"
	"mediabrowse/discovery/internal/browse"
	"mediabrowse/discovery/internal/cache"
	"mediabrowse/discovery/internal/client"
	"mediabrowse/discovery/internal/config"
	"mediabrowse/discovery/internal/discovery"
	"mediabrowse/discovery/internal/domain"
	"mediabrowse/discovery/internal/proxy"
	"mediabrowse/discovery/internal/repository"
	"mediabrowse/discovery/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Searcher   discovery.Searcher
	Repository repository.MediaRepository
	Pages      *browse.Pages
	Server     *api.Server
	Crawler    *service.Crawler

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	proxySupplier := proxy.NewSupplier(ctx, cfg.Search.Proxies, cfg.Search.BaseURL)

	var searcher discovery.Searcher = client.NewSearchClient(cfg.Search, proxySupplier)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		searcher = cache.NewCachedSearcher(searcher, rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second)
	}
	container.Searcher = searcher

	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			container.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("✅ Connected to Postgres successfully")

		container.db = db
		container.Repository = repository.NewMediaRepository(db)
		if err := container.Repository.EnsureSchema(ctx); err != nil {
			container.Close()
			return nil, err
		}
	}

	container.Pages = browse.NewPages(searcher, browse.Settings{
		AnchorYear:          cfg.Discovery.AnchorYear,
		VisibilityThreshold: cfg.Discovery.VisibilityThreshold,
	})
	container.Server = api.NewServer(container.Pages)

	container.Crawler = service.NewCrawler(container.Repository, searcher, service.CrawlOptions{
		AnchorYear: cfg.Discovery.AnchorYear,
		MinYear:    cfg.Discovery.MinYear,
		MaxPages:   cfg.Discovery.MaxPages,
		MaxWorkers: cfg.Search.MaxWorkers,
		MaxRetries: cfg.Discovery.CrawlRetries,
		RetryDelay: time.Duration(cfg.Discovery.CrawlRetryDelay) * time.Millisecond,
	})

	return container, nil
}

// Run executes the configured mode until ctx is cancelled or the crawl ends.
func (c *Container) Run(ctx context.Context) error {
	switch c.Config.Mode {
	case "crawl":
		if c.Repository == nil {
			log.Warn("⚠️ Database disabled, crawl results will only be logged")
		}
		_, err := c.Crawler.Crawl(ctx, domain.MediaKinds)
		return err
	default:
		defer c.Pages.UnmountAll()
		addr := fmt.Sprintf("%s:%d", c.Config.Server.Host, c.Config.Server.Port)
		return c.Server.ListenAndServe(ctx, addr)
	}
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠️ Failed to close Redis client: %v", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
