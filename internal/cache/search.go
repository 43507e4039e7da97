package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"mediabrowse/discovery/internal/discovery"
	"mediabrowse/discovery/internal/domain"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const keyPrefix = "discovery:search:"

// CachedSearcher serves repeated (query, page) lookups from Redis. Cache
// failures are logged and fall through to the wrapped searcher.
type CachedSearcher struct {
	next        discovery.Searcher
	redisClient redis.UniversalClient
	ttl         time.Duration
}

func NewCachedSearcher(next discovery.Searcher, redisClient redis.UniversalClient, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{
		next:        next,
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func Key(query string, page int) string {
	return fmt.Sprintf("%s%d:%s", keyPrefix, page, url.QueryEscape(query))
}

func (c *CachedSearcher) SearchMedia(ctx context.Context, query string, page int) ([]domain.MediaItem, error) {
	key := Key(query, page)

	items, hit, err := c.get(ctx, key)
	if err != nil {
		log.Warnf("⚠️ Search cache read failed for %s: %v", key, err)
	} else if hit {
		log.Debugf("Search cache hit for %s (%d items)", key, len(items))
		return items, nil
	}

	items, err = c.next.SearchMedia(ctx, query, page)
	if err != nil {
		return nil, err
	}

	if err := c.set(ctx, key, items); err != nil {
		log.Warnf("⚠️ Search cache write failed for %s: %v", key, err)
	}

	return items, nil
}

func (c *CachedSearcher) get(ctx context.Context, key string) ([]domain.MediaItem, bool, error) {
	val, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	var items []domain.MediaItem
	if err := json.Unmarshal(val, &items); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return items, true, nil
}

func (c *CachedSearcher) set(ctx context.Context, key string, items []domain.MediaItem) error {
	if items == nil {
		items = []domain.MediaItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.redisClient.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
