package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediabrowse/discovery/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	calls int
	items []domain.MediaItem
	err   error
}

func (s *stubSearcher) SearchMedia(ctx context.Context, query string, page int) ([]domain.MediaItem, error) {
	s.calls++
	return s.items, s.err
}

// unreachableRedis returns a client whose every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestKey(t *testing.T) {
	assert.Equal(t, "discovery:search:1:action+movie+2025", Key("action movie 2025", 1))
	assert.NotEqual(t, Key("anime 2025", 1), Key("anime 2025", 2))
}

func TestCachedSearcher_FallsThroughWhenRedisIsDown(t *testing.T) {
	next := &stubSearcher{items: []domain.MediaItem{{ID: "tt1"}}}
	s := NewCachedSearcher(next, unreachableRedis(t), time.Minute)

	items, err := s.SearchMedia(context.Background(), "movie 2025", 1)
	require.NoError(t, err)
	assert.Equal(t, next.items, items)
	assert.Equal(t, 1, next.calls)
}

func TestCachedSearcher_PropagatesSearchErrors(t *testing.T) {
	next := &stubSearcher{err: errors.New("upstream down")}
	s := NewCachedSearcher(next, unreachableRedis(t), time.Minute)

	_, err := s.SearchMedia(context.Background(), "movie 2025", 1)
	assert.EqualError(t, err, "upstream down")
}
