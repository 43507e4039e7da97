package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"mediabrowse/discovery/internal/config"
	"mediabrowse/discovery/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.SearchConfig {
	return config.SearchConfig{
		BaseURL:               baseURL,
		ImageBaseURL:          "https://img.test/w500",
		APIKey:                "key-123",
		Timeout:               5,
		MaxRetries:            0,
		CircuitBreakerMinutes: 1,
	}
}

func TestSearchClient_SearchMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "action movie 2025", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "key-123", r.Header.Get("X-API-Key"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[
			{"imdb_id":"tt1","title":"First","type":"movie","year":"2025-02-14","rating":"7.5","poster":"/p1.jpg","cast":"A, B"},
			{"tmdb_id":42,"name":"Second","type":"series","year":2024,"rating":6,"poster":"https://cdn.test/p2.jpg","cast":["C"]},
			{"title":"Nameless"}
		]}`)
	}))
	defer server.Close()

	c := NewSearchClient(testConfig(server.URL+"/api"), nil)

	items, err := c.SearchMedia(context.Background(), "action movie 2025", 1)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, domain.MediaItem{
		ID:        "tt1",
		Title:     "First",
		Kind:      domain.MediaKindMovie,
		Year:      2025,
		Rating:    7.5,
		PosterURL: "https://img.test/w500/p1.jpg",
		Cast:      []string{"A", "B"},
	}, items[0])

	assert.Equal(t, "tmdb:42", items[1].IdentityKey())
	assert.Equal(t, "Second", items[1].Title)
	assert.Equal(t, domain.MediaKindTV, items[1].Kind)
	assert.Equal(t, 2024, items[1].Year)
	assert.Equal(t, "https://cdn.test/p2.jpg", items[1].PosterURL)
}

func TestSearchClient_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer server.Close()

	items, err := NewSearchClient(testConfig(server.URL), nil).SearchMedia(context.Background(), "anime 1990", 36)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSearchClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewSearchClient(testConfig(server.URL), nil).SearchMedia(context.Background(), "movie 2025", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSearchClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>maintenance</html>`)
	}))
	defer server.Close()

	_, err := NewSearchClient(testConfig(server.URL), nil).SearchMedia(context.Background(), "movie 2025", 1)
	assert.ErrorContains(t, err, "failed to parse results")
}

func TestSearchClient_QuotaOpensCircuitBreaker(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewSearchClient(testConfig(server.URL), nil)

	_, err := c.SearchMedia(context.Background(), "movie 2025", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	requests := hits.Load()

	_, err = c.SearchMedia(context.Background(), "movie 2024", 2)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, requests, hits.Load(), "open breaker must not reach the server")
}

func TestSearchClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSearchClient(testConfig(server.URL), nil).SearchMedia(ctx, "movie 2025", 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchParser_AbsoluteImageURL(t *testing.T) {
	p := newSearchParser("https://img.test/w500/")

	assert.Equal(t, "", p.absoluteImageURL(""))
	assert.Equal(t, "https://img.test/w500/a.jpg", p.absoluteImageURL("/a.jpg"))
	assert.Equal(t, "https://img.test/w500/a.jpg", p.absoluteImageURL("a.jpg"))
	assert.Equal(t, "https://cdn.test/a.jpg", p.absoluteImageURL("//cdn.test/a.jpg"))
	assert.Equal(t, "http://x.test/a.jpg", p.absoluteImageURL("http://x.test/a.jpg"))
}
