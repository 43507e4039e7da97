package discovery_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mediabrowse/discovery/internal/discovery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLoader records LoadNext calls and flags overlapping ones.
type countingLoader struct {
	calls      atomic.Int32
	inFlight   atomic.Int32
	overlapped atomic.Bool
	hasMore    atomic.Bool
	loading    atomic.Bool
	delay      time.Duration
}

func (l *countingLoader) LoadNext(ctx context.Context) error {
	if l.inFlight.Add(1) > 1 {
		l.overlapped.Store(true)
	}
	defer l.inFlight.Add(-1)
	l.calls.Add(1)
	if l.delay > 0 {
		select {
		case <-time.After(l.delay):
		case <-ctx.Done():
		}
	}
	return nil
}

func (l *countingLoader) IsLoading() bool { return l.loading.Load() }
func (l *countingLoader) HasMore() bool   { return l.hasMore.Load() }

func TestViewportTrigger_LoadsWhenSentinelVisible(t *testing.T) {
	searcher := newFakeSearcher().
		on("movie 2025", "tt1").
		on("movie 2024", "tt2")
	c := newTestController(searcher)
	require.NoError(t, c.Reset(context.Background(), "popular"))

	source := discovery.NewChannelSource(4)
	trigger := discovery.NewViewportTrigger(c, source, discovery.DefaultVisibilityThreshold)
	trigger.Start(context.Background())
	defer trigger.Stop()

	source.Report(0.5)

	require.Eventually(t, func() bool { return c.Snapshot().Page == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"tt1", "tt2"}, keys(c.Snapshot().Items))
}

func TestViewportTrigger_IgnoresBelowThreshold(t *testing.T) {
	loader := &countingLoader{}
	loader.hasMore.Store(true)

	source := discovery.NewChannelSource(4)
	trigger := discovery.NewViewportTrigger(loader, source, 0.1)
	trigger.Start(context.Background())
	defer trigger.Stop()

	source.Report(0.05)
	source.Report(0)

	assert.Never(t, func() bool { return loader.calls.Load() > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	source.Report(0.1)
	assert.Eventually(t, func() bool { return loader.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestViewportTrigger_RespectsGuards(t *testing.T) {
	loader := &countingLoader{}
	source := discovery.NewChannelSource(4)
	trigger := discovery.NewViewportTrigger(loader, source, 0.1)
	trigger.Start(context.Background())
	defer trigger.Stop()

	// Exhausted.
	source.Report(1)
	assert.Never(t, func() bool { return loader.calls.Load() > 0 }, 80*time.Millisecond, 10*time.Millisecond)

	// Loading.
	loader.hasMore.Store(true)
	loader.loading.Store(true)
	source.Report(1)
	assert.Never(t, func() bool { return loader.calls.Load() > 0 }, 80*time.Millisecond, 10*time.Millisecond)

	loader.loading.Store(false)
	source.Report(1)
	assert.Eventually(t, func() bool { return loader.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestViewportTrigger_NeverOverlapsLoads(t *testing.T) {
	loader := &countingLoader{delay: 20 * time.Millisecond}
	loader.hasMore.Store(true)

	source := discovery.NewChannelSource(16)
	trigger := discovery.NewViewportTrigger(loader, source, 0.1)
	trigger.Start(context.Background())

	for i := 0; i < 10; i++ {
		source.Report(1)
	}

	require.Eventually(t, func() bool { return loader.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	trigger.Stop()

	assert.False(t, loader.overlapped.Load())
}

func TestViewportTrigger_NoLoadAfterStop(t *testing.T) {
	loader := &countingLoader{}
	loader.hasMore.Store(true)

	source := discovery.NewChannelSource(4)
	trigger := discovery.NewViewportTrigger(loader, source, 0.1)
	trigger.Start(context.Background())
	trigger.Stop()

	source.Report(1)
	assert.Never(t, func() bool { return loader.calls.Load() > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	// A stopped trigger cannot be restarted.
	trigger.Start(context.Background())
	source.Report(1)
	assert.Never(t, func() bool { return loader.calls.Load() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestViewportTrigger_StopWithoutStart(t *testing.T) {
	trigger := discovery.NewViewportTrigger(&countingLoader{}, discovery.NewChannelSource(1), 0)
	assert.NotPanics(t, trigger.Stop)
}

func TestPollSource_DrivesPagination(t *testing.T) {
	searcher := newFakeSearcher().
		on("movie 2025", "a").
		on("movie 2024", "b").
		on("movie 2023", "c")
	c := newTestController(searcher)
	require.NoError(t, c.Reset(context.Background(), "popular"))

	var mu sync.Mutex
	ratio := 1.0
	source := discovery.PollSource{
		Probe: func() float64 {
			mu.Lock()
			defer mu.Unlock()
			return ratio
		},
		Interval: 5 * time.Millisecond,
	}

	trigger := discovery.NewViewportTrigger(c, source, 0.1)
	trigger.Start(context.Background())
	defer trigger.Stop()

	// The sentinel stays on screen until the year 2022 page comes back empty.
	require.Eventually(t, func() bool { return !c.HasMore() }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, keys(c.Snapshot().Items))
	assert.Equal(t, 4, searcher.callCount())
}

func TestChannelSource_DropsWhenFull(t *testing.T) {
	source := discovery.NewChannelSource(1)
	assert.True(t, source.Report(0.5))
	assert.False(t, source.Report(0.6))
}
