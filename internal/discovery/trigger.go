package discovery

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultVisibilityThreshold is the share of the sentinel that has to be
// visible before the next page is requested.
const DefaultVisibilityThreshold = 0.1

// VisibilitySource reports the visible ratio (0..1) of the sentinel placed
// after the last rendered item. The channel is closed when ctx is done.
type VisibilitySource interface {
	Subscribe(ctx context.Context) <-chan float64
}

// Loader is the part of Controller the trigger drives.
type Loader interface {
	LoadNext(ctx context.Context) error
	IsLoading() bool
	HasMore() bool
}

// ViewportTrigger loads the next page whenever the sentinel becomes visible.
// Events are handled one at a time, so a single visibility event never causes
// overlapping LoadNext calls.
type ViewportTrigger struct {
	loader    Loader
	source    VisibilitySource
	threshold float64

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

func NewViewportTrigger(loader Loader, source VisibilitySource, threshold float64) *ViewportTrigger {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultVisibilityThreshold
	}
	return &ViewportTrigger{
		loader:    loader,
		source:    source,
		threshold: threshold,
	}
}

// Start begins observing. Calling Start on a running or stopped trigger does
// nothing.
func (t *ViewportTrigger) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil || t.stopped {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})

	go t.run(ctx, t.source.Subscribe(ctx), t.done)
}

// Stop ends observation and waits for an in-flight load to return. No
// LoadNext is issued after Stop returns.
func (t *ViewportTrigger) Stop() {
	t.mu.Lock()
	t.stopped = true
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (t *ViewportTrigger) run(ctx context.Context, events <-chan float64, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case ratio, ok := <-events:
			if !ok {
				return
			}
			t.handle(ctx, ratio)
		}
	}
}

func (t *ViewportTrigger) handle(ctx context.Context, ratio float64) {
	if ratio < t.threshold {
		return
	}
	if ctx.Err() != nil || t.loader.IsLoading() || !t.loader.HasMore() {
		return
	}

	log.Debugf("Sentinel %.0f%% visible, loading next page", ratio*100)

	if err := t.loader.LoadNext(ctx); err != nil {
		log.Warnf("⚠️ Viewport load failed, will retry on next visibility: %v", err)
	}
}

// ChannelSource is a push VisibilitySource: the hosting page reports layout
// observations through Report.
type ChannelSource struct {
	events chan float64
}

func NewChannelSource(buffer int) *ChannelSource {
	return &ChannelSource{events: make(chan float64, max(buffer, 1))}
}

// Report queues an observation. When the buffer is full the observation is
// dropped; a newer one is already pending.
func (s *ChannelSource) Report(ratio float64) bool {
	select {
	case s.events <- ratio:
		return true
	default:
		return false
	}
}

func (s *ChannelSource) Subscribe(ctx context.Context) <-chan float64 {
	out := make(chan float64)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ratio := <-s.events:
				select {
				case out <- ratio:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// PollSource samples a layout probe on a fixed interval.
type PollSource struct {
	Probe    func() float64
	Interval time.Duration
}

func (s PollSource) Subscribe(ctx context.Context) <-chan float64 {
	out := make(chan float64)
	interval := s.Interval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}

	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- s.Probe():
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
