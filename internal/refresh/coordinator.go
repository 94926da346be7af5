// Package refresh schedules cache re-fetches in response to change signals.
// Each resource kind gets one Coordinator: a debounced, single-flight state
// machine that coalesces bursts of signals into a single eventual fetch, so a
// storm of chat-triggered mutations never becomes a storm of requests.
package refresh

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"chatfit/internal/signal"
)

// State is the coordinator's position in its Idle→Scheduled→Fetching cycle.
type State int

const (
	// Idle: no timer, no in-flight request.
	Idle State = iota
	// Scheduled: a debounce timer is armed; further signals reset it.
	Scheduled
	// Fetching: exactly one fetch is in flight; signals set a pending flag.
	Fetching
)

// DefaultWindow is the debounce quiet period before a fetch fires.
const DefaultWindow = time.Second

// FetchFunc performs one fetch for the resource kind and replaces its cache
// on success. A returned error leaves the previous cache untouched.
type FetchFunc func(ctx context.Context) error

// Coordinator drives refreshes for a single resource kind.
//
// An in-flight fetch is not cancelled when a newer signal arrives; if two
// fetches overlap at the boundary, whichever response is processed last wins
// the cache. That is a known gap, not a guarantee: contexts are already
// plumbed through FetchFunc so an abort can be added where the fetch is
// issued.
type Coordinator struct {
	name    string
	window  time.Duration
	fetch   FetchFunc
	loading func(bool)
	logger  *zap.Logger

	mu      sync.Mutex
	state   State
	timer   *time.Timer
	pending bool
	stopped bool

	// settled is closed and replaced each time a fetch settles, so a caller
	// holding the channel observes exactly the settle of the fetch it
	// preceded.
	settled chan struct{}
}

// New creates a coordinator. window <= 0 selects DefaultWindow; loading may be
// nil when no store flag needs driving; a nil logger disables warnings.
func New(name string, window time.Duration, loading func(bool), fetch FetchFunc, logger *zap.Logger) *Coordinator {
	if window <= 0 {
		window = DefaultWindow
	}
	if loading == nil {
		loading = func(bool) {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		name:    name,
		window:  window,
		fetch:   fetch,
		loading: loading,
		logger:  logger,
		settled: make(chan struct{}),
	}
}

// Signal notes that the resource may be stale. From Idle it arms the debounce
// timer; from Scheduled it resets the timer, coalescing the burst; during
// Fetching it sets a pending flag so the mutation that raced the in-flight
// fetch is not lost.
func (c *Coordinator) Signal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	switch c.state {
	case Idle:
		c.state = Scheduled
		c.timer = time.AfterFunc(c.window, c.fire)
	case Scheduled:
		// A nil timer here means a Flush fire is imminent; the signal
		// rides along with that fetch.
		if c.timer == nil {
			return
		}
		c.timer.Stop()
		c.timer = time.AfterFunc(c.window, c.fire)
	case Fetching:
		c.pending = true
	}
}

// Flush skips the remaining debounce wait. If a fetch is already in flight it
// marks a pending re-fetch instead. The fetch runs on its own goroutine.
func (c *Coordinator) Flush() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	if c.state == Fetching {
		c.pending = true
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.state = Scheduled
	c.mu.Unlock()
	go c.fire()
}

// Stop cancels any scheduled timer and ignores future signals. An in-flight
// fetch is left to settle on its own.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.pending = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.state == Scheduled {
		c.state = Idle
	}
}

// Name returns the resource kind this coordinator refreshes.
func (c *Coordinator) Name() string { return c.name }

// State returns the current machine state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Settled returns a channel that is closed when the next fetch settles.
// A caller that must observe a specific fetch grabs the channel before
// triggering it; a channel obtained after a settle waits for the following
// one.
func (c *Coordinator) Settled() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settled
}

// fire transitions Scheduled→Fetching, runs exactly one fetch, then returns
// to Idle. A failure logs and keeps the old cache; a pending signal re-arms
// the debounce timer immediately after settling.
func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.stopped || c.state != Scheduled {
		c.mu.Unlock()
		return
	}
	c.state = Fetching
	c.timer = nil
	c.mu.Unlock()

	c.loading(true)
	err := c.fetch(context.Background())
	c.loading(false)
	if err != nil {
		c.logger.Warn("refresh failed",
			zap.String("resource", c.name),
			zap.Error(err))
	}

	c.mu.Lock()
	c.state = Idle
	if c.pending && !c.stopped {
		c.pending = false
		c.state = Scheduled
		c.timer = time.AfterFunc(c.window, c.fire)
	}
	close(c.settled)
	c.settled = make(chan struct{})
	c.mu.Unlock()
}

// Bind subscribes the coordinator to its topic on the bus, returning the
// subscription so the caller can tear it down.
func Bind(bus *signal.Bus, topic signal.Topic, c *Coordinator) *signal.Subscription {
	return bus.Subscribe(topic, c.Signal)
}
