//go:build !tinygo

// Package sim runs the firmware on the host. Interrupt sources are
// goroutines that call core.Dispatch; the CPU halt is a condition variable
// that wakes on any serviced interrupt.
package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	ring "github.com/randomizedcoder/go-lock-free-ring"

	"radionode/core"
)

// Event is one simulated interrupt delivery
type Event struct {
	Source core.Source
	Tick   uint32
	At     time.Time
}

// Config sets the simulated source periods. A zero period leaves that
// source idle.
type Config struct {
	TickPeriod   time.Duration
	WakeupPeriod time.Duration
}

// EventTapSize is the capacity of the event tap. Events beyond it are
// counted as dropped until Drain makes room.
const EventTapSize = 4096

// CollectInterval is how often Collect empties the tap. At the reference
// 1 kHz tick the tap holds about four seconds of events.
const CollectInterval = 100 * time.Millisecond

// Machine is a simulated CPU: it implements core.Halter and
// core.PendingFlags.
type Machine struct {
	mu         sync.Mutex
	wake       *sync.Cond
	generation uint64
	sleepers   int // halted in WaitForInterrupt
	waking     int // woken by the last Raise but not yet running

	pending [core.NumSources]atomic.Bool
	raised  [core.NumSources]atomic.Uint32
	cleared [core.NumSources]atomic.Uint32

	events  *ring.ShardedRing
	dropped atomic.Uint32

	statsMu   sync.Mutex
	lastTick  time.Time
	intervals []float64
}

// New returns an idle machine.
func New() (*Machine, error) {
	events, err := ring.NewShardedRing(EventTapSize, 1)
	if err != nil {
		return nil, err
	}
	m := &Machine{events: events}
	m.wake = sync.NewCond(&m.mu)
	return m, nil
}

// Install makes the machine the core's halter and pending-flag sink and
// installs the vectors.
func (m *Machine) Install(v core.Vectors) {
	core.InstallVectors(v, m)
	core.SetHalter(m)
}

// Raise asserts src and runs its vector entry, exactly as the hardware
// would. Entries from different goroutines are serialised by the core.
func (m *Machine) Raise(src core.Source) {
	if src >= core.NumSources {
		return
	}
	m.pending[src].Store(true)
	m.raised[src].Add(1)

	core.Dispatch(src)

	ev := Event{Source: src, Tick: core.Now(), At: time.Now()}
	if !m.events.Write(0, ev) {
		m.dropped.Add(1)
	}

	// Like a CPU leaving wfi, every halted context resumes before the next
	// interrupt is delivered, so none of them can sleep through a tick.
	m.mu.Lock()
	m.generation++
	m.waking += m.sleepers
	m.sleepers = 0
	m.wake.Broadcast()
	for m.waking > 0 {
		m.wake.Wait()
	}
	m.mu.Unlock()
}

// Clear implements core.PendingFlags.
func (m *Machine) Clear(src core.Source) {
	m.pending[src].Store(false)
	m.cleared[src].Add(1)
}

// WaitForInterrupt implements core.Halter: it returns once any interrupt
// has been serviced after the call.
func (m *Machine) WaitForInterrupt() {
	m.mu.Lock()
	gen := m.generation
	m.sleepers++
	for m.generation == gen {
		m.wake.Wait()
	}
	m.waking--
	m.wake.Broadcast()
	m.mu.Unlock()
}

// Pending reports whether src's pending flag is set.
func (m *Machine) Pending(src core.Source) bool {
	return m.pending[src].Load()
}

// Counts returns how often src was raised and how often its flag was cleared.
func (m *Machine) Counts(src core.Source) (raised, cleared uint32) {
	return m.raised[src].Load(), m.cleared[src].Load()
}

// Start runs the periodic sources until ctx is done.
func (m *Machine) Start(ctx context.Context, cfg Config) *sync.WaitGroup {
	var wg sync.WaitGroup
	if cfg.TickPeriod > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.runSource(ctx, cfg.TickPeriod, func() { m.Raise(core.SourceSysTick) })
		}()
	}
	if cfg.WakeupPeriod > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.runSource(ctx, cfg.WakeupPeriod, func() { m.Raise(core.SourceRTCWakeup) })
		}()
	}
	return &wg
}

func (m *Machine) runSource(ctx context.Context, period time.Duration, fire func()) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fire()
		}
	}
}

func (m *Machine) recordInterval(now time.Time) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	if !m.lastTick.IsZero() {
		m.intervals = append(m.intervals, float64(now.Sub(m.lastTick))/float64(time.Microsecond))
	}
	m.lastTick = now
}

// Drain returns the events captured since the last call, oldest first.
// Timer events also feed the jitter statistics.
func (m *Machine) Drain() []Event {
	var events []Event
	for {
		v, ok := m.events.TryRead()
		if !ok {
			return events
		}
		ev, isEvent := v.(Event)
		if !isEvent {
			continue
		}
		if ev.Source == core.SourceSysTick {
			m.recordInterval(ev.At)
		}
		events = append(events, ev)
	}
}

// Collect drains the tap every interval until ctx is done, passing each
// event to fn when fn is non-nil. It drains once more before returning.
func (m *Machine) Collect(ctx context.Context, interval time.Duration, fn func(Event)) {
	deliver := func() {
		for _, ev := range m.Drain() {
			if fn != nil {
				fn(ev)
			}
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			deliver()
			return
		case <-ticker.C:
			deliver()
		}
	}
}

// Dropped returns the number of events lost because the tap was full.
func (m *Machine) Dropped() uint32 {
	return m.dropped.Load()
}
