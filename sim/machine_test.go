//go:build !tinygo

package sim

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"radionode/core"
)

func newMachine(t *testing.T, v core.Vectors) *Machine {
	t.Helper()
	m, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m.Install(v)
	t.Cleanup(func() {
		core.InstallVectors(core.Vectors{}, nil)
		core.SetHalter(nil)
	})
	return m
}

func TestRaiseClearsPendingFlag(t *testing.T) {
	var sawPending bool
	var m *Machine
	m = newMachine(t, core.Vectors{
		ExtPin: func() { sawPending = m.Pending(core.SourceExtPin) },
	})

	m.Raise(core.SourceExtPin)

	if !sawPending {
		t.Error("handler ran with the pending flag already clear")
	}
	if m.Pending(core.SourceExtPin) {
		t.Error("pending flag still set after dispatch")
	}
	raised, cleared := m.Counts(core.SourceExtPin)
	if raised != 1 || cleared != 1 {
		t.Errorf("raised=%d cleared=%d, want 1/1", raised, cleared)
	}
	for _, src := range []core.Source{core.SourceSysTick, core.SourceRTCWakeup} {
		if r, c := m.Counts(src); r != 0 || c != 0 {
			t.Errorf("%s raised=%d cleared=%d, want 0/0", src, r, c)
		}
	}
}

func TestWaitUntilOnSimulatedTimer(t *testing.T) {
	m := newMachine(t, core.Vectors{})

	ctx, cancel := context.WithCancel(context.Background())
	wg := m.Start(ctx, Config{TickPeriod: 200 * time.Microsecond})
	defer func() {
		cancel()
		wg.Wait()
	}()

	start := core.Now()
	done := make(chan uint32, 1)
	go func() {
		core.WaitUntil(core.DeadlineAfter(25))
		done <- core.Now()
	}()

	select {
	case end := <-done:
		if got := end - start; got < 25 {
			t.Errorf("returned after %d ticks, want >= 25", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("wait did not return")
	}
}

func TestHaltWakesOnAnySource(t *testing.T) {
	m := newMachine(t, core.Vectors{})

	woke := make(chan struct{})
	var waiting atomic.Bool
	go func() {
		waiting.Store(true)
		m.WaitForInterrupt()
		close(woke)
	}()

	// keep raising until the halt has observed one; the first raise may
	// land before the goroutine reached WaitForInterrupt
	deadline := time.After(5 * time.Second)
	for {
		if waiting.Load() {
			m.Raise(core.SourceRTCWakeup)
		}
		select {
		case <-woke:
			return
		case <-deadline:
			t.Fatal("halt did not wake on rtc interrupt")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestDrainAndReport(t *testing.T) {
	m := newMachine(t, core.Vectors{})

	m.Raise(core.SourceSysTick)
	m.Raise(core.SourceRTCWakeup)
	m.Raise(core.SourceSysTick)

	events := m.Drain()
	if len(events) != 3 {
		t.Fatalf("drained %d events, want 3", len(events))
	}
	want := []core.Source{core.SourceSysTick, core.SourceRTCWakeup, core.SourceSysTick}
	for i, ev := range events {
		if ev.Source != want[i] {
			t.Errorf("event %d source = %s, want %s", i, ev.Source, want[i])
		}
	}
	if len(m.Drain()) != 0 {
		t.Error("second drain returned events")
	}

	r := m.Report()
	if r.Raised[core.SourceSysTick] != 2 || r.Cleared[core.SourceSysTick] != 2 {
		t.Errorf("systick raised=%d cleared=%d", r.Raised[core.SourceSysTick], r.Cleared[core.SourceSysTick])
	}

	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "rtc      raised=1 cleared=1") {
		t.Errorf("report missing rtc line:\n%s", buf.String())
	}
}

func TestTimerJitterStats(t *testing.T) {
	m := newMachine(t, core.Vectors{})

	base := time.Now()
	for i := 0; i < 5; i++ {
		m.recordInterval(base.Add(time.Duration(i) * time.Millisecond))
	}

	r := m.Report()
	if r.Samples != 4 {
		t.Fatalf("samples = %d, want 4", r.Samples)
	}
	if r.IntervalMean != 1000 || r.IntervalStd != 0 {
		t.Errorf("mean=%.1f std=%.1f, want 1000/0", r.IntervalMean, r.IntervalStd)
	}
}

func TestCollectKeepsTapFromOverflowing(t *testing.T) {
	m := newMachine(t, core.Vectors{})

	var collected atomic.Uint32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Collect(ctx, time.Millisecond, func(ev Event) {
			if ev.Source == core.SourceSysTick {
				collected.Add(1)
			}
		})
	}()

	// more than the tap holds, delivered in batches the collector keeps up with
	const total, batch = EventTapSize + 1000, 1000
	deadline := time.Now().Add(5 * time.Second)
	for raised := 0; raised < total; {
		for i := 0; i < batch && raised < total; i++ {
			m.Raise(core.SourceSysTick)
			raised++
		}
		for collected.Load() < uint32(raised) {
			if time.Now().After(deadline) {
				cancel()
				<-done
				t.Fatalf("collected %d of %d events", collected.Load(), raised)
			}
			time.Sleep(time.Millisecond)
		}
	}
	cancel()
	<-done

	if got := collected.Load(); got != total {
		t.Errorf("collected %d events, want %d", got, total)
	}
	r := m.Report()
	if r.Dropped != 0 {
		t.Errorf("dropped = %d, want 0", r.Dropped)
	}
	if r.Samples != total-1 {
		t.Errorf("jitter samples = %d, want %d", r.Samples, total-1)
	}
}

func TestReportDrainsTap(t *testing.T) {
	m := newMachine(t, core.Vectors{})

	for i := 0; i < 3; i++ {
		m.Raise(core.SourceSysTick)
	}
	m.Raise(core.SourceRTCWakeup)

	if r := m.Report(); r.Samples != 2 {
		t.Errorf("samples = %d, want 2", r.Samples)
	}
	if len(m.Drain()) != 0 {
		t.Error("events left in the tap after Report")
	}
}
