package core

import (
	"sync"
	"testing"
	"time"
)

// resetCore puts the package-level state back to a known baseline
func resetCore(t *testing.T, seed uint32) {
	t.Helper()
	InstallVectors(Vectors{}, nil)
	SetHalter(nil)
	ClearDispatchTrace()
	storeTicks(seed)
}

func TestAdvanceCountsExactly(t *testing.T) {
	testCases := []struct {
		name  string
		seed  uint32
		steps int
		want  uint32
	}{
		{"from zero", 0, 10, 10},
		{"single", 1234, 1, 1235},
		{"across wrap", 0xFFFFFFFA, 10, 4},
		{"at wrap", 0xFFFFFFFF, 1, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resetCore(t, tc.seed)
			for i := 0; i < tc.steps; i++ {
				_ = Now() // intervening reads must not disturb the count
				Dispatch(SourceSysTick)
			}
			if got := Now(); got != tc.want {
				t.Errorf("Now() = %d, want %d", got, tc.want)
			}
			if got := Elapsed(tc.seed); got != uint32(tc.steps) {
				t.Errorf("Elapsed = %d, want %d", got, tc.steps)
			}
		})
	}
}

func TestOnlySysTickAdvances(t *testing.T) {
	resetCore(t, 500)

	Dispatch(SourceRTCWakeup)
	Dispatch(SourceExtPin)
	Dispatch(NumSources) // out of range, ignored

	if got := Now(); got != 500 {
		t.Errorf("Now() = %d after non-timer sources, want 500", got)
	}
}

func TestTickBefore(t *testing.T) {
	testCases := []struct {
		a, b uint32
		want bool
	}{
		{1, 2, true},
		{2, 1, false},
		{5, 5, false},
		{0xFFFFFFFF, 0, true},
		{0, 0xFFFFFFFF, false},
		{0xFFFFFFF0, 0x10, true},
	}

	for _, tc := range testCases {
		if got := TickBefore(tc.a, tc.b); got != tc.want {
			t.Errorf("TickBefore(%#x, %#x) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNowMonotonicUnderConcurrentTicks(t *testing.T) {
	resetCore(t, 0xFFFFFF00)

	const total = 2000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			Dispatch(SourceSysTick)
		}
	}()

	start := uint32(0xFFFFFF00)
	last := start
	deadline := time.Now().Add(5 * time.Second)
	for Elapsed(start) < total && time.Now().Before(deadline) {
		now := Now()
		if TickBefore(now, last) {
			t.Fatalf("tick went backwards: %#x after %#x", now, last)
		}
		last = now
	}
	wg.Wait()

	if got := Elapsed(start); got != total {
		t.Errorf("Elapsed = %d, want %d", got, total)
	}
}
