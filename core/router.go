package core

import "sync/atomic"

// Source identifies a hardware interrupt vector.
type Source uint8

const (
	SourceSysTick   Source = iota // periodic timer update
	SourceRTCWakeup               // RTC wake-up timer
	SourceExtPin                  // external pin edge (radio IRQ line)

	NumSources
)

func (s Source) String() string {
	switch s {
	case SourceSysTick:
		return "systick"
	case SourceRTCWakeup:
		return "rtc"
	case SourceExtPin:
		return "extpin"
	default:
		return "unknown"
	}
}

// Vectors holds the application handlers called from interrupt context.
// Handlers must return quickly and must never call WaitMs.
type Vectors struct {
	SysTick        func() // after the tick advances
	PeripheralTick func() // after SysTick, same interrupt
	RTCWakeup      func()
	ExtPin         func()
}

// PendingFlags clears a source's hardware pending bit. A flag left set
// re-triggers its vector as soon as the entry returns.
type PendingFlags interface {
	Clear(src Source)
}

type noFlags struct{}

func (noFlags) Clear(Source) {}

var (
	vectorTable    [NumSources]func()
	pendingFlags   PendingFlags = noFlags{}
	dispatchCounts [NumSources]uint32
)

func init() {
	InstallVectors(Vectors{}, nil)
}

// InstallVectors builds the vector table. Call it once during bring-up,
// before any source is enabled.
func InstallVectors(v Vectors, flags PendingFlags) {
	if flags == nil {
		flags = noFlags{}
	}
	sysTick := orNop(v.SysTick)
	peripheralTick := orNop(v.PeripheralTick)

	vectorTable[SourceSysTick] = func() {
		advance()
		sysTick()
		peripheralTick()
	}
	vectorTable[SourceRTCWakeup] = orNop(v.RTCWakeup)
	vectorTable[SourceExtPin] = orNop(v.ExtPin)
	pendingFlags = flags

	for i := range dispatchCounts {
		atomic.StoreUint32(&dispatchCounts[i], 0)
	}
}

func orNop(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return fn
}

// Dispatch is the vector entry for src. Target code maps each hardware
// vector here. The handler runs to completion before the pending flag is
// cleared, so a source never re-enters its own handler.
func Dispatch(src Source) {
	if src >= NumSources {
		return
	}
	state := enterInterrupt()
	vectorTable[src]()
	atomic.AddUint32(&dispatchCounts[src], 1)
	recordDispatch(src, Now())
	pendingFlags.Clear(src)
	exitInterrupt(state)
}

// DispatchCount returns how many times src has been dispatched since the
// vectors were installed.
func DispatchCount(src Source) uint32 {
	if src >= NumSources {
		return 0
	}
	return atomic.LoadUint32(&dispatchCounts[src])
}
