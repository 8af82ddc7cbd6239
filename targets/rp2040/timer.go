//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"

	"radionode/core"
)

// The RP2040 timer is a free-running 1 MHz counter with four alarms. The
// TinyGo runtime sleeps on alarm 0, so the periodic tick uses alarm 1 and
// the wake-up timer alarm 2.
const (
	tickAlarm   = 1
	wakeupAlarm = 2
)

var (
	tickPeriodUs   uint32
	wakeupPeriodUs uint32
	nextTick       uint32
	nextWakeup     uint32
)

// timerFlags clears the alarm bits in TIMER.INTR (write 1 to clear)
type timerFlags struct{}

func (timerFlags) Clear(src core.Source) {
	switch src {
	case core.SourceSysTick:
		rp.TIMER.INTR.Set(1 << tickAlarm)
	case core.SourceRTCWakeup:
		rp.TIMER.INTR.Set(1 << wakeupAlarm)
	case core.SourceExtPin:
		// machine's GPIO handler acknowledges the edge before calling us
	}
}

// startTickTimer arms alarm 1 every periodUs microseconds
func startTickTimer(periodUs uint32) {
	tickPeriodUs = periodUs
	nextTick = rp.TIMER.TIMERAWL.Get() + tickPeriodUs

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_1, tickVector)
	rp.TIMER.INTR.Set(1 << tickAlarm)
	rp.TIMER.INTE.SetBits(1 << tickAlarm)
	rp.TIMER.ALARM1.Set(nextTick)
	intr.Enable()
}

// startWakeupTimer arms alarm 2 every periodUs microseconds
func startWakeupTimer(periodUs uint32) {
	wakeupPeriodUs = periodUs
	nextWakeup = rp.TIMER.TIMERAWL.Get() + wakeupPeriodUs

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_2, wakeupVector)
	rp.TIMER.INTR.Set(1 << wakeupAlarm)
	rp.TIMER.INTE.SetBits(1 << wakeupAlarm)
	rp.TIMER.ALARM2.Set(nextWakeup)
	intr.Enable()
}

// tickVector re-arms from the previous target, not from "now", so latency
// in one entry does not stretch the time base.
func tickVector(interrupt.Interrupt) {
	nextTick += tickPeriodUs
	rp.TIMER.ALARM1.Set(nextTick)
	core.Dispatch(core.SourceSysTick)
}

func wakeupVector(interrupt.Interrupt) {
	nextWakeup += wakeupPeriodUs
	rp.TIMER.ALARM2.Set(nextWakeup)
	core.Dispatch(core.SourceRTCWakeup)
}
