//go:build avr

package core

// The AVR core loads 32 bits one byte at a time, so a read racing the timer
// vector could see a torn value. Reads mask interrupts; the timer vector
// already runs masked.
var systemTicks uint32

func loadTicks() uint32 {
	state := disableInterrupts()
	t := systemTicks
	restoreInterrupts(state)
	return t
}

func addTick() {
	systemTicks++
}

// storeTicks seeds the counter (tests and hardware integration only)
func storeTicks(ticks uint32) {
	state := disableInterrupts()
	systemTicks = ticks
	restoreInterrupts(state)
}
