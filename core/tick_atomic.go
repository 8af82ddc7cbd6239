//go:build !avr

package core

import "sync/atomic"

var systemTicks uint32

func loadTicks() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

func addTick() {
	atomic.AddUint32(&systemTicks, 1)
}

// storeTicks seeds the counter (tests and hardware integration only)
func storeTicks(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}
