package core

// Now returns the current system tick. It never blocks and is safe to call
// from both normal and interrupt context.
func Now() uint32 {
	return loadTicks()
}

// advance moves the tick forward by exactly one. Only the periodic timer
// vector calls it.
func advance() {
	addTick()
}

// Elapsed returns the number of ticks since an earlier observation,
// valid across one counter wrap.
func Elapsed(since uint32) uint32 {
	return Now() - since
}

// TickBefore reports whether tick a comes before tick b. Both values must
// be within 2^31 ticks of each other.
func TickBefore(a, b uint32) bool {
	return int32(a-b) < 0
}
