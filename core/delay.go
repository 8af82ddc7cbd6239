package core

// WaitMs blocks the normal context until delay ticks have elapsed since the
// call. Between checks the CPU halts until the next interrupt.
//
// The loop tests for equality: the timer vector adds exactly one per tick
// and every tick wakes the halter, so the target value is always observed.
// Callers whose halter can sleep through ticks must use WaitUntil instead.
//
// WaitMs never returns if the periodic timer is not running. It must not be
// called from an interrupt handler.
func WaitMs(delay uint16) {
	if delay == 0 {
		return
	}
	target := Now() + uint32(delay)
	for Now() != target {
		halter.WaitForInterrupt()
	}
}

// Deadline is an absolute tick value.
type Deadline uint32

// DeadlineAfter returns the deadline delay ticks from now.
func DeadlineAfter(delay uint32) Deadline {
	return Deadline(Now() + delay)
}

// Expired reports whether the deadline has been reached.
func (d Deadline) Expired() bool {
	return !TickBefore(Now(), uint32(d))
}

// Remaining returns the ticks left before the deadline, or 0 once expired.
func (d Deadline) Remaining() uint32 {
	now := Now()
	if !TickBefore(now, uint32(d)) {
		return 0
	}
	return uint32(d) - now
}

// WaitUntil blocks until the deadline is reached, using an ordered
// comparison so skipped ticks cannot make it miss the target.
func WaitUntil(d Deadline) {
	for !d.Expired() {
		halter.WaitForInterrupt()
	}
}
