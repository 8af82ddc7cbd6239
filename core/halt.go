package core

// Halter suspends the normal context until the next interrupt of any kind
// has been serviced. Callers re-check their own condition afterwards; a
// wake-up says nothing about which source fired.
type Halter interface {
	WaitForInterrupt()
}

// cpuHalter is the platform's low-power wait instruction.
type cpuHalter struct{}

var halter Halter = cpuHalter{}

// SetHalter installs the wait primitive used by WaitMs and WaitUntil.
// Passing nil restores the CPU halter.
func SetHalter(h Halter) {
	if h == nil {
		h = cpuHalter{}
	}
	halter = h
}

// Idle halts the normal context until the next interrupt. Application loops
// call it when they have nothing left to do.
func Idle() {
	halter.WaitForInterrupt()
}
