//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// hostIRQ stands in for the CPU interrupt mask on the host. Holding it means
// no vector can run, which gives the simulator a single priority level.
var hostIRQ sync.Mutex

// disableInterrupts masks vectors until restoreInterrupts is called
func disableInterrupts() State {
	hostIRQ.Lock()
	return 0
}

// restoreInterrupts unmasks vectors
func restoreInterrupts(state State) {
	hostIRQ.Unlock()
}

// enterInterrupt marks the start of a vector entry
func enterInterrupt() State {
	return disableInterrupts()
}

// exitInterrupt marks the end of a vector entry
func exitInterrupt(state State) {
	restoreInterrupts(state)
}
