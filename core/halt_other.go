//go:build !tinygo || !cortexm

package core

import "runtime"

// WaitForInterrupt yields to whatever delivers interrupts on this platform.
// It has no low-power state, so WaitMs degrades to a polling loop.
func (cpuHalter) WaitForInterrupt() {
	runtime.Gosched()
}
