//go:build tinygo && cortexm

package core

import "device/arm"

// WaitForInterrupt executes wfi. The core sleeps until any enabled
// interrupt is pending, runs its vector, then resumes here.
func (cpuHalter) WaitForInterrupt() {
	arm.Asm("wfi")
}
