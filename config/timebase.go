package config

import "fmt"

// TimerClockHz is the periodic timer's counter clock after the prescaler.
func (c *BoardConfig) TimerClockHz() uint32 {
	if c.TickPrescaler == 0 {
		return 0
	}
	return c.SysClockHz / c.TickPrescaler
}

// TickPeriod returns the auto-reload value giving one update interrupt per
// tick: counterClock/tickHz - 1. 16 MHz / 128 = 125 kHz, so a 1 ms tick
// needs 124.
func (c *BoardConfig) TickPeriod() (uint32, error) {
	if c.TickPrescaler == 0 || c.TickHz == 0 {
		return 0, ErrZeroDivider
	}
	counts := c.TimerClockHz() / c.TickHz
	if counts == 0 || counts-1 > MaxTickPeriod {
		return 0, fmt.Errorf("%w: %d counts per tick", ErrTickPeriodRange, counts)
	}
	return counts - 1, nil
}

// TickPeriodUs is the tick length actually produced by TickPeriod.
func (c *BoardConfig) TickPeriodUs() (uint32, error) {
	period, err := c.TickPeriod()
	if err != nil {
		return 0, err
	}
	return uint32(uint64(period+1) * 1000000 / uint64(c.TimerClockHz())), nil
}

// WakeupClockHz is the RTC wake-up counter clock.
func (c *BoardConfig) WakeupClockHz() uint32 {
	if c.RTCDivider == 0 || c.WakeupDivider == 0 {
		return 0
	}
	return c.RTCClockHz / c.RTCDivider / c.WakeupDivider
}

// WakeupCount returns the wake-up auto-reload value for WakeupPeriodMs.
func (c *BoardConfig) WakeupCount() (uint32, error) {
	clk := c.WakeupClockHz()
	if clk == 0 {
		return 0, ErrZeroDivider
	}
	counts := uint32(uint64(clk) * uint64(c.WakeupPeriodMs) / 1000)
	if counts == 0 || counts-1 > MaxWakeupCount {
		return 0, fmt.Errorf("%w: %d counts for %d ms", ErrRTCPeriodRange, counts, c.WakeupPeriodMs)
	}
	return counts - 1, nil
}

// TicksFromMs converts milliseconds to ticks, rounding up so a delay is
// never shorter than requested.
func (c *BoardConfig) TicksFromMs(ms uint32) uint32 {
	return uint32((uint64(ms)*uint64(c.TickHz) + 999) / 1000)
}

// Validate checks that both time bases fit their hardware counters.
func (c *BoardConfig) Validate() error {
	if _, err := c.TickPeriod(); err != nil {
		return err
	}
	if _, err := c.WakeupCount(); err != nil {
		return err
	}
	return nil
}
