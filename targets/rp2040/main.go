//go:build rp2040

package main

import (
	"machine"

	"radionode/app"
	"radionode/config"
	"radionode/core"
	"radionode/i2c"
	"radionode/radio"
)

func main() {
	cfg := config.Default()

	core.SetGPIODriver(NewRPGPIODriver())
	core.SetDebugWriter(writeDebug)
	core.SetDebugEnabled(cfg.DebugSerial)

	bus := i2c.NewBus(machine.I2C0, cfg.I2C.TimeoutTicks)
	transceiver := radio.New(machine.SPI0, core.GPIOPin(cfg.Pins.RadioCS))
	node := app.New(cfg, bus, transceiver)

	// The table must be in place before the first source is enabled
	core.InstallVectors(node.Vectors(), timerFlags{})

	// Only a failed bring-up returns: light the error LED and sleep
	if err := core.Run(bringUpSteps(cfg), node); err != nil {
		writeDebug(err.Error() + "\r\n")
	}
	_ = core.MustGPIO().ConfigureOutput(core.GPIOPin(cfg.Pins.Error), true)
	for {
		core.Idle()
	}
}

// bringUpSteps is the ordered peripheral bring-up: clock, GPIO, timer,
// UART, RTC, then the buses and the radio interrupt line.
func bringUpSteps(cfg *config.BoardConfig) []core.BringUpStep {
	return []core.BringUpStep{
		{Name: "clock", Run: cfg.Validate},
		{Name: "gpio", Run: func() error {
			gpio := core.MustGPIO()
			if err := gpio.ConfigureOutput(core.GPIOPin(cfg.Pins.RadioSDN), false); err != nil {
				return err
			}
			return gpio.ConfigureInputPullUp(core.GPIOPin(cfg.Pins.RadioIRQ))
		}},
		{Name: "timer", Run: func() error {
			us, err := cfg.TickPeriodUs()
			if err != nil {
				return err
			}
			startTickTimer(us)
			return nil
		}},
		{Name: "uart", Run: func() error {
			return configureUART(cfg)
		}},
		{Name: "rtc", Run: func() error {
			if _, err := cfg.WakeupCount(); err != nil {
				return err
			}
			core.WaitMs(cfg.RTCSettleTicks)
			startWakeupTimer(cfg.WakeupPeriodMs * 1000)
			return nil
		}},
		{Name: "i2c", Run: func() error {
			_, err := configureI2C(cfg)
			return err
		}},
		{Name: "spi", Run: func() error {
			_, err := configureSPI(cfg)
			return err
		}},
		{Name: "extpin", Run: func() error {
			return machine.Pin(cfg.Pins.RadioIRQ).SetInterrupt(machine.PinFalling, func(machine.Pin) {
				core.Dispatch(core.SourceExtPin)
			})
		}},
	}
}
