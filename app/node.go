// Package app is the node application run by core.Run: it samples the I2C
// sensor on RTC wake-ups, services the radio after its interrupt line fires
// and drives the LED, error LED and buzzer.
package app

import (
	"sync/atomic"

	"radionode/config"
	"radionode/core"
	"radionode/i2c"
	"radionode/radio"
)

// Node is the application state shared between Loop and the handlers.
type Node struct {
	cfg   *config.BoardConfig
	bus   *i2c.Bus
	radio *radio.Si4432

	led, errLED, buzzer core.GPIOPin

	// written from interrupt context
	wakeups  atomic.Uint32
	beepLeft atomic.Uint32

	// written by Loop, read by the accessors from any goroutine
	packets   atomic.Uint32
	crcErrors atomic.Uint32
	lastTemp  atomic.Int32

	// normal context only
	handled    uint32
	radioReady bool
}

// New wires the application to its collaborators. The HMI pins are driven
// through the registered core GPIO driver.
func New(cfg *config.BoardConfig, bus *i2c.Bus, r *radio.Si4432) *Node {
	return &Node{
		cfg:    cfg,
		bus:    bus,
		radio:  r,
		led:    core.GPIOPin(cfg.Pins.LED),
		errLED: core.GPIOPin(cfg.Pins.Error),
		buzzer: core.GPIOPin(cfg.Pins.Buzzer),
	}
}

// Vectors maps the node's handlers onto the interrupt sources.
func (n *Node) Vectors() core.Vectors {
	return core.Vectors{
		SysTick:        n.InterruptSysTick,
		PeripheralTick: n.bus.Tick,
		RTCWakeup:      n.InterruptRTC,
		ExtPin:         n.radio.Interrupt,
	}
}

// Init drives the HMI outputs low and brings the radio up.
func (n *Node) Init() {
	for _, pin := range []core.GPIOPin{n.led, n.errLED, n.buzzer} {
		if err := core.MustGPIO().ConfigureOutput(pin, false); err != nil {
			core.PrintStr("hmi: " + err.Error())
		}
	}

	if err := n.radio.Configure(); err != nil {
		core.PrintStr("radio: " + err.Error())
		n.fault()
	} else {
		n.radioReady = true
	}

	core.PrintStr(n.cfg.Name + " up")
}

// Loop handles whatever the interrupts latched, then sleeps until the next
// interrupt.
func (n *Node) Loop() {
	if n.radioReady && n.radio.Pending() {
		n.serviceRadio()
	}

	if w := n.wakeups.Load(); w != n.handled {
		n.handled = w
		n.sample()
		if n.cfg.HMI.HeartbeatWakeup != 0 && w%n.cfg.HMI.HeartbeatWakeup == 0 {
			n.heartbeat()
		}
	}

	core.Idle()
}

// InterruptRTC is the RTC wake-up handler.
func (n *Node) InterruptRTC() {
	n.wakeups.Add(1)
}

// InterruptSysTick is the system-tick handler: it times the buzzer.
func (n *Node) InterruptSysTick() {
	for {
		left := n.beepLeft.Load()
		if left == 0 {
			return
		}
		if n.beepLeft.CompareAndSwap(left, left-1) {
			if left == 1 {
				_ = core.MustGPIO().SetPin(n.buzzer, false)
			}
			return
		}
	}
}

func (n *Node) serviceRadio() {
	st, err := n.radio.Service()
	if err != nil {
		core.PrintStr("radio: " + err.Error())
		n.fault()
		return
	}
	if st.PacketReceived() {
		core.PrintUInt16("rx=", uint16(n.packets.Add(1)))
		n.beep(uint32(n.cfg.HMI.BeepTicks))
	}
	if st.CRCError() {
		core.PrintUInt16("crc=", uint16(n.crcErrors.Add(1)))
	}
}

func (n *Node) sample() {
	temp, err := n.bus.ReadInt16(n.cfg.I2C.SensorAddress, n.cfg.I2C.SensorRegister)
	if err != nil {
		core.PrintStr("i2c: " + err.Error())
		n.fault()
		return
	}
	n.lastTemp.Store(int32(temp))
	core.PrintInt16("temp=", temp)
}

// heartbeat blinks the LED; it blocks for the pulse length.
func (n *Node) heartbeat() {
	_ = core.MustGPIO().SetPin(n.led, true)
	core.WaitMs(n.cfg.HMI.LEDPulseTicks)
	_ = core.MustGPIO().SetPin(n.led, false)
}

// beep starts the buzzer; InterruptSysTick switches it off.
func (n *Node) beep(ticks uint32) {
	if ticks == 0 {
		return
	}
	_ = core.MustGPIO().SetPin(n.buzzer, true)
	n.beepLeft.Store(ticks)
}

func (n *Node) fault() {
	_ = core.MustGPIO().SetPin(n.errLED, true)
}

// Wakeups returns the number of RTC wake-ups seen.
func (n *Node) Wakeups() uint32 { return n.wakeups.Load() }

// Packets returns the number of valid packets received.
func (n *Node) Packets() uint32 { return n.packets.Load() }

// CRCErrors returns the number of packets dropped on CRC.
func (n *Node) CRCErrors() uint32 { return n.crcErrors.Load() }

// LastTemperature returns the most recent sensor reading.
func (n *Node) LastTemperature() int16 { return int16(n.lastTemp.Load()) }
