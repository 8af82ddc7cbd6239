//go:build !tinygo

package sim

import (
	"errors"
	"sync"

	"radionode/core"
	"radionode/radio"
)

// GPIO is an in-memory pin bank implementing core.GPIODriver
type GPIO struct {
	mu       sync.Mutex
	pins     map[core.GPIOPin]bool
	outputs  map[core.GPIOPin]bool
	onChange func(pin core.GPIOPin, value bool)
}

// NewGPIO returns a pin bank; onChange, if set, sees every output write.
func NewGPIO(onChange func(pin core.GPIOPin, value bool)) *GPIO {
	return &GPIO{
		pins:     make(map[core.GPIOPin]bool),
		outputs:  make(map[core.GPIOPin]bool),
		onChange: onChange,
	}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin, initial bool) error {
	g.mu.Lock()
	g.outputs[pin] = true
	g.mu.Unlock()
	return g.SetPin(pin, initial)
}

func (g *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outputs[pin] = false
	g.pins[pin] = true
	return nil
}

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.mu.Lock()
	if !g.outputs[pin] {
		g.mu.Unlock()
		return errors.New("sim: pin is not an output")
	}
	g.pins[pin] = value
	onChange := g.onChange
	g.mu.Unlock()

	if onChange != nil {
		onChange(pin, value)
	}
	return nil
}

func (g *GPIO) GetPin(pin core.GPIOPin) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pins[pin], nil
}

// Sensor is an I2C device with one big-endian 16-bit register
type Sensor struct {
	mu      sync.Mutex
	address uint16
	value   int16
}

// NewSensor returns a sensor answering at address
func NewSensor(address uint16, value int16) *Sensor {
	return &Sensor{address: address, value: value}
}

// Set changes the reading
func (s *Sensor) Set(value int16) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
}

// Tx implements drivers.I2C
func (s *Sensor) Tx(addr uint16, w, r []byte) error {
	if addr != s.address {
		return errors.New("sim: i2c nack")
	}
	s.mu.Lock()
	v := uint16(s.value)
	s.mu.Unlock()
	if len(r) >= 2 {
		r[0], r[1] = byte(v>>8), byte(v)
	}
	return nil
}

// Radio emulates the Si4432 register file behind an SPI bus. Chip select
// is taken from the GPIO bank.
type Radio struct {
	mu     sync.Mutex
	gpio   core.GPIODriver
	cs     core.GPIOPin
	regs   [0x80]uint8
	status radio.Status
}

// NewRadio returns a powered-up transceiver
func NewRadio(gpio core.GPIODriver, cs core.GPIOPin) *Radio {
	r := &Radio{gpio: gpio, cs: cs}
	r.regs[radio.RegDeviceType] = radio.DeviceTypeSi4432
	return r
}

// Receive latches a valid-packet event; the caller raises the pin interrupt.
func (r *Radio) Receive(crcOK bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if crcOK {
		r.status.Status1 |= radio.IntValidPacket
	} else {
		r.status.Status1 |= radio.IntCRCError
	}
}

// Tx implements drivers.SPI
func (r *Radio) Tx(w, rd []byte) error {
	if high, _ := r.gpio.GetPin(r.cs); high {
		return errors.New("sim: radio not selected")
	}
	if len(w) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	reg := w[0] & 0x7F
	if w[0]&0x80 != 0 {
		for i, b := range w[1:] {
			r.regs[(int(reg)+i)&0x7F] = b
		}
		return nil
	}
	if rd == nil {
		return nil
	}
	if reg == radio.RegInterruptStatus1 {
		if len(rd) > 1 {
			rd[1] = r.status.Status1
		}
		if len(rd) > 2 {
			rd[2] = r.status.Status2
		}
		// reading the status pair clears it
		r.status = radio.Status{}
		return nil
	}
	for i := 1; i < len(rd); i++ {
		rd[i] = r.regs[(int(reg)+i-1)&0x7F]
	}
	return nil
}

// Transfer implements drivers.SPI
func (r *Radio) Transfer(b byte) (byte, error) {
	return 0, nil
}
