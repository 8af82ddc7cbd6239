//go:build rp2040

package main

import (
	"errors"
	"machine"

	"radionode/core"
)

// RPGPIODriver implements core.GPIODriver with machine.Pin
type RPGPIODriver struct {
	// Track configured pins to prevent conflicts
	configuredPins map[core.GPIOPin]machine.Pin
	outputs        map[core.GPIOPin]bool
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.Pin),
		outputs:        make(map[core.GPIOPin]bool),
	}
}

// ConfigureOutput configures a push-pull output and drives its initial level
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin, initial bool) error {
	if pin > 29 {
		return errors.New("invalid GPIO pin")
	}
	machinePin := machine.Pin(pin)

	// Set the level first so the pin never glitches the other way
	machinePin.Set(initial)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	machinePin.Set(initial)

	d.configuredPins[pin] = machinePin
	d.outputs[pin] = true
	return nil
}

// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	if pin > 29 {
		return errors.New("invalid GPIO pin")
	}
	machinePin := machine.Pin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	d.configuredPins[pin] = machinePin
	d.outputs[pin] = false
	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machinePin, exists := d.configuredPins[pin]
	if !exists || !d.outputs[pin] {
		return errors.New("pin not configured as output")
	}
	machinePin.Set(value)
	return nil
}

// GetPin reads the current pin state
func (d *RPGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		return false, errors.New("pin not configured")
	}
	return machinePin.Get(), nil
}
