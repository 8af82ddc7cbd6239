// Package i2c guards transfers on a TinyGo I2C bus with a timeout counted
// in peripheral ticks. Tick is the peripheral-tick handler: the timer vector
// calls it once per system tick, right after the application's own handler.
// The underlying Tx is synchronous, so the watchdog cannot cut a transfer
// short: it marks it expired and Tx reports ErrTimeout once the driver
// returns.
package i2c

import (
	"errors"
	"sync/atomic"

	"tinygo.org/x/drivers"
)

var (
	ErrBusy    = errors.New("i2c: transfer already in progress")
	ErrTimeout = errors.New("i2c: transfer timed out")
)

// Bus wraps a drivers.I2C with a tick-driven transfer watchdog.
type Bus struct {
	dev     drivers.I2C
	timeout uint32

	busy      atomic.Uint32
	remaining atomic.Uint32
	expired   atomic.Bool

	transfers atomic.Uint32
	timeouts  atomic.Uint32
}

// NewBus returns a bus whose transfers expire after timeoutTicks peripheral
// ticks. A zero timeout disables the watchdog.
func NewBus(dev drivers.I2C, timeoutTicks uint32) *Bus {
	return &Bus{dev: dev, timeout: timeoutTicks}
}

// Tick is the peripheral-tick handler. Interrupt context: it only touches
// atomics.
func (b *Bus) Tick() {
	if b.busy.Load() == 0 || b.timeout == 0 {
		return
	}
	for {
		left := b.remaining.Load()
		if left == 0 {
			return
		}
		if b.remaining.CompareAndSwap(left, left-1) {
			if left == 1 {
				b.expired.Store(true)
			}
			return
		}
	}
}

// Tx performs one write-then-read transfer. When the watchdog expired while
// the transfer was running the result is discarded and ErrTimeout returned.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if !b.busy.CompareAndSwap(0, 1) {
		return ErrBusy
	}
	b.expired.Store(false)
	b.remaining.Store(b.timeout)
	b.transfers.Add(1)

	err := b.dev.Tx(addr, w, r)

	// disarm before releasing the bus so a tick landing while the next
	// transfer is being armed sees nothing left to count down
	b.remaining.Store(0)
	b.busy.Store(0)
	if b.expired.Load() {
		b.timeouts.Add(1)
		return ErrTimeout
	}
	return err
}

// ReadRegister writes the register index then reads len(buf) bytes.
func (b *Bus) ReadRegister(addr uint16, reg uint8, buf []byte) error {
	return b.Tx(addr, []byte{reg}, buf)
}

// WriteRegister writes the register index followed by data.
func (b *Bus) WriteRegister(addr uint16, reg uint8, data []byte) error {
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	return b.Tx(addr, w, nil)
}

// ReadInt16 reads a big-endian signed 16-bit register, the layout used by
// most I2C temperature sensors.
func (b *Bus) ReadInt16(addr uint16, reg uint8) (int16, error) {
	var buf [2]byte
	if err := b.ReadRegister(addr, reg, buf[:]); err != nil {
		return 0, err
	}
	return int16(uint16(buf[0])<<8 | uint16(buf[1])), nil
}

// Stats returns the number of transfers started and the number that timed out.
func (b *Bus) Stats() (transfers, timeouts uint32) {
	return b.transfers.Load(), b.timeouts.Load()
}
