// Package radio drives the Si4432 transceiver. The chip pulls its nIRQ line
// low when an enabled event occurs; Interrupt latches the edge from the
// external-pin vector and Service reads the status registers later, from
// normal context, which also releases the line.
package radio

import (
	"errors"
	"sync/atomic"

	"radionode/core"

	"tinygo.org/x/drivers"
)

// Register addresses
const (
	RegDeviceType       = 0x00
	RegDeviceVersion    = 0x01
	RegDeviceStatus     = 0x02
	RegInterruptStatus1 = 0x03
	RegInterruptStatus2 = 0x04
	RegInterruptEnable1 = 0x05
	RegInterruptEnable2 = 0x06
	RegOperatingMode1   = 0x07
)

// DeviceTypeSi4432 is the value of RegDeviceType on a healthy chip.
const DeviceTypeSi4432 = 0x08

// Interrupt status 1 bits
const (
	IntFIFOError   = 1 << 7
	IntTxFIFOFull  = 1 << 6
	IntTxFIFOEmpty = 1 << 5
	IntRxFIFOFull  = 1 << 4
	IntExternal    = 1 << 3
	IntPacketSent  = 1 << 2
	IntValidPacket = 1 << 1
	IntCRCError    = 1 << 0
)

// Interrupt status 2 bits
const (
	IntSyncWord      = 1 << 7
	IntValidPreamble = 1 << 6
	IntWakeupTimer   = 1 << 3
	IntLowBattery    = 1 << 2
	IntChipReady     = 1 << 1
	IntPowerOnReset  = 1 << 0
)

const spiWrite = 0x80

var ErrNotReady = errors.New("radio: unexpected device type")

// Status is the pair of interrupt status registers
type Status struct {
	Status1 uint8
	Status2 uint8
}

// PacketReceived reports a packet with a valid CRC.
func (s Status) PacketReceived() bool { return s.Status1&IntValidPacket != 0 }

// CRCError reports a packet dropped on CRC.
func (s Status) CRCError() bool { return s.Status1&IntCRCError != 0 }

// PacketSent reports the end of a transmission.
func (s Status) PacketSent() bool { return s.Status1&IntPacketSent != 0 }

// Si4432 is one transceiver on an SPI bus with a GPIO chip select. The chip
// select goes through the registered core GPIO driver.
type Si4432 struct {
	spi drivers.SPI
	cs  core.GPIOPin

	pending atomic.Uint32
	edges   atomic.Uint32
}

// New returns a driver for the chip selected by cs.
func New(spi drivers.SPI, cs core.GPIOPin) *Si4432 {
	return &Si4432{spi: spi, cs: cs}
}

// Configure checks the device type and enables the packet interrupts.
func (r *Si4432) Configure() error {
	if err := core.MustGPIO().ConfigureOutput(r.cs, true); err != nil {
		return err
	}
	devType, err := r.ReadRegister(RegDeviceType)
	if err != nil {
		return err
	}
	if devType&0x1F != DeviceTypeSi4432 {
		return ErrNotReady
	}
	if err := r.WriteRegister(RegInterruptEnable1, IntValidPacket|IntCRCError|IntPacketSent); err != nil {
		return err
	}
	if err := r.WriteRegister(RegInterruptEnable2, 0); err != nil {
		return err
	}
	// Reading the status pair clears anything latched during power-up
	_, err = r.readStatus()
	return err
}

// Interrupt is the external-pin handler. Interrupt context: it only counts
// the edge.
func (r *Si4432) Interrupt() {
	r.pending.Add(1)
	r.edges.Add(1)
}

// Pending reports whether an edge is waiting for Service.
func (r *Si4432) Pending() bool {
	return r.pending.Load() != 0
}

// Edges returns the total number of nIRQ edges seen.
func (r *Si4432) Edges() uint32 {
	return r.edges.Load()
}

// Service reads the status registers once per latched edge and returns the
// merged flags. It returns a zero Status when nothing is pending.
// On a read error the edges not yet serviced stay pending.
func (r *Si4432) Service() (Status, error) {
	n := r.pending.Swap(0)
	var merged Status
	for i := uint32(0); i < n; i++ {
		st, err := r.readStatus()
		if err != nil {
			r.pending.Add(n - i)
			return merged, err
		}
		merged.Status1 |= st.Status1
		merged.Status2 |= st.Status2
	}
	return merged, nil
}

func (r *Si4432) readStatus() (Status, error) {
	var buf [3]byte
	if err := r.transfer([]byte{RegInterruptStatus1, 0, 0}, buf[:]); err != nil {
		return Status{}, err
	}
	return Status{Status1: buf[1], Status2: buf[2]}, nil
}

// ReadRegister reads one register.
func (r *Si4432) ReadRegister(reg uint8) (uint8, error) {
	var buf [2]byte
	if err := r.transfer([]byte{reg &^ spiWrite, 0}, buf[:]); err != nil {
		return 0, err
	}
	return buf[1], nil
}

// WriteRegister writes one register.
func (r *Si4432) WriteRegister(reg, value uint8) error {
	return r.transfer([]byte{reg | spiWrite, value}, nil)
}

func (r *Si4432) transfer(w, rd []byte) error {
	gpio := core.MustGPIO()
	if err := gpio.SetPin(r.cs, false); err != nil {
		return err
	}
	err := r.spi.Tx(w, rd)
	if csErr := gpio.SetPin(r.cs, true); err == nil {
		err = csErr
	}
	return err
}
