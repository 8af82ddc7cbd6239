// Package config describes the board: clock tree numbers, the periodic
// timer and RTC wake-up time bases, the debug UART and the pin map.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrTickPeriodRange = errors.New("config: tick period does not fit the timer")
	ErrRTCPeriodRange  = errors.New("config: rtc wake-up period does not fit the counter")
	ErrZeroDivider     = errors.New("config: divider must not be zero")
)

// MaxTickPeriod is the largest auto-reload value of the 8-bit basic timer.
const MaxTickPeriod = 255

// MaxWakeupCount is the largest RTC wake-up auto-reload value.
const MaxWakeupCount = 0xFFFF

// Pins is the board's pin map
type Pins struct {
	LED      uint32 `json:"led"`
	Error    uint32 `json:"error"`
	Buzzer   uint32 `json:"buzzer"`
	RadioIRQ uint32 `json:"radio_irq"`
	RadioCS  uint32 `json:"radio_cs"`
	RadioSDN uint32 `json:"radio_sdn"`
	UARTTX   uint32 `json:"uart_tx"`
	UARTRX   uint32 `json:"uart_rx"`
	I2CSDA   uint32 `json:"i2c_sda"`
	I2CSCL   uint32 `json:"i2c_scl"`
}

// I2CConfig describes the I2C peripheral collaborator
type I2CConfig struct {
	FrequencyHz    uint32 `json:"frequency_hz"`
	TimeoutTicks   uint32 `json:"timeout_ticks"`
	SensorAddress  uint16 `json:"sensor_address"`
	SensorRegister uint8  `json:"sensor_register"`
}

// RadioConfig describes the radio transceiver collaborator
type RadioConfig struct {
	SPIFrequencyHz uint32 `json:"spi_frequency_hz"`
}

// HMIConfig holds the human-machine interface timings, in ticks
type HMIConfig struct {
	LEDPulseTicks   uint16 `json:"led_pulse_ticks"`
	BeepTicks       uint16 `json:"beep_ticks"`
	HeartbeatWakeup uint32 `json:"heartbeat_wakeups"`
}

// BoardConfig holds every board-level parameter
type BoardConfig struct {
	Name string `json:"name"`

	SysClockHz     uint32 `json:"sys_clock_hz"`
	TickPrescaler  uint32 `json:"tick_prescaler"`
	TickHz         uint32 `json:"tick_hz"`
	RTCClockHz     uint32 `json:"rtc_clock_hz"`
	RTCDivider     uint32 `json:"rtc_divider"`
	WakeupDivider  uint32 `json:"wakeup_divider"`
	WakeupPeriodMs uint32 `json:"wakeup_period_ms"`
	RTCSettleTicks uint16 `json:"rtc_settle_ticks"`

	UARTBaud    uint32 `json:"uart_baud"`
	DebugSerial bool   `json:"debug_serial"`

	Pins  Pins        `json:"pins"`
	I2C   I2CConfig   `json:"i2c"`
	Radio RadioConfig `json:"radio"`
	HMI   HMIConfig   `json:"hmi"`
}

// LoadConfig parses a JSON board description and fills in defaults
func LoadConfig(jsonData []byte) (*BoardConfig, error) {
	var cfg BoardConfig

	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in missing configuration values from Default
func applyDefaults(cfg *BoardConfig) {
	def := Default()

	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.SysClockHz == 0 {
		cfg.SysClockHz = def.SysClockHz
	}
	if cfg.TickPrescaler == 0 {
		cfg.TickPrescaler = def.TickPrescaler
	}
	if cfg.TickHz == 0 {
		cfg.TickHz = def.TickHz
	}
	if cfg.RTCClockHz == 0 {
		cfg.RTCClockHz = def.RTCClockHz
	}
	if cfg.RTCDivider == 0 {
		cfg.RTCDivider = def.RTCDivider
	}
	if cfg.WakeupDivider == 0 {
		cfg.WakeupDivider = def.WakeupDivider
	}
	if cfg.WakeupPeriodMs == 0 {
		cfg.WakeupPeriodMs = def.WakeupPeriodMs
	}
	if cfg.UARTBaud == 0 {
		cfg.UARTBaud = def.UARTBaud
	}

	// A zero pin map means "use the reference board"
	if cfg.Pins == (Pins{}) {
		cfg.Pins = def.Pins
	}

	if cfg.I2C.FrequencyHz == 0 {
		cfg.I2C.FrequencyHz = def.I2C.FrequencyHz
	}
	if cfg.I2C.TimeoutTicks == 0 {
		cfg.I2C.TimeoutTicks = def.I2C.TimeoutTicks
	}
	if cfg.I2C.SensorAddress == 0 {
		cfg.I2C.SensorAddress = def.I2C.SensorAddress
	}
	if cfg.Radio.SPIFrequencyHz == 0 {
		cfg.Radio.SPIFrequencyHz = def.Radio.SPIFrequencyHz
	}
	if cfg.HMI.LEDPulseTicks == 0 {
		cfg.HMI.LEDPulseTicks = def.HMI.LEDPulseTicks
	}
	if cfg.HMI.BeepTicks == 0 {
		cfg.HMI.BeepTicks = def.HMI.BeepTicks
	}
	if cfg.HMI.HeartbeatWakeup == 0 {
		cfg.HMI.HeartbeatWakeup = def.HMI.HeartbeatWakeup
	}
}

// Default returns the reference board: 16 MHz HSI system clock, an 8-bit
// basic timer at /128 giving a 1 kHz tick, and the RTC clocked from the
// 38 kHz LSI.
func Default() *BoardConfig {
	return &BoardConfig{
		Name:           "radionode",
		SysClockHz:     16000000,
		TickPrescaler:  128,
		TickHz:         1000,
		RTCClockHz:     38000,
		RTCDivider:     16,
		WakeupDivider:  4,
		WakeupPeriodMs: 1000,
		RTCSettleTicks: 1,
		UARTBaud:       115200,
		DebugSerial:    true,
		Pins: Pins{
			LED:      25,
			Error:    15,
			Buzzer:   14,
			RadioIRQ: 20,
			RadioCS:  17,
			RadioSDN: 21,
			UARTTX:   0,
			UARTRX:   1,
			I2CSDA:   4,
			I2CSCL:   5,
		},
		I2C: I2CConfig{
			FrequencyHz:    100000,
			TimeoutTicks:   10,
			SensorAddress:  0x48,
			SensorRegister: 0x00,
		},
		Radio: RadioConfig{
			SPIFrequencyHz: 1000000,
		},
		HMI: HMIConfig{
			LEDPulseTicks:   50,
			BeepTicks:       100,
			HeartbeatWakeup: 10,
		},
	}
}
