//go:build rp2040

package main

import (
	"machine"

	"radionode/config"
)

var debugUART *machine.UART

// configureUART brings up the debug UART and routes the core's debug
// output to it.
func configureUART(cfg *config.BoardConfig) error {
	debugUART = machine.UART0
	return debugUART.Configure(machine.UARTConfig{
		BaudRate: cfg.UARTBaud,
		TX:       machine.Pin(cfg.Pins.UARTTX),
		RX:       machine.Pin(cfg.Pins.UARTRX),
	})
}

func writeDebug(s string) {
	if debugUART != nil {
		debugUART.Write([]byte(s))
	}
}

// configureI2C brings up I2C0 for the sensor
func configureI2C(cfg *config.BoardConfig) (*machine.I2C, error) {
	bus := machine.I2C0
	err := bus.Configure(machine.I2CConfig{
		Frequency: cfg.I2C.FrequencyHz,
		SDA:       machine.Pin(cfg.Pins.I2CSDA),
		SCL:       machine.Pin(cfg.Pins.I2CSCL),
	})
	return bus, err
}

// configureSPI brings up SPI0 for the radio (mode 0, MSB first)
func configureSPI(cfg *config.BoardConfig) (*machine.SPI, error) {
	spi := machine.SPI0
	err := spi.Configure(machine.SPIConfig{
		Frequency: cfg.Radio.SPIFrequencyHz,
		SCK:       machine.GPIO18,
		SDO:       machine.GPIO19,
		SDI:       machine.GPIO16,
		Mode:      0,
	})
	return spi, err
}
