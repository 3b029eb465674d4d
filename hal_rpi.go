//go:build linux && (arm || arm64) && !disablegpio
// +build linux
// +build arm arm64
// +build !disablegpio

// This file provides the Raspberry Pi implementation of the HAL using the
// periph.io library.  When cross-compiling on other platforms or when the
// build tag "disablegpio" is specified, hal_stub.go is used instead.

package main

import (
	"fmt"
	"log/slog"
	"time"

	// Use the new periph module layout.  See https://periph.io/news/2020/a_new_start/
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/mfrc522"
	"periph.io/x/host/v3"
)

// mfrc522Reader adapts the periph MFRC522 driver to TagReader.  ReadUID does
// the presence request and the anticollision read; any error, including the
// timeout when no tag is in the field, counts as "no tag".
type mfrc522Reader struct {
	dev     *mfrc522.Dev
	timeout time.Duration
}

func (r *mfrc522Reader) Poll() ([]byte, bool) {
	uid, err := r.dev.ReadUID(r.timeout)
	if err != nil || len(uid) == 0 {
		return nil, false
	}
	return uid, true
}

// pinByBCM looks a pin up by its BCM number.
func pinByBCM(pin int) (gpio.PinIO, error) {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
	if p == nil {
		return nil, fmt.Errorf("unknown pin GPIO%d", pin)
	}
	return p, nil
}

// openHardware initialises periph, the two indicator outputs and the
// MFRC522 on the SPI bus.
func openHardware(cfg Config, logger *slog.Logger) (*Hardware, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph init: %w", err)
	}
	success, err := pinByBCM(cfg.Indicators.SuccessPin)
	if err != nil {
		return nil, fmt.Errorf("success indicator: %w", err)
	}
	failure, err := pinByBCM(cfg.Indicators.FailurePin)
	if err != nil {
		return nil, fmt.Errorf("failure indicator: %w", err)
	}
	reset, err := pinByBCM(cfg.Reader.ResetPin)
	if err != nil {
		return nil, fmt.Errorf("reader reset: %w", err)
	}
	irq, err := pinByBCM(cfg.Reader.IRQPin)
	if err != nil {
		return nil, fmt.Errorf("reader irq: %w", err)
	}
	port, err := spireg.Open(cfg.Reader.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", cfg.Reader.SPIPort, err)
	}
	dev, err := mfrc522.NewSPI(port, reset, irq)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("mfrc522: %w", err)
	}
	logger.Info("reader ready", "spi", cfg.Reader.SPIPort, "success_pin", success.Name(), "failure_pin", failure.Name())
	return &Hardware{
		Reader:  &mfrc522Reader{dev: dev, timeout: cfg.PollTimeout()},
		Success: success,
		Failure: failure,
		closer:  port,
	}, nil
}
