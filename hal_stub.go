//go:build !linux || !(arm || arm64) || disablegpio
// +build !linux !arm,!arm64 disablegpio

package main

import (
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// idleReader never sees a tag.  It waits for the poll timeout on every call
// so the scan loop does not spin.
type idleReader struct {
	timeout time.Duration
}

func (r idleReader) Poll() ([]byte, bool) {
	time.Sleep(r.timeout)
	return nil, false
}

// consoleLight logs level changes instead of driving a pin.
type consoleLight struct {
	name   string
	logger *slog.Logger
}

func (l consoleLight) Out(level gpio.Level) error {
	l.logger.Debug("indicator", "light", l.name, "level", level.String())
	return nil
}

// openHardware returns the desktop stand-ins.  It cannot fail.
func openHardware(cfg Config, logger *slog.Logger) (*Hardware, error) {
	logger.Warn("GPIO disabled in this build, no tags will be read")
	return &Hardware{
		Reader:  idleReader{timeout: cfg.PollTimeout()},
		Success: consoleLight{name: "success", logger: logger},
		Failure: consoleLight{name: "failure", logger: logger},
	}, nil
}
