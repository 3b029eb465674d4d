package main

// This file defines the hardware abstraction layer (HAL).  hal_rpi.go opens
// the real MFRC522 reader and GPIO outputs through periph.io; hal_stub.go
// provides inert stand-ins so the access point can be built and run on a
// desktop machine without a Raspberry Pi.

import "io"

// Hardware bundles the peripherals owned by the scan loop.  Close releases
// the sensor bus.
type Hardware struct {
	Reader  TagReader
	Success Light
	Failure Light
	closer  io.Closer
}

// Close releases the peripherals.  It is safe to call on a Hardware without
// a bus.
func (h *Hardware) Close() error {
	if h.closer == nil {
		return nil
	}
	return h.closer.Close()
}
