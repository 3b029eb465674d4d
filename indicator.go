package main

import (
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// holdWindow is how long an outcome stays visible.
const holdWindow = 2 * time.Second

// Light is a single digital output.  gpio.PinOut satisfies it.
type Light interface {
	Out(l gpio.Level) error
}

// pinLevel converts a logical on/off state into the level driven on the pin.
// Active-low wiring lights the LED on a low level.
func pinLevel(on, activeLow bool) gpio.Level {
	if activeLow {
		return gpio.Level(!on)
	}
	return gpio.Level(on)
}

// Indicator drives the success and failure lights.  It is owned by the scan
// loop and is not safe for concurrent use.
type Indicator struct {
	success   Light
	failure   Light
	activeLow bool
	hold      time.Duration
	sleep     func(time.Duration)
	logger    *slog.Logger
	state     IndicatorState
}

// NewIndicator returns an Indicator with both lights off.
func NewIndicator(success, failure Light, activeLow bool, logger *slog.Logger) *Indicator {
	ind := &Indicator{
		success:   success,
		failure:   failure,
		activeLow: activeLow,
		hold:      holdWindow,
		sleep:     time.Sleep,
		logger:    logger,
	}
	ind.Clear()
	return ind
}

// Show lights the indicators for an outcome, holds them for the hold window
// and then turns both off.  A comm failure lights both so it can be told
// apart from a denial.
func (ind *Indicator) Show(o Outcome) {
	switch o {
	case OutcomeGranted:
		ind.set(true, false)
		ind.state = StateSuccess
	case OutcomeDenied:
		ind.set(false, true)
		ind.state = StateFailure
	default:
		ind.set(true, true)
		ind.state = StateCommunicationError
	}
	ind.sleep(ind.hold)
	ind.Clear()
}

// Clear turns both lights off.
func (ind *Indicator) Clear() {
	ind.set(false, false)
	ind.state = StateIdle
}

// State reports what the lights currently show.
func (ind *Indicator) State() IndicatorState {
	return ind.state
}

func (ind *Indicator) set(success, failure bool) {
	if err := ind.success.Out(pinLevel(success, ind.activeLow)); err != nil {
		ind.logger.Error("success indicator", "error", err)
	}
	if err := ind.failure.Out(pinLevel(failure, ind.activeLow)); err != nil {
		ind.logger.Error("failure indicator", "error", err)
	}
}
