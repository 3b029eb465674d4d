package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"periph.io/x/conn/v3/gpio"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeLight records every level written to it.
type fakeLight struct {
	levels []gpio.Level
	err    error
}

func (l *fakeLight) Out(v gpio.Level) error {
	l.levels = append(l.levels, v)
	return l.err
}

func (l *fakeLight) last() gpio.Level {
	if len(l.levels) == 0 {
		return gpio.Low
	}
	return l.levels[len(l.levels)-1]
}

// scriptedReader hands out the scripted results in order; a nil entry is an
// empty poll.  When the script runs out it calls exhausted and keeps
// returning nothing.
type scriptedReader struct {
	script    [][]byte
	polls     int
	exhausted func()
	events    *[]string
}

func (r *scriptedReader) Poll() ([]byte, bool) {
	r.polls++
	if r.events != nil {
		*r.events = append(*r.events, "poll")
	}
	if len(r.script) == 0 {
		if r.exhausted != nil {
			r.exhausted()
		}
		return nil, false
	}
	next := r.script[0]
	r.script = r.script[1:]
	if next == nil {
		return nil, false
	}
	return next, true
}

type submission struct {
	id  string
	uid string
}

// fakeVerdicter returns the scripted results in order.
type fakeVerdicter struct {
	responses []VerdictResponse
	errs      []error
	calls     []submission
	events    *[]string
}

func (f *fakeVerdicter) Submit(_ context.Context, id, uid string) (VerdictResponse, error) {
	i := len(f.calls)
	f.calls = append(f.calls, submission{id: id, uid: uid})
	if f.events != nil {
		*f.events = append(*f.events, "submit "+uid)
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return VerdictResponse{}, err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return VerdictResponse{}, nil
}

// memoryRecorder keeps every record and optionally fails.
type memoryRecorder struct {
	records []ScanRecord
	err     error
}

func (m *memoryRecorder) Name() string { return "memory" }

func (m *memoryRecorder) Record(rec ScanRecord) error {
	m.records = append(m.records, rec)
	return m.err
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("scan-%d", n)
	}
}
