package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// coolDown follows the hold window so a tag still lying on the reader is not
// submitted twice.
const coolDown = time.Second

// Verdicter submits a formatted UID and returns the server's verdict.
type Verdicter interface {
	Submit(ctx context.Context, id, uid string) (VerdictResponse, error)
}

// Scanner is the access point's control loop: wait for a tag, ask the server,
// show the answer, cool down, repeat.  Every scan resolves completely before
// the reader is polled again.
type Scanner struct {
	reader    TagReader
	verdicts  Verdicter
	indicator *Indicator
	recorders []ScanRecorder
	logger    *slog.Logger
	coolDown  time.Duration
	sleep     func(time.Duration)
	now       func() time.Time
	newID     func() string
}

// NewScanner wires the loop to its peripherals.  The scanner owns the reader
// and the indicator for its whole life.
func NewScanner(reader TagReader, verdicts Verdicter, indicator *Indicator, recorders []ScanRecorder, logger *slog.Logger) *Scanner {
	return &Scanner{
		reader:    reader,
		verdicts:  verdicts,
		indicator: indicator,
		recorders: recorders,
		logger:    logger,
		coolDown:  coolDown,
		sleep:     time.Sleep,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Run loops until ctx is cancelled.  Cancellation is only observed between
// scans; a scan in flight is finished first.  Both lights are off on return.
func (s *Scanner) Run(ctx context.Context) {
	defer s.indicator.Clear()
	for {
		raw, ok := s.waitForTag(ctx)
		if !ok {
			return
		}
		s.process(ctx, raw)
	}
}

// waitForTag polls the reader back to back.  The reader's own poll timeout
// paces the loop.
func (s *Scanner) waitForTag(ctx context.Context) ([]byte, bool) {
	for {
		if ctx.Err() != nil {
			return nil, false
		}
		if raw, ok := s.reader.Poll(); ok {
			return raw, true
		}
	}
}

// process resolves one scan and returns its outcome.
func (s *Scanner) process(ctx context.Context, raw []byte) Outcome {
	uid := FormatUID(raw)
	rec := ScanRecord{ID: s.newID(), UID: uid, At: s.now()}
	s.logger.Info("badge detected", "uid", uid, "scan_id", rec.ID)

	v, err := s.verdicts.Submit(context.WithoutCancel(ctx), rec.ID, uid)
	rec.Latency = s.now().Sub(rec.At)
	rec.Outcome = outcomeOf(v, err)
	switch rec.Outcome {
	case OutcomeCommFail:
		rec.Err = err
		s.logger.Error("error sending scan", "uid", uid, "scan_id", rec.ID, "error", err)
	default:
		rec.Message = v.Message
		rec.Malformed = v.Malformed
		if v.Malformed {
			s.logger.Warn("verdict success field is not a boolean", "uid", uid, "scan_id", rec.ID, "outcome", rec.Outcome.String())
		}
		s.logger.Info("server response", "message", v.Message, "uid", uid, "scan_id", rec.ID, "outcome", rec.Outcome.String())
	}

	for _, r := range s.recorders {
		if err := r.Record(rec); err != nil {
			s.logger.Error("recorder failed", "recorder", r.Name(), "error", err)
		}
	}

	s.indicator.Show(rec.Outcome)
	s.sleep(s.coolDown)
	return rec.Outcome
}

// outcomeOf maps a Submit result onto an outcome.  Any error is a comm
// failure, never a denial.
func outcomeOf(v VerdictResponse, err error) Outcome {
	if err != nil {
		return OutcomeCommFail
	}
	if v.Success {
		return OutcomeGranted
	}
	return OutcomeDenied
}
