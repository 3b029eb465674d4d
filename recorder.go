package main

// This file defines pluggable recorders invoked after each scan resolves.

import (
	"log/slog"
	"strings"
)

// ScanRecorder receives every resolved scan.  If Record returns an error the
// caller logs it and carries on; recording never blocks the next scan.
type ScanRecorder interface {
	Name() string
	Record(rec ScanRecord) error
}

// initRecorders builds the recorders listed in the configuration.  Unknown
// types are logged and skipped.
func initRecorders(cfg Config, logger *slog.Logger) []ScanRecorder {
	var recorders []ScanRecorder
	for _, rc := range cfg.Recorders {
		switch strings.ToLower(rc.Type) {
		case "journal":
			recorders = append(recorders, NewEventLogger(rc.Path))
		case "textfile", "metrics":
			recorders = append(recorders, NewScanMetrics(rc.Path))
		default:
			logger.Warn("unknown recorder type, skipping", "type", rc.Type)
		}
	}
	return recorders
}
