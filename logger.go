package main

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// EventLogger appends timestamped lines to the scan journal.  It is safe for
// concurrent use.
type EventLogger struct {
	filePath string
	mu       sync.Mutex
	now      func() time.Time
}

// NewEventLogger creates a journal writing to filePath.  The file is created on
// first write.
func NewEventLogger(filePath string) *EventLogger {
	return &EventLogger{filePath: filePath, now: time.Now}
}

// Log writes a single line with timestamp.
func (el *EventLogger) Log(format string, args ...any) error {
	el.mu.Lock()
	defer el.mu.Unlock()
	line := fmt.Sprintf("%s - %s\n", el.now().Format(time.RFC3339), fmt.Sprintf(format, args...))
	f, err := os.OpenFile(el.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Name returns the recorder type.
func (el *EventLogger) Name() string { return "journal" }

// Record writes one resolved scan.
func (el *EventLogger) Record(rec ScanRecord) error {
	if rec.Err != nil {
		return el.Log("scan id=%s uid=%s outcome=%s error=%q", rec.ID, rec.UID, rec.Outcome, rec.Err.Error())
	}
	return el.Log("scan id=%s uid=%s outcome=%s message=%q", rec.ID, rec.UID, rec.Outcome, rec.Message)
}
