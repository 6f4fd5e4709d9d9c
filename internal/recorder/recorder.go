package recorder

import (
	"time"

	"TickerSentry/internal/model"
)

// RunRecord summarizes one completed scan for the history database.
type RunRecord struct {
	Profile    string
	StartedAt  time.Time
	Duration   time.Duration
	Symbols    int
	Failures   int
	NewCount   int
	RepeatKeys int
	Suppressed int
}

// Recorder persists scan history for later analysis. Implementations
// must be safe for concurrent use.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordTrigger(profile string, result *model.TriggerResult, status string) error
	Close() error
}

// Trigger event statuses as stored in the database.
const (
	StatusNew        = "NEW"
	StatusRepeat     = "REPEAT"
	StatusSuppressed = "SUPPRESSED"
)
