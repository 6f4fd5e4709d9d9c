package model

import "time"

// LastRun records what the previous scan fired, for dedup on the next run.
type LastRun struct {
	RanAt       time.Time `json:"ran_at"`
	TriggerKeys []string  `json:"trigger_keys"`
}

// SeenTrigger tracks when a trigger key was first and last a candidate.
type SeenTrigger struct {
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	LastMessage string    `json:"last_message"`
}

// Digest is one batch of newly fired triggers sent to the operator.
type Digest struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Results   []TriggerResult `json:"results"`
}

// Reminder records that a reminder was sent for a digest.
type Reminder struct {
	DigestID string    `json:"digest_id"`
	SentAt   time.Time `json:"sent_at"`
}

// RunState is the persisted state that lets consecutive runs suppress
// repeat alerts. Loaded at the start of every run, mutated in memory,
// written back atomically once at the end.
type RunState struct {
	LastRun      LastRun                `json:"last_run"`
	SeenTriggers map[string]SeenTrigger `json:"seen_triggers"`
	Cooldowns    map[string]time.Time   `json:"cooldowns"`
	LastDigest   *Digest                `json:"last_digest"`
	LastReminder *Reminder              `json:"last_reminder"`
}

// NewRunState returns a fresh default state with initialized maps.
func NewRunState() *RunState {
	return &RunState{
		SeenTriggers: make(map[string]SeenTrigger),
		Cooldowns:    make(map[string]time.Time),
	}
}

// Normalize initializes any nil maps after JSON decoding.
func (s *RunState) Normalize() {
	if s.SeenTriggers == nil {
		s.SeenTriggers = make(map[string]SeenTrigger)
	}
	if s.Cooldowns == nil {
		s.Cooldowns = make(map[string]time.Time)
	}
}

// PrevFired returns the previous run's fired keys as a set.
func (s *RunState) PrevFired() map[string]bool {
	set := make(map[string]bool, len(s.LastRun.TriggerKeys))
	for _, k := range s.LastRun.TriggerKeys {
		set[k] = true
	}
	return set
}

// ArchiveEntry is an operator-initiated long-term suppression of one
// trigger key. Re-archiving the same key extends suppress_until and
// overwrites the message without duplicating the entry.
type ArchiveEntry struct {
	Symbol        string    `json:"symbol"`
	TriggerKey    string    `json:"trigger_key"`
	Message       string    `json:"message"`
	ExecutedAt    time.Time `json:"executed_at"`
	SuppressUntil time.Time `json:"suppress_until"`
}
