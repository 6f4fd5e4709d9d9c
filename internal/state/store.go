package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"TickerSentry/internal/model"
)

// reminderMaxAge is the staleness window past which a digest is no
// longer worth reminding about.
const reminderMaxAge = 36 * time.Hour

// Store persists RunState as a JSON file. Scans load once at the start,
// mutate in memory, and save once at the end, so a crash mid-run loses
// at worst one run's worth of dedup history.
type Store struct {
	path string
	log  *logrus.Entry
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		log:  logrus.WithField("component", "state"),
	}
}

// Load reads the persisted state. A missing file is a normal first run
// and a corrupt file must not wedge the scanner, so both return a fresh
// default state; corruption is logged loudly since it resets dedup
// history.
func (s *Store) Load() *model.RunState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("state file unreadable, starting fresh")
		}
		return model.NewRunState()
	}
	var st model.RunState
	if err := json.Unmarshal(data, &st); err != nil {
		s.log.WithError(err).WithField("path", s.path).
			Warn("state file corrupt, starting fresh; repeat alerts may resend once")
		return model.NewRunState()
	}
	st.Normalize()
	return &st
}

// Save writes the state atomically: marshal to a temp file in the same
// directory, then rename over the target, so a crash mid-write leaves
// the previous state intact.
func (s *Store) Save(st *model.RunState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return writeAtomic(s.path, data)
}

// ShouldSendReminder reports whether a reminder ping is due: the last
// digest exists, carries results, is still young enough to be
// actionable, and has not been reminded about yet. Remind once, and
// only while still relevant.
func (s *Store) ShouldSendReminder(st *model.RunState, now time.Time) bool {
	if st.LastDigest == nil || len(st.LastDigest.Results) == 0 {
		return false
	}
	if now.Sub(st.LastDigest.CreatedAt) >= reminderMaxAge {
		return false
	}
	if st.LastReminder != nil && st.LastReminder.DigestID == st.LastDigest.ID {
		return false
	}
	return true
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
