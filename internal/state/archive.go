package state

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"TickerSentry/internal/model"
)

// ArchiveStore holds operator-initiated suppressions keyed by trigger
// key. Unlike RunState it is mutated from the command loop while a scan
// may be reading it, so access is serialized internally.
type ArchiveStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]model.ArchiveEntry
	log     *logrus.Entry
}

// LoadArchive reads the archive file, tolerating a missing or corrupt
// file the same way the run-state store does.
func LoadArchive(path string) *ArchiveStore {
	a := &ArchiveStore{
		path:    path,
		entries: make(map[string]model.ArchiveEntry),
		log:     logrus.WithField("component", "archive"),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			a.log.WithError(err).Warn("archive file unreadable, starting empty")
		}
		return a
	}
	var entries []model.ArchiveEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		a.log.WithError(err).WithField("path", path).
			Warn("archive file corrupt, starting empty; archived triggers may alert again")
		return a
	}
	for _, e := range entries {
		a.entries[e.TriggerKey] = e
	}
	return a
}

// Archive suppresses a trigger key for suppressDays from now.
// Idempotent on the key: re-archiving extends suppress_until and
// refreshes the message instead of adding a duplicate entry.
func (a *ArchiveStore) Archive(symbol, key, message string, suppressDays int, now time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries[key]
	if !ok {
		entry = model.ArchiveEntry{Symbol: symbol, TriggerKey: key}
	}
	entry.Message = message
	entry.ExecutedAt = now
	until := now.AddDate(0, 0, suppressDays)
	if until.After(entry.SuppressUntil) {
		entry.SuppressUntil = until
	}
	a.entries[key] = entry

	return a.save()
}

// IsSuppressed reports whether the key has an active suppression.
func (a *ArchiveStore) IsSuppressed(key string, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	entry, ok := a.entries[key]
	return ok && now.Before(entry.SuppressUntil)
}

// Entries returns all archive entries sorted by trigger key.
func (a *ArchiveStore) Entries() []model.ArchiveEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.ArchiveEntry, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TriggerKey < out[j].TriggerKey })
	return out
}

// Remove deletes a suppression. Returns false if the key was not archived.
func (a *ArchiveStore) Remove(key string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.entries[key]; !ok {
		return false, nil
	}
	delete(a.entries, key)
	return true, a.save()
}

// save must be called with the mutex held.
func (a *ArchiveStore) save() error {
	entries := make([]model.ArchiveEntry, 0, len(a.entries))
	for _, e := range a.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TriggerKey < entries[j].TriggerKey })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal archive: %w", err)
	}
	return writeAtomic(a.path, data)
}
