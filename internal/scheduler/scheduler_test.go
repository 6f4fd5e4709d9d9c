package scheduler

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerSentry/internal/collector"
	"TickerSentry/internal/model"
	"TickerSentry/internal/scanner"
	"TickerSentry/internal/state"
	"TickerSentry/internal/trigger"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (c *captureNotifier) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, text)
	return nil
}

func (c *captureNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	return c.Send(text)
}

func (c *captureNotifier) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

func newTestScheduler(t *testing.T) (*Scheduler, *captureNotifier, *state.Store) {
	t.Helper()
	dir := t.TempDir()
	store := state.NewStore(filepath.Join(dir, "state.json"))
	archive := state.LoadArchive(filepath.Join(dir, "archive.json"))
	fetcher := &collector.MockFetcher{Price: 100}
	sc := scanner.New(fetcher, store, archive, nil, 2, 300)
	notify := &captureNotifier{}

	profiles := []scanner.Profile{{
		Name:       "watchlist",
		Symbols:    []string{"ACME"},
		ScoreTable: "bullish",
		Triggers: []model.TriggerDefinition{{
			Name:       "heartbeat",
			Action:     model.ActionAlert,
			Conditions: []model.Condition{},
		}},
	}}

	s := New(context.Background(), sc, profiles, store, archive, notify, fetcher, 300)
	return s, notify, store
}

func TestRunAllScans_SendsDigest(t *testing.T) {
	s, notify, _ := newTestScheduler(t)

	s.RunAllScans()

	msgs := notify.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "watchlist")
	assert.Contains(t, msgs[0], "ACME")

	// Second run: only repeats, nothing to send.
	s.RunAllScans()
	assert.Len(t, notify.messages(), 1)
}

func TestHandleCommand_Status(t *testing.T) {
	s, _, _ := newTestScheduler(t)

	assert.Contains(t, s.HandleCommand("/status"), "No scans recorded")

	s.RunAllScans()
	out := s.HandleCommand("/status")
	assert.Contains(t, out, "Last run")
	assert.Contains(t, out, "ACME:heartbeat")
	assert.Contains(t, out, "Last digest")
}

func TestHandleCommand_ArchiveRoundTrip(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	s.RunAllScans()

	assert.Contains(t, s.HandleCommand("/archive"), "No active")

	out := s.HandleCommand("/archive ACME:heartbeat 10")
	assert.Contains(t, out, "suppressed for 10 day(s)")
	assert.True(t, s.archive.IsSuppressed("ACME:heartbeat", time.Now()))

	list := s.HandleCommand("/archive")
	assert.Contains(t, list, "ACME:heartbeat")

	out = s.HandleCommand("/unarchive ACME:heartbeat")
	assert.Contains(t, out, "will alert again")
	assert.False(t, s.archive.IsSuppressed("ACME:heartbeat", time.Now()))

	assert.Contains(t, s.HandleCommand("/unarchive ACME:heartbeat"), "not archived")
}

func TestHandleCommand_ArchiveValidation(t *testing.T) {
	s, _, _ := newTestScheduler(t)

	assert.Contains(t, s.HandleCommand("/archive badkey"), "TICKER:SIGNAL")
	assert.Contains(t, s.HandleCommand("/archive ACME:dip zero"), "positive number")
	assert.Contains(t, s.HandleCommand("/archive ACME:dip -3"), "positive number")
}

func TestHandleCommand_Matrix(t *testing.T) {
	s, _, _ := newTestScheduler(t)

	out := s.HandleCommand("/matrix acme")
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "flag matrix")
	assert.Contains(t, out, "_price")

	assert.Contains(t, s.HandleCommand("/matrix"), "Usage")
}

func TestHandleCommand_UnknownShowsHelp(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	out := s.HandleCommand("/bogus")
	assert.Contains(t, out, "Available commands")
	assert.Contains(t, out, "/archive")
}

func TestReminderJob(t *testing.T) {
	s, notify, store := newTestScheduler(t)

	// Plant a recent digest that has not been acknowledged.
	st := model.NewRunState()
	st.LastDigest = &model.Digest{
		ID:        "d1",
		CreatedAt: time.Now().Add(-4 * time.Hour),
		Results:   []model.TriggerResult{{Ticker: "ACME", Signal: "dip", Action: model.ActionBuy}},
	}
	require.NoError(t, store.Save(st))

	s.reminderJob()
	msgs := notify.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Reminder")

	// Reminded once per digest.
	s.reminderJob()
	assert.Len(t, notify.messages(), 1)
}

func TestRegisterAll_BadCron(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	assert.Error(t, s.RegisterAll("not a cron", "0 0 12 * * *"))
	assert.NoError(t, s.RegisterAll("0 30 7 * * 2-6", "0 0 12 * * *"))
}

// Exercise the trigger package's built-ins through the scheduler wiring
// so a config with defaults is known-good end to end.
func TestDefaultTriggerSetsLoadable(t *testing.T) {
	require.NoError(t, trigger.ValidateDefinitions(trigger.PortfolioTriggers()))
	require.NoError(t, trigger.ValidateDefinitions(trigger.WatchlistTriggers()))
}
