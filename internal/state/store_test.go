package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerSentry/internal/model"
)

func tempStatePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.json")
}

func TestStore_RoundTrip(t *testing.T) {
	path := tempStatePath(t)
	store := NewStore(path)

	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	st := model.NewRunState()
	st.LastRun = model.LastRun{RanAt: now, TriggerKeys: []string{"ACME:dip"}}
	st.SeenTriggers["ACME:dip"] = model.SeenTrigger{FirstSeen: now, LastSeen: now, LastMessage: "BUY ACME"}
	st.Cooldowns["ACME:dip"] = now.AddDate(0, 0, 5)
	st.LastDigest = &model.Digest{ID: "d1", CreatedAt: now}

	require.NoError(t, store.Save(st))

	got := store.Load()
	assert.Equal(t, st.LastRun.TriggerKeys, got.LastRun.TriggerKeys)
	assert.True(t, got.SeenTriggers["ACME:dip"].FirstSeen.Equal(now))
	assert.True(t, got.Cooldowns["ACME:dip"].Equal(now.AddDate(0, 0, 5)))
	require.NotNil(t, got.LastDigest)
	assert.Equal(t, "d1", got.LastDigest.ID)
}

func TestStore_MissingFileIsFreshState(t *testing.T) {
	store := NewStore(tempStatePath(t))
	st := store.Load()
	require.NotNil(t, st)
	assert.Empty(t, st.LastRun.TriggerKeys)
	assert.NotNil(t, st.SeenTriggers)
	assert.NotNil(t, st.Cooldowns)
}

func TestStore_CorruptFileIsFreshState(t *testing.T) {
	path := tempStatePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	st := NewStore(path).Load()
	require.NotNil(t, st)
	assert.NotNil(t, st.SeenTriggers)
}

func TestStore_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	store := NewStore(path)
	require.NoError(t, store.Save(model.NewRunState()))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestStore_NullMapsNormalized(t *testing.T) {
	path := tempStatePath(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"last_run":{"ran_at":"2026-08-25T09:00:00Z","trigger_keys":null}}`), 0o644))

	st := NewStore(path).Load()
	assert.NotNil(t, st.SeenTriggers)
	assert.NotNil(t, st.Cooldowns)
}

func TestShouldSendReminder(t *testing.T) {
	store := NewStore(tempStatePath(t))
	created := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)

	st := model.NewRunState()
	assert.False(t, store.ShouldSendReminder(st, created), "no digest, no reminder")

	st.LastDigest = &model.Digest{
		ID:        "d1",
		CreatedAt: created,
		Results:   []model.TriggerResult{{Ticker: "ACME", Signal: "dip"}},
	}
	assert.True(t, store.ShouldSendReminder(st, created.Add(12*time.Hour)))
	assert.False(t, store.ShouldSendReminder(st, created.Add(40*time.Hour)), "stale digest no longer worth a reminder")

	st.LastReminder = &model.Reminder{DigestID: "d1", SentAt: created.Add(12 * time.Hour)}
	assert.False(t, store.ShouldSendReminder(st, created.Add(20*time.Hour)), "already reminded for this digest")

	st.LastDigest = &model.Digest{
		ID:        "d2",
		CreatedAt: created.Add(24 * time.Hour),
		Results:   st.LastDigest.Results,
	}
	assert.True(t, store.ShouldSendReminder(st, created.Add(30*time.Hour)), "new digest resets the gate")

	st.LastDigest.Results = nil
	assert.False(t, store.ShouldSendReminder(st, created.Add(30*time.Hour)), "empty digest never reminds")
}
