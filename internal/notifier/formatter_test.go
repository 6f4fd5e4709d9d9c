package notifier

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"TickerSentry/internal/model"
)

func TestFormatDigest(t *testing.T) {
	digest := &model.Digest{
		ID:        "d1",
		CreatedAt: time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC),
		Results: []model.TriggerResult{
			{Ticker: "ACME", Signal: "golden_cross", Action: model.ActionBuy, Message: "BUY ACME: SMA50 crossed above SMA200"},
			{Ticker: "BETA", Signal: "trend_break", Action: model.ActionAlert, Message: "ALERT BETA: price lost the 200-day average"},
		},
	}
	out := FormatDigest("watchlist", digest)
	assert.Contains(t, out, "watchlist")
	assert.Contains(t, out, "2026-08-25")
	assert.Contains(t, out, "2 new signal(s)")
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "SMA50 crossed above SMA200")
}

func TestFormatReminder(t *testing.T) {
	created := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	digest := &model.Digest{
		ID:        "d1",
		CreatedAt: created,
		Results:   []model.TriggerResult{{Ticker: "ACME", Signal: "dip", Action: model.ActionBuy}},
	}
	out := FormatReminder(digest, created.Add(40*time.Hour))
	assert.Contains(t, out, "Reminder")
	assert.Contains(t, out, "40h")
	assert.Contains(t, out, "/archive")
}

func TestFormatReport_ListsFailedSymbols(t *testing.T) {
	failures := map[string]error{
		"ZED":  errors.New("timeout"),
		"ACME": errors.New("no data"),
	}
	out := FormatReport("portfolio", 1, 2, 3, failures)
	assert.Contains(t, out, "new: 1, repeat: 2, suppressed: 3")
	assert.Contains(t, out, "ACME, ZED", "failed symbols sorted")

	clean := FormatReport("portfolio", 0, 0, 0, nil)
	assert.NotContains(t, clean, "failed")
}

func TestFormatMatrix(t *testing.T) {
	m := model.NewFlagMatrix("ACME")
	m.SetBool("rsi_oversold", true)
	m.SetBool("above_sma200", false)
	m.SetValue("_rsi", 27.4)
	m.SetValue("score", 7.1)

	out := FormatMatrix(m)
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "✓ rsi_oversold")
	assert.Contains(t, out, "· above_sma200")
	assert.Contains(t, out, "_rsi = 27.40")
	assert.Contains(t, out, "score = 7.10")
}

func TestFormatArchiveList(t *testing.T) {
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	entries := []model.ArchiveEntry{
		{TriggerKey: "ACME:dip", SuppressUntil: now.AddDate(0, 0, 10)},
		{TriggerKey: "OLD:gone", SuppressUntil: now.AddDate(0, 0, -1)},
	}
	out := FormatArchiveList(entries, now)
	assert.Contains(t, out, "1 active")
	assert.Contains(t, out, "ACME:dip")
	assert.NotContains(t, out, "OLD:gone", "expired suppressions hidden")

	assert.Contains(t, FormatArchiveList(nil, now), "No active")
}
