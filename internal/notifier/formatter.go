package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"TickerSentry/internal/model"
)

var actionEmoji = map[model.Action]string{
	model.ActionBuy:   "🟢",
	model.ActionSell:  "🔴",
	model.ActionAlert: "⚠️",
	model.ActionWatch: "👀",
}

// FormatDigest formats a batch of newly fired triggers.
func FormatDigest(profile string, digest *model.Digest) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>TickerSentry</b> | %s | %s\n\n",
		profile, digest.CreatedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("%d new signal(s):\n\n", len(digest.Results)))
	for _, r := range digest.Results {
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %s\n   %s\n",
			actionEmoji[r.Action], r.Ticker, r.Action, r.Message))
	}
	return b.String()
}

// FormatReminder nudges the operator about a digest that has gone
// unanswered.
func FormatReminder(digest *model.Digest, now time.Time) string {
	age := now.Sub(digest.CreatedAt).Round(time.Hour)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⏰ <b>Reminder</b>: %d signal(s) from %s still open (%s ago)\n\n",
		len(digest.Results), digest.CreatedAt.Format("2006-01-02"), age))
	for _, r := range digest.Results {
		b.WriteString(fmt.Sprintf("  %s %s: %s\n", actionEmoji[r.Action], r.Ticker, r.Signal))
	}
	b.WriteString("\nUse /archive KEY [days] to silence a signal.")
	return b.String()
}

// FormatReport summarizes a completed run, including failures, for the
// /scan command reply.
func FormatReport(profile string, newCount, repeatCount, suppressedCount int, failures map[string]error) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("✅ <b>Scan complete</b> | %s\n", profile))
	b.WriteString(fmt.Sprintf("new: %d, repeat: %d, suppressed: %d\n", newCount, repeatCount, suppressedCount))
	if len(failures) > 0 {
		symbols := make([]string, 0, len(failures))
		for s := range failures {
			symbols = append(symbols, s)
		}
		sort.Strings(symbols)
		b.WriteString(fmt.Sprintf("⚠️ %d symbol(s) failed: %s\n", len(failures), strings.Join(symbols, ", ")))
	}
	return b.String()
}

// FormatMatrix renders a symbol's full flag matrix for the /matrix
// command: every boolean flag with its state, then every continuous
// value, both sorted by name.
func FormatMatrix(m *model.FlagMatrix) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔍 <b>%s</b> flag matrix\n\n", m.Ticker))

	bools := m.BoolNames()
	sort.Strings(bools)
	for _, name := range bools {
		v, _ := m.Bool(name)
		mark := "·"
		if v {
			mark = "✓"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", mark, name))
	}

	values := m.ValueNames()
	sort.Strings(values)
	if len(values) > 0 {
		b.WriteString("\n")
		for _, name := range values {
			v, _ := m.Value(name)
			b.WriteString(fmt.Sprintf("  %s = %.2f\n", name, v))
		}
	}
	return b.String()
}

// FormatArchiveList renders the active suppressions for the /archive
// command without arguments.
func FormatArchiveList(entries []model.ArchiveEntry, now time.Time) string {
	active := entries[:0:0]
	for _, e := range entries {
		if now.Before(e.SuppressUntil) {
			active = append(active, e)
		}
	}
	if len(active) == 0 {
		return "📦 No active suppressions."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>%d active suppression(s)</b>\n\n", len(active)))
	for _, e := range active {
		b.WriteString(fmt.Sprintf("  %s until %s\n", e.TriggerKey, e.SuppressUntil.Format("2006-01-02")))
	}
	return b.String()
}
