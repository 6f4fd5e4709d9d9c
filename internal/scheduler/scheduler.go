package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"TickerSentry/internal/calculator"
	"TickerSentry/internal/collector"
	"TickerSentry/internal/model"
	"TickerSentry/internal/notifier"
	"TickerSentry/internal/scanner"
	"TickerSentry/internal/scorer"
	"TickerSentry/internal/state"
	"TickerSentry/internal/trigger"
)

const defaultArchiveDays = 30

// Scheduler manages the cron jobs and the operator command loop.
type Scheduler struct {
	cron     *cron.Cron
	scanner  *scanner.Scanner
	profiles []scanner.Profile
	store    *state.Store
	archive  *state.ArchiveStore
	notify   notifier.Notifier
	fetcher  collector.Fetcher
	lookback int
	ctx      context.Context
	log      *logrus.Entry

	// Serializes scans and reminder state writes against each other.
	mu sync.Mutex
}

// New creates a scheduler over the given profiles.
func New(ctx context.Context, sc *scanner.Scanner, profiles []scanner.Profile, store *state.Store, archive *state.ArchiveStore, notify notifier.Notifier, fetcher collector.Fetcher, lookbackDays int) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		scanner:  sc,
		profiles: profiles,
		store:    store,
		archive:  archive,
		notify:   notify,
		fetcher:  fetcher,
		lookback: lookbackDays,
		ctx:      ctx,
		log:      logrus.WithField("component", "scheduler"),
	}
}

// RegisterAll registers the scan and reminder jobs.
func (s *Scheduler) RegisterAll(scanCron, reminderCron string) error {
	if _, err := s.cron.AddFunc(scanCron, func() { s.RunAllScans() }); err != nil {
		return fmt.Errorf("register scan job: %w", err)
	}
	if _, err := s.cron.AddFunc(reminderCron, s.reminderJob); err != nil {
		return fmt.Errorf("register reminder job: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

// RunAllScans runs every profile once and notifies the operator. Used by
// the cron job, the /scan command, and run-once mode.
func (s *Scheduler) RunAllScans() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, profile := range s.profiles {
		if len(profile.Symbols) == 0 {
			continue
		}
		report, err := s.scanner.Run(s.ctx, profile)
		if err != nil {
			s.log.WithError(err).WithField("profile", profile.Name).Error("scan failed")
			s.trySend(fmt.Sprintf("❌ %s scan failed: %v", profile.Name, err))
			continue
		}
		if report.Digest != nil {
			s.trySend(notifier.FormatDigest(profile.Name, report.Digest))
		}
		if len(report.Failures) > 0 {
			s.trySend(notifier.FormatReport(profile.Name,
				len(report.New), len(report.Repeat), len(report.Suppressed), report.Failures))
		}
	}
}

// reminderJob pings the operator when the last digest has gone stale
// without an acknowledgment.
func (s *Scheduler) reminderJob() {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.store.Load()
	now := time.Now()
	if !s.store.ShouldSendReminder(st, now) {
		return
	}

	s.trySend(notifier.FormatReminder(st.LastDigest, now))

	st.LastReminder = &model.Reminder{DigestID: st.LastDigest.ID, SentAt: now}
	if err := s.store.Save(st); err != nil {
		s.log.WithError(err).Error("save reminder state failed")
	}
}

// HandleCommand processes a user command and returns a reply. An empty
// reply means the command produced its own notifications.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return s.helpText()
	}

	switch fields[0] {
	case "/scan":
		go s.RunAllScans()
		return "🔎 Scan started."
	case "/status":
		return s.statusText()
	case "/matrix":
		if len(fields) < 2 {
			return "Usage: /matrix SYMBOL"
		}
		return s.matrixText(strings.ToUpper(fields[1]))
	case "/archive":
		return s.archiveCommand(fields[1:])
	case "/unarchive":
		if len(fields) < 2 {
			return "Usage: /unarchive TICKER:SIGNAL"
		}
		return s.unarchiveText(fields[1])
	default:
		return s.helpText()
	}
}

func (s *Scheduler) helpText() string {
	return strings.Join([]string{
		"Available commands:",
		"• /scan — run all profiles now",
		"• /status — last run summary",
		"• /matrix SYMBOL — full flag matrix for a symbol",
		"• /archive — list active suppressions",
		"• /archive TICKER:SIGNAL [days] — suppress a trigger",
		"• /unarchive TICKER:SIGNAL — lift a suppression",
	}, "\n")
}

func (s *Scheduler) statusText() string {
	st := s.store.Load()
	var b strings.Builder
	if st.LastRun.RanAt.IsZero() {
		b.WriteString("No scans recorded yet.\n")
	} else {
		b.WriteString(fmt.Sprintf("Last run: %s, %d active trigger(s)\n",
			st.LastRun.RanAt.Format("2006-01-02 15:04 MST"), len(st.LastRun.TriggerKeys)))
		for _, key := range st.LastRun.TriggerKeys {
			b.WriteString(fmt.Sprintf("  • %s\n", key))
		}
	}
	if st.LastDigest != nil {
		b.WriteString(fmt.Sprintf("Last digest: %s (%d signals)\n",
			st.LastDigest.CreatedAt.Format("2006-01-02"), len(st.LastDigest.Results)))
	}
	return b.String()
}

func (s *Scheduler) matrixText(symbol string) string {
	ctx, cancel := context.WithTimeout(s.ctx, time.Minute)
	defer cancel()

	series, err := s.fetcher.FetchDailyBars(ctx, symbol, s.lookback)
	if err != nil {
		return fmt.Sprintf("❌ fetch %s: %v", symbol, err)
	}
	snap := calculator.Compute(series)

	var scores []model.CompositeScore
	for _, table := range []string{"bullish", "reversal_up", "reversal_down"} {
		sc, err := scorer.Score(snap, table)
		if err != nil {
			return fmt.Sprintf("❌ score %s: %v", symbol, err)
		}
		scores = append(scores, sc)
	}
	return notifier.FormatMatrix(trigger.BuildFlagMatrix(snap, scores...))
}

func (s *Scheduler) archiveCommand(args []string) string {
	if len(args) == 0 {
		return notifier.FormatArchiveList(s.archive.Entries(), time.Now())
	}

	key := args[0]
	ticker, _, ok := strings.Cut(key, ":")
	if !ok || ticker == "" {
		return "Archive key must look like TICKER:SIGNAL."
	}
	days := defaultArchiveDays
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return "Days must be a positive number."
		}
		days = n
	}

	st := s.store.Load()
	message := key
	if seen, ok := st.SeenTriggers[key]; ok && seen.LastMessage != "" {
		message = seen.LastMessage
	}
	if err := s.archive.Archive(ticker, key, message, days, time.Now()); err != nil {
		return fmt.Sprintf("❌ archive failed: %v", err)
	}
	return fmt.Sprintf("📦 %s suppressed for %d day(s).", key, days)
}

func (s *Scheduler) unarchiveText(key string) string {
	removed, err := s.archive.Remove(key)
	if err != nil {
		return fmt.Sprintf("❌ unarchive failed: %v", err)
	}
	if !removed {
		return fmt.Sprintf("%s is not archived.", key)
	}
	return fmt.Sprintf("🔔 %s will alert again.", key)
}

func (s *Scheduler) trySend(text string) {
	if err := s.notify.SendWithRetry(s.ctx, text, 3); err != nil {
		s.log.WithError(err).Error("send notification failed")
	}
}
