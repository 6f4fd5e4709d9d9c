package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"TickerSentry/internal/calculator"
	"TickerSentry/internal/collector"
	"TickerSentry/internal/model"
	"TickerSentry/internal/recorder"
	"TickerSentry/internal/scorer"
	"TickerSentry/internal/state"
	"TickerSentry/internal/trigger"
)

// Profile names one scan configuration: which symbols to look at, which
// weight table scores them, and which trigger rules apply.
type Profile struct {
	Name       string
	Symbols    []string
	ScoreTable string
	Triggers   []model.TriggerDefinition
}

// Report is the outcome of one scan run. Result slices preserve the
// profile's symbol order, then definition order within a symbol.
// Interrupted marks a run cut short by context cancellation; such a run
// keeps the previous run's fired set and mints no digest.
type Report struct {
	Profile     string
	StartedAt   time.Time
	Duration    time.Duration
	New         []model.TriggerResult
	Repeat      []model.TriggerResult
	Suppressed  []model.TriggerResult
	Failures    map[string]error
	Digest      *model.Digest
	Interrupted bool
}

// Scanner runs the fetch -> indicators -> score -> trigger pipeline over
// a profile's symbols with bounded concurrency.
type Scanner struct {
	fetcher  collector.Fetcher
	store    *state.Store
	archive  *state.ArchiveStore
	rec      recorder.Recorder
	workers  int
	lookback int
	now      func() time.Time
	log      *logrus.Entry
}

// New creates a scanner. workers bounds concurrent fetches; lookbackDays
// is how much daily history each symbol gets.
func New(fetcher collector.Fetcher, store *state.Store, archive *state.ArchiveStore, rec recorder.Recorder, workers, lookbackDays int) *Scanner {
	if workers < 1 {
		workers = 1
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scanner{
		fetcher:  fetcher,
		store:    store,
		archive:  archive,
		rec:      rec,
		workers:  workers,
		lookback: lookbackDays,
		now:      time.Now,
		log:      logrus.WithField("component", "scanner"),
	}
}

// Run executes one scan over the profile. Per-symbol failures are
// isolated into the report; state is loaded once, mutated under a lock,
// and saved once at the end regardless of how many symbols failed.
func (s *Scanner) Run(ctx context.Context, profile Profile) (*Report, error) {
	if err := trigger.ValidateDefinitions(profile.Triggers); err != nil {
		return nil, fmt.Errorf("profile %s: %w", profile.Name, err)
	}

	started := s.now()
	report := &Report{
		Profile:   profile.Name,
		StartedAt: started,
		Failures:  make(map[string]error),
	}

	st := s.store.Load()
	prevFired := st.PrevFired()
	ev := trigger.NewEvaluator(profile.Triggers, s.archive)

	// Evaluation results land in per-symbol slots so concurrency never
	// perturbs output order.
	slots := make([]trigger.Result, len(profile.Symbols))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.workers)
	)
	for i, symbol := range profile.Symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			// Queued symbols stay undispatched once the run is cancelled;
			// only work already holding a slot finishes.
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			res, err := s.scanSymbol(ctx, ev, symbol, profile.ScoreTable, st, prevFired, &mu, started)
			if err != nil {
				s.log.WithError(err).WithField("symbol", symbol).Warn("symbol scan failed")
				mu.Lock()
				report.Failures[symbol] = err
				mu.Unlock()
				return
			}
			slots[i] = res
		}(i, symbol)
	}
	wg.Wait()

	var firedKeys []string
	for _, res := range slots {
		report.New = append(report.New, res.New...)
		report.Repeat = append(report.Repeat, res.Repeat...)
		report.Suppressed = append(report.Suppressed, res.Suppressed...)
		firedKeys = append(firedKeys, res.FiredKeys...)
	}

	if ctx.Err() != nil {
		// An interrupted run saw only some symbols. Writing its fired keys
		// would drop every still-active trigger that never got evaluated,
		// so the next run would re-announce them as new. Keep the previous
		// run's set and mint no digest.
		report.Interrupted = true
		s.log.WithError(ctx.Err()).Warn("scan interrupted, keeping previous fired set")
	} else {
		st.LastRun = model.LastRun{RanAt: started, TriggerKeys: firedKeys}
		if len(report.New) > 0 {
			report.Digest = &model.Digest{
				ID:        uuid.NewString(),
				CreatedAt: started,
				Results:   report.New,
			}
			st.LastDigest = report.Digest
		}
	}

	if err := s.store.Save(st); err != nil {
		s.log.WithError(err).Error("state save failed; next run may resend alerts")
	}

	report.Duration = s.now().Sub(started)
	s.record(report, len(profile.Symbols))

	s.log.WithFields(logrus.Fields{
		"profile":    profile.Name,
		"symbols":    len(profile.Symbols),
		"new":        len(report.New),
		"repeat":     len(report.Repeat),
		"suppressed": len(report.Suppressed),
		"failures":   len(report.Failures),
		"duration":   report.Duration.Round(time.Millisecond),
	}).Info("scan complete")

	return report, nil
}

func (s *Scanner) scanSymbol(ctx context.Context, ev *trigger.Evaluator, symbol, table string, st *model.RunState, prevFired map[string]bool, mu *sync.Mutex, now time.Time) (trigger.Result, error) {
	series, err := s.fetcher.FetchDailyBars(ctx, symbol, s.lookback)
	if err != nil {
		return trigger.Result{}, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if series.Len() == 0 {
		return trigger.Result{}, fmt.Errorf("fetch %s: empty series", symbol)
	}

	snap := calculator.Compute(series)

	scores := make([]model.CompositeScore, 0, 3)
	for _, t := range []string{table, "reversal_up", "reversal_down"} {
		sc, err := scorer.Score(snap, t)
		if err != nil {
			return trigger.Result{}, fmt.Errorf("score %s table %s: %w", symbol, t, err)
		}
		scores = append(scores, sc)
	}

	matrix := trigger.BuildFlagMatrix(snap, scores...)

	mu.Lock()
	defer mu.Unlock()
	return ev.EvaluateSymbol(matrix, st, prevFired, now), nil
}

func (s *Scanner) record(report *Report, symbols int) {
	rec := &recorder.RunRecord{
		Profile:    report.Profile,
		StartedAt:  report.StartedAt,
		Duration:   report.Duration,
		Symbols:    symbols,
		Failures:   len(report.Failures),
		NewCount:   len(report.New),
		RepeatKeys: len(report.Repeat),
		Suppressed: len(report.Suppressed),
	}
	if err := s.rec.RecordRun(rec); err != nil {
		s.log.WithError(err).Warn("record run failed")
	}
	for i := range report.New {
		if err := s.rec.RecordTrigger(report.Profile, &report.New[i], recorder.StatusNew); err != nil {
			s.log.WithError(err).Warn("record trigger failed")
		}
	}
	for i := range report.Repeat {
		if err := s.rec.RecordTrigger(report.Profile, &report.Repeat[i], recorder.StatusRepeat); err != nil {
			s.log.WithError(err).Warn("record trigger failed")
		}
	}
	for i := range report.Suppressed {
		if err := s.rec.RecordTrigger(report.Profile, &report.Suppressed[i], recorder.StatusSuppressed); err != nil {
			s.log.WithError(err).Warn("record trigger failed")
		}
	}
}
