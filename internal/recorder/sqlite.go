package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"TickerSentry/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logrus.Entry
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read
	// while the scanner writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logrus.WithField("component", "recorder")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			profile      TEXT,
			duration_ms  INTEGER,
			symbols      INTEGER,
			failures     INTEGER,
			new_count    INTEGER,
			repeat_count INTEGER,
			suppressed   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON scan_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trigger_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			profile       TEXT,
			ticker        TEXT,
			signal        TEXT,
			action        TEXT,
			trigger_key   TEXT,
			status        TEXT,
			cooldown_days INTEGER,
			message       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON trigger_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_events_key ON trigger_events(trigger_key)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scan_runs
		(timestamp, profile, duration_ms, symbols, failures, new_count, repeat_count, suppressed)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.StartedAt.Unix(), rec.Profile, rec.Duration.Milliseconds(),
		rec.Symbols, rec.Failures, rec.NewCount, rec.RepeatKeys, rec.Suppressed,
	)
	return err
}

func (r *SQLiteRecorder) RecordTrigger(profile string, result *model.TriggerResult, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trigger_events
		(timestamp, profile, ticker, signal, action, trigger_key, status, cooldown_days, message)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), profile, result.Ticker, result.Signal,
		string(result.Action), result.TriggerKey, status, result.CooldownDays, result.Message,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
