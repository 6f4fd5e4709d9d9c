package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"TickerSentry/internal/model"
)

// record is the column-oriented on-disk shape of one symbol's bars for
// one trading day's fetch. Column-oriented keeps the files diffable and
// small; the close column is the only one the pipeline cannot live
// without.
type record struct {
	Symbol string    `json:"symbol"`
	Date   string    `json:"date"`
	Dates  []string  `json:"dates"`
	Open   []float64 `json:"open"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []float64 `json:"volume"`
}

const dayLayout = "2006-01-02"

// Cache stores fetched daily-bar series on disk, scoped to the calendar
// day of the fetch: a hit requires today's file, so every new day is a
// clean fetch. Stale and malformed files read as misses, never errors.
type Cache struct {
	dir string
	now func() time.Time
	log *logrus.Entry
}

// New creates a cache rooted at dir, creating it if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{
		dir: dir,
		now: time.Now,
		log: logrus.WithField("component", "cache"),
	}, nil
}

// Get returns the cached series for symbol if it was stored today.
// Any miss reason (absent, stale, unreadable, malformed) returns ok=false.
func (c *Cache) Get(symbol string) (*model.Series, bool) {
	today := c.now().Format(dayLayout)
	data, err := os.ReadFile(c.path(symbol, today))
	if err != nil {
		return nil, false
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		c.log.WithError(err).WithField("symbol", symbol).Debug("cache file malformed, treating as miss")
		return nil, false
	}
	if rec.Date != today || len(rec.Close) == 0 {
		return nil, false
	}
	series, err := rec.toSeries()
	if err != nil {
		c.log.WithError(err).WithField("symbol", symbol).Debug("cache file inconsistent, treating as miss")
		return nil, false
	}
	return series, true
}

// Put stores the series under today's date, overwriting any existing
// file for the same symbol and day.
func (c *Cache) Put(series *model.Series) error {
	today := c.now().Format(dayLayout)
	rec := record{
		Symbol: series.Symbol,
		Date:   today,
		Dates:  make([]string, 0, len(series.Bars)),
		Open:   make([]float64, 0, len(series.Bars)),
		High:   make([]float64, 0, len(series.Bars)),
		Low:    make([]float64, 0, len(series.Bars)),
		Close:  make([]float64, 0, len(series.Bars)),
		Volume: make([]float64, 0, len(series.Bars)),
	}
	for _, b := range series.Bars {
		rec.Dates = append(rec.Dates, b.Date.Format(dayLayout))
		rec.Open = append(rec.Open, b.Open)
		rec.High = append(rec.High, b.High)
		rec.Low = append(rec.Low, b.Low)
		rec.Close = append(rec.Close, b.Close)
		rec.Volume = append(rec.Volume, b.Volume)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal cache record: %w", err)
	}
	if err := os.WriteFile(c.path(series.Symbol, today), data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

// Prune removes cache files whose embedded date is older than maxAge.
// Files whose names don't parse are left alone.
func (c *Cache) Prune(maxAge time.Duration) (removed int, err error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}
	cutoff := c.now().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".json")
		idx := strings.LastIndex(base, "_")
		if idx < 0 {
			continue
		}
		day, perr := time.Parse(dayLayout, base[idx+1:])
		if perr != nil {
			continue
		}
		if day.Before(cutoff) {
			if rerr := os.Remove(filepath.Join(c.dir, e.Name())); rerr != nil {
				c.log.WithError(rerr).WithField("file", e.Name()).Warn("prune failed")
				continue
			}
			removed++
		}
	}
	return removed, nil
}

func (c *Cache) path(symbol, day string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s.json", strings.ToUpper(symbol), day))
}

// toSeries reconstructs bars from the column arrays. Close and dates are
// required and must agree in length; missing optional columns read as
// zeros.
func (r *record) toSeries() (*model.Series, error) {
	n := len(r.Close)
	if len(r.Dates) != n {
		return nil, fmt.Errorf("dates/close length mismatch: %d vs %d", len(r.Dates), n)
	}
	col := func(vals []float64) func(int) float64 {
		if len(vals) == n {
			return func(i int) float64 { return vals[i] }
		}
		return func(int) float64 { return 0 }
	}
	open, high, low, vol := col(r.Open), col(r.High), col(r.Low), col(r.Volume)

	bars := make([]model.Bar, 0, n)
	for i := 0; i < n; i++ {
		date, err := time.Parse(dayLayout, r.Dates[i])
		if err != nil {
			return nil, fmt.Errorf("bar %d: bad date %q", i, r.Dates[i])
		}
		bars = append(bars, model.Bar{
			Date:   date,
			Open:   open(i),
			High:   high(i),
			Low:    low(i),
			Close:  r.Close[i],
			Volume: vol(i),
		})
	}
	return &model.Series{Symbol: r.Symbol, Bars: bars}, nil
}
