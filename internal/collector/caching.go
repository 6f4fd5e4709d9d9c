package collector

import (
	"context"

	"github.com/sirupsen/logrus"

	"TickerSentry/internal/cache"
	"TickerSentry/internal/model"
)

// CachingFetcher wraps a Fetcher with the day-scoped disk cache so that
// repeated scans on the same day hit the network once per symbol. Cache
// write failures are logged and swallowed: a broken cache must never
// fail a scan that already has the data.
type CachingFetcher struct {
	inner Fetcher
	cache *cache.Cache
	log   *logrus.Entry
}

// NewCachingFetcher wraps inner with c.
func NewCachingFetcher(inner Fetcher, c *cache.Cache) *CachingFetcher {
	return &CachingFetcher{
		inner: inner,
		cache: c,
		log:   logrus.WithField("component", "collector"),
	}
}

func (f *CachingFetcher) Name() string { return f.inner.Name() + "+cache" }

func (f *CachingFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) (*model.Series, error) {
	// Scans use a fixed lookback, so any same-day file covers the request.
	if series, ok := f.cache.Get(symbol); ok {
		f.log.WithField("symbol", symbol).Debug("cache hit")
		return series, nil
	}

	series, err := f.inner.FetchDailyBars(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	if err := f.cache.Put(series); err != nil {
		f.log.WithError(err).WithField("symbol", symbol).Warn("cache write failed")
	}
	return series, nil
}
