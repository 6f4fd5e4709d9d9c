package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerSentry/internal/cache"
)

func TestCachingFetcher_SecondFetchHitsCache(t *testing.T) {
	c, err := cache.New(t.TempDir())
	require.NoError(t, err)
	mock := &MockFetcher{Price: 100}
	f := NewCachingFetcher(mock, c)

	ctx := context.Background()
	first, err := f.FetchDailyBars(ctx, "ACME", 60)
	require.NoError(t, err)
	require.Equal(t, 60, first.Len())
	assert.Equal(t, 1, mock.Calls("ACME"))

	second, err := f.FetchDailyBars(ctx, "ACME", 60)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.Calls("ACME"), "same-day refetch must not hit the network")
	assert.Equal(t, first.Len(), second.Len())
	assert.InDelta(t, first.Bars[59].Close, second.Bars[59].Close, 1e-9)
}

func TestCachingFetcher_DistinctSymbolsFetchSeparately(t *testing.T) {
	c, err := cache.New(t.TempDir())
	require.NoError(t, err)
	mock := &MockFetcher{Price: 100}
	f := NewCachingFetcher(mock, c)

	ctx := context.Background()
	_, err = f.FetchDailyBars(ctx, "ACME", 30)
	require.NoError(t, err)
	_, err = f.FetchDailyBars(ctx, "BETA", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.Calls("ACME"))
	assert.Equal(t, 1, mock.Calls("BETA"))
}

func TestCachingFetcher_FetchErrorPropagates(t *testing.T) {
	c, err := cache.New(t.TempDir())
	require.NoError(t, err)
	mock := &MockFetcher{Err: errors.New("upstream down")}
	f := NewCachingFetcher(mock, c)

	_, err = f.FetchDailyBars(context.Background(), "ACME", 30)
	assert.Error(t, err)
}

func TestCachingFetcher_Name(t *testing.T) {
	c, err := cache.New(t.TempDir())
	require.NoError(t, err)
	f := NewCachingFetcher(&MockFetcher{}, c)
	assert.Equal(t, "mock+cache", f.Name())
}
