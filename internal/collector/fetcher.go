package collector

import (
	"context"
	"sync"
	"time"

	"TickerSentry/internal/model"
)

// Fetcher retrieves daily bar history for a symbol. Implementations must
// return bars in strictly increasing date order.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) (*model.Series, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and
// testing. When Series is nil it synthesizes a gently drifting series
// around Price.
type MockFetcher struct {
	Price  float64
	Series map[string]*model.Series
	Err    error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) (*model.Series, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	return generateMockSeries(symbol, m.Price, days), nil
}

// Calls returns how many times a symbol was fetched.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func generateMockSeries(symbol string, basePrice float64, count int) *model.Series {
	s := &model.Series{Symbol: symbol, FetchedAt: time.Now()}
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		s.Bars = append(s.Bars, model.Bar{
			Date:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
	}
	return s
}
