package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerSentry/internal/model"
)

// makeBars builds count daily bars from a close-price function.
func makeBars(count int, closeAt func(i int) float64) []model.Bar {
	bars := make([]model.Bar, count)
	base := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		c := closeAt(i)
		bars[i] = model.Bar{
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func risingBars(count int) []model.Bar {
	return makeBars(count, func(i int) float64 { return 100 + float64(i) })
}

func flatBars(count int, price float64) []model.Bar {
	bars := makeBars(count, func(int) float64 { return price })
	for i := range bars {
		bars[i].High = price
		bars[i].Low = price
	}
	return bars
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 5)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v, 1e-9)

	_, err = CalculateSMA([]float64{1, 2}, 5)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CalculateSMA([]float64{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestCalculateEMA(t *testing.T) {
	v, err := CalculateEMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	// Seeded with SMA(1,2,3)=2, k=0.5: 4*0.5+2*0.5=3, 5*0.5+3*0.5=4.
	assert.InDelta(t, 4.0, v, 1e-9)

	v, err = CalculateEMA([]float64{7, 7, 7, 7, 7, 7}, 4)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, v, 1e-9)

	_, err = CalculateEMA([]float64{1}, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateRSI(t *testing.T) {
	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	v, err := CalculateRSI(rising, 14)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, v, 1e-9, "zero average loss must yield 100, not a division error")

	falling := make([]float64, 30)
	for i := range falling {
		falling[i] = 200 - float64(i)
	}
	v, err = CalculateRSI(falling, 14)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, v, 1e-9)

	constant := make([]float64, 30)
	for i := range constant {
		constant[i] = 150
	}
	v, err = CalculateRSI(constant, 14)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, v, 1e-9, "constant series resolves to neutral")

	_, err = CalculateRSI(rising[:14], 14)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateRSI_Bounded(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		// Noisy but deterministic mix of gains and losses.
		closes[i] = 100 + float64(i%7) - float64(i%3)*2
	}
	v, err := CalculateRSI(closes, 14)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 100.0)
}

func TestCalculateMACD(t *testing.T) {
	constant := make([]float64, 40)
	for i := range constant {
		constant[i] = 50
	}
	res, err := CalculateMACD(constant, 12, 26, 9)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.Line, 1e-9)
	assert.InDelta(t, 0.0, res.Signal, 1e-9)
	assert.InDelta(t, 0.0, res.Hist, 1e-9)

	rising := make([]float64, 60)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	res, err = CalculateMACD(rising, 12, 26, 9)
	require.NoError(t, err)
	assert.Greater(t, res.Line, 0.0, "fast EMA leads slow EMA in an uptrend")

	_, err = CalculateMACD(rising[:30], 12, 26, 9)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateBollinger(t *testing.T) {
	alternating := make([]float64, 20)
	for i := range alternating {
		if i%2 == 0 {
			alternating[i] = 9
		} else {
			alternating[i] = 11
		}
	}
	res, err := CalculateBollinger(alternating, 20, 2)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, res.Middle, 1e-9)
	assert.InDelta(t, 12.0, res.Upper, 1e-9)
	assert.InDelta(t, 8.0, res.Lower, 1e-9)
	assert.InDelta(t, 40.0, res.Bandwidth, 1e-9)

	constant := make([]float64, 25)
	for i := range constant {
		constant[i] = 42
	}
	res, err = CalculateBollinger(constant, 20, 2)
	require.NoError(t, err)
	assert.InDelta(t, 42.0, res.Upper, 1e-9)
	assert.InDelta(t, 42.0, res.Lower, 1e-9)
	assert.InDelta(t, 0.0, res.Bandwidth, 1e-9)

	_, err = CalculateBollinger(constant[:10], 20, 2)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateATR(t *testing.T) {
	bars := makeBars(20, func(int) float64 { return 100 })
	atr, err := CalculateATR(bars, 14)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, atr, 1e-9, "constant high-low spread of 2")

	flat := flatBars(20, 100)
	atr, err = CalculateATR(flat, 14)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, atr, 1e-9)

	_, err = CalculateATR(bars[:10], 14)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateStochastic(t *testing.T) {
	rising := risingBars(30)
	for i := range rising {
		rising[i].High = rising[i].Close // close at the high
	}
	res, err := CalculateStochastic(rising, 14, 3)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, res.K, 1e-9)
	assert.InDelta(t, 100.0, res.D, 1e-9)

	flat := flatBars(30, 100)
	res, err = CalculateStochastic(flat, 14, 3)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, res.K, 1e-9, "flat range is neutral")

	_, err = CalculateStochastic(rising[:10], 14, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateWilliamsR(t *testing.T) {
	rising := risingBars(20)
	for i := range rising {
		rising[i].High = rising[i].Close
	}
	wr, err := CalculateWilliamsR(rising, 14)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, wr, 1e-9, "close at the period high")

	falling := makeBars(20, func(i int) float64 { return 200 - float64(i) })
	for i := range falling {
		falling[i].Low = falling[i].Close
	}
	wr, err = CalculateWilliamsR(falling, 14)
	require.NoError(t, err)
	assert.InDelta(t, -100.0, wr, 1e-9, "close at the period low")

	flat := flatBars(20, 100)
	wr, err = CalculateWilliamsR(flat, 14)
	require.NoError(t, err)
	assert.InDelta(t, -50.0, wr, 1e-9)
}

func TestCalculateADX(t *testing.T) {
	adx, err := CalculateADX(risingBars(60), 14)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, adx, 1e-6, "one-directional movement maxes out ADX")

	adx, err = CalculateADX(flatBars(60, 100), 14)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, adx, 1e-9, "no directional movement")

	_, err = CalculateADX(risingBars(20), 14)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateOBV(t *testing.T) {
	closes := []float64{10, 11, 10, 10, 12}
	vols := []float64{100, 200, 300, 400, 500}
	bars := makeBars(5, func(i int) float64 { return closes[i] })
	for i := range bars {
		bars[i].Volume = vols[i]
	}
	obv, prev, err := CalculateOBV(bars)
	require.NoError(t, err)
	assert.InDelta(t, 400.0, obv, 1e-9)
	assert.InDelta(t, -100.0, prev, 1e-9)

	_, _, err = CalculateOBV(bars[:1])
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateRelativeVolume(t *testing.T) {
	bars := makeBars(21, func(int) float64 { return 100 })
	bars[20].Volume = 2000
	for i := 0; i < 20; i++ {
		bars[i].Volume = 1000
	}
	rv, err := CalculateRelativeVolume(bars, 20)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, rv, 1e-9)

	_, err = CalculateRelativeVolume(bars[:15], 20)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateMonthlyReturn(t *testing.T) {
	// Short series falls back to the first bar as the base.
	v, err := CalculateMonthlyReturn([]float64{140, 145, 150}, MonthLookback)
	require.NoError(t, err)
	assert.InDelta(t, 7.14, v, 0.01)

	long := make([]float64, 60)
	for i := range long {
		long[i] = 100
	}
	long[len(long)-1-MonthLookback] = 80
	long[len(long)-1] = 100
	v, err = CalculateMonthlyReturn(long, MonthLookback)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, v, 1e-9)

	_, err = CalculateMonthlyReturn([]float64{100}, MonthLookback)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
