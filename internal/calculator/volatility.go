package calculator

import (
	"math"

	"TickerSentry/internal/model"
)

// CalculateATR computes the Wilder-smoothed average true range over the
// given period. Requires period+1 bars.
func CalculateATR(bars []model.Bar, period int) (float64, error) {
	if period <= 0 || len(bars) < period+1 {
		return 0, ErrInsufficientData
	}

	trs := trueRanges(bars)

	atr := 0.0
	for i := 0; i < period; i++ {
		atr += trs[i]
	}
	atr /= float64(period)

	for i := period; i < len(trs); i++ {
		atr = (atr*float64(period-1) + trs[i]) / float64(period)
	}
	return atr, nil
}

// trueRanges returns the true range per bar starting at bars[1].
func trueRanges(bars []model.Bar) []float64 {
	trs := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		trs[i-1] = math.Max(hl, math.Max(hc, lc))
	}
	return trs
}
