package calculator

import "TickerSentry/internal/model"

// CalculateOBV computes on-balance volume, starting from zero at the
// first bar, along with the prior-bar value for slope checks.
func CalculateOBV(bars []model.Bar) (obv, prevOBV float64, err error) {
	if len(bars) < 2 {
		return 0, 0, ErrInsufficientData
	}
	for i := 1; i < len(bars); i++ {
		prevOBV = obv
		switch {
		case bars[i].Close > bars[i-1].Close:
			obv += bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			obv -= bars[i].Volume
		}
	}
	return obv, prevOBV, nil
}

// CalculateRelativeVolume returns the latest bar's volume relative to the
// average of the preceding period bars (excluding the latest). Requires
// period+1 bars; a zero average yields the neutral 1.0.
func CalculateRelativeVolume(bars []model.Bar, period int) (float64, error) {
	if period <= 0 || len(bars) < period+1 {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(bars) - 1 - period; i < len(bars)-1; i++ {
		sum += bars[i].Volume
	}
	avg := sum / float64(period)
	if avg == 0 {
		return 1.0, nil
	}
	return bars[len(bars)-1].Volume / avg, nil
}

// CalculateMonthlyReturn returns the percent change of the latest close
// versus the close monthLookback bars earlier, or versus the first bar
// when the series is shorter than the lookback.
func CalculateMonthlyReturn(closes []float64, monthLookback int) (float64, error) {
	if len(closes) < 2 {
		return 0, ErrInsufficientData
	}
	start := len(closes) - 1 - monthLookback
	if start < 0 {
		start = 0
	}
	base := closes[start]
	if base == 0 {
		return 0, ErrInsufficientData
	}
	return (closes[len(closes)-1] - base) / base * 100, nil
}
