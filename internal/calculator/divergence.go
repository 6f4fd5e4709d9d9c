package calculator

import "TickerSentry/internal/model"

// strongDivergenceDelta is the oscillator-points gap between the two
// extremes above which a divergence is classified as strong. Empirically
// tuned on an RSI-scaled oscillator.
const strongDivergenceDelta = 10.0

// DetectDivergence compares price swing extremes against the same-index
// oscillator values over the trailing lookback window, split into an
// earlier and a recent half:
//
//   - bearish: price makes a higher high while the oscillator makes a
//     lower high;
//   - bullish: price makes a lower low while the oscillator makes a
//     higher low.
//
// Strength is the magnitude of the opposing oscillator move. When both
// patterns appear, the stronger one wins.
func DetectDivergence(prices, osc []float64, lookback int) (model.Divergence, float64) {
	if lookback < 4 || len(prices) < lookback || len(osc) < lookback {
		return model.DivergenceNone, 0
	}

	p := prices[len(prices)-lookback:]
	o := osc[len(osc)-lookback:]
	half := lookback / 2

	ehi := argMax(p[:half])
	rhi := half + argMax(p[half:])
	elo := argMin(p[:half])
	rlo := half + argMin(p[half:])

	var bear, bull float64
	if p[rhi] > p[ehi] && o[rhi] < o[ehi] {
		bear = o[ehi] - o[rhi]
	}
	if p[rlo] < p[elo] && o[rlo] > o[elo] {
		bull = o[rlo] - o[elo]
	}

	switch {
	case bull == 0 && bear == 0:
		return model.DivergenceNone, 0
	case bull >= bear:
		if bull >= strongDivergenceDelta {
			return model.DivergenceStrongBullish, bull
		}
		return model.DivergenceBullish, bull
	default:
		if bear >= strongDivergenceDelta {
			return model.DivergenceStrongBearish, bear
		}
		return model.DivergenceBearish, bear
	}
}

func argMax(vals []float64) int {
	idx := 0
	for i, v := range vals {
		if v > vals[idx] {
			idx = i
		}
	}
	return idx
}

func argMin(vals []float64) int {
	idx := 0
	for i, v := range vals {
		if v < vals[idx] {
			idx = i
		}
	}
	return idx
}
