package calculator

import "TickerSentry/internal/model"

// StochasticResult holds %K and %D for the latest bar.
type StochasticResult struct {
	K float64
	D float64
}

// CalculateStochastic computes the stochastic oscillator: %K over
// kPeriod, %D as the SMA(dPeriod) of %K. A flat high/low range yields
// the neutral 50. When there is not enough history for a full %D window,
// %D falls back to the available %K values.
func CalculateStochastic(bars []model.Bar, kPeriod, dPeriod int) (StochasticResult, error) {
	if kPeriod <= 0 || dPeriod <= 0 || len(bars) < kPeriod {
		return StochasticResult{}, ErrInsufficientData
	}

	// %K for the last dPeriod bars (fewer when history is short).
	ks := make([]float64, 0, dPeriod)
	for offset := dPeriod - 1; offset >= 0; offset-- {
		end := len(bars) - offset
		if end < kPeriod {
			continue
		}
		ks = append(ks, stochK(bars[:end], kPeriod))
	}

	res := StochasticResult{K: ks[len(ks)-1]}
	sum := 0.0
	for _, k := range ks {
		sum += k
	}
	res.D = sum / float64(len(ks))
	return res, nil
}

func stochK(bars []model.Bar, period int) float64 {
	hh, ll := highLow(bars, period)
	last := bars[len(bars)-1].Close
	if hh == ll {
		return 50.0
	}
	k := (last - ll) / (hh - ll) * 100
	if k < 0 {
		k = 0
	}
	if k > 100 {
		k = 100
	}
	return k
}

// CalculateWilliamsR computes Williams %R over the given period, in
// [-100, 0]. A flat range yields the neutral -50.
func CalculateWilliamsR(bars []model.Bar, period int) (float64, error) {
	if period <= 0 || len(bars) < period {
		return 0, ErrInsufficientData
	}
	hh, ll := highLow(bars, period)
	last := bars[len(bars)-1].Close
	if hh == ll {
		return -50.0, nil
	}
	wr := (hh - last) / (hh - ll) * -100
	if wr < -100 {
		wr = -100
	}
	if wr > 0 {
		wr = 0
	}
	return wr, nil
}

// highLow returns the highest high and lowest low over the trailing period.
func highLow(bars []model.Bar, period int) (hh, ll float64) {
	start := len(bars) - period
	hh = bars[start].High
	ll = bars[start].Low
	for i := start + 1; i < len(bars); i++ {
		if bars[i].High > hh {
			hh = bars[i].High
		}
		if bars[i].Low < ll {
			ll = bars[i].Low
		}
	}
	return hh, ll
}
