package calculator

import "errors"

// CalculateRSI computes the Wilder-smoothed RSI over the given period
// from close prices. Requires at least period+1 values. A zero average
// loss yields 100; a constant series yields the neutral 50.
func CalculateRSI(closes []float64, period int) (float64, error) {
	series, err := rsiSeries(closes, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// rsiSeries returns the RSI series aligned with closes: index i holds the
// RSI ending at closes[i], valid from index period onward. Entries before
// the warmup are the neutral 50 so divergence checks over the aligned
// series stay total.
func rsiSeries(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return nil, ErrInsufficientData
	}

	out := make([]float64, len(closes))
	for i := range out {
		out[i] = 50.0
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgGain == 0 && avgLoss == 0 {
		return 50.0 // constant price
	}
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	if rsi < 0 {
		rsi = 0
	}
	if rsi > 100 {
		rsi = 100
	}
	return rsi
}
