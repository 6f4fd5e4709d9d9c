package calculator

import "math"

// BollingerResult holds the Bollinger band values for the latest bar.
type BollingerResult struct {
	Upper     float64
	Middle    float64
	Lower     float64
	Bandwidth float64 // (upper-lower)/middle*100, 0 when middle is 0
}

// CalculateBollinger computes Bollinger bands over the given period with
// k standard deviations: middle = SMA(period), bands = middle ± k·stdev.
func CalculateBollinger(closes []float64, period int, k float64) (BollingerResult, error) {
	if len(closes) < period {
		return BollingerResult{}, ErrInsufficientData
	}

	window := closes[len(closes)-period:]
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(period)

	variance := 0.0
	for _, v := range window {
		d := v - mean
		variance += d * d
	}
	stdev := math.Sqrt(variance / float64(period))

	res := BollingerResult{
		Upper:  mean + k*stdev,
		Middle: mean,
		Lower:  mean - k*stdev,
	}
	if mean != 0 {
		res.Bandwidth = (res.Upper - res.Lower) / mean * 100
	}
	return res, nil
}
