package calculator

// MACDResult holds the current MACD values plus the previous histogram
// needed for crossover checks.
type MACDResult struct {
	Line     float64
	Signal   float64
	Hist     float64
	PrevHist float64
}

// CalculateMACD computes MACD(fast, slow, signal) from close prices:
// line = fast EMA - slow EMA, signal = EMA(signal) of the line,
// histogram = line - signal. Requires slow+signal values.
func CalculateMACD(closes []float64, fast, slow, signal int) (MACDResult, error) {
	if len(closes) < slow+signal {
		return MACDResult{}, ErrInsufficientData
	}

	fastEMA, err := emaSeries(closes, fast)
	if err != nil {
		return MACDResult{}, err
	}
	slowEMA, err := emaSeries(closes, slow)
	if err != nil {
		return MACDResult{}, err
	}

	// MACD line is defined from index slow-1 onward.
	line := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		line = append(line, fastEMA[i]-slowEMA[i])
	}

	sigSeries, err := emaSeries(line, signal)
	if err != nil {
		return MACDResult{}, err
	}

	n := len(line) - 1
	res := MACDResult{
		Line:   line[n],
		Signal: sigSeries[n],
		Hist:   line[n] - sigSeries[n],
	}
	if n-1 >= signal-1 {
		res.PrevHist = line[n-1] - sigSeries[n-1]
	}
	return res, nil
}
