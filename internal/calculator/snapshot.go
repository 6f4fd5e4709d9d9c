package calculator

import "TickerSentry/internal/model"

// Default indicator parameters.
const (
	RSIPeriod        = 14
	MACDFast         = 12
	MACDSlow         = 26
	MACDSignal       = 9
	BollingerPeriod  = 20
	BollingerStdDevs = 2.0
	ATRPeriod        = 14
	StochKPeriod     = 14
	StochDPeriod     = 3
	WilliamsPeriod   = 14
	ADXPeriod        = 14
	VolumePeriod     = 20
	DivergenceWindow = 14
	MonthLookback    = 22 // trading days
)

// Compute derives an IndicatorSnapshot from a series. It never fails:
// indicators whose lookback exceeds the available history resolve to the
// unavailable sentinel, and an empty series yields an all-unavailable
// snapshot.
func Compute(series *model.Series) *model.IndicatorSnapshot {
	snap := &model.IndicatorSnapshot{
		Symbol:     series.Symbol,
		BarCount:   series.Len(),
		Divergence: model.DivergenceNone,
	}
	if series.Len() == 0 {
		return snap
	}

	bars := series.Bars
	closes := extractCloses(bars)
	snap.Price = closes[len(closes)-1]
	if len(closes) >= 2 {
		snap.PrevClose = model.Some(closes[len(closes)-2])
	}

	snap.SMA20 = valueOf(CalculateSMA(closes, 20))
	snap.SMA50 = valueOf(CalculateSMA(closes, 50))
	snap.SMA200 = valueOf(CalculateSMA(closes, 200))
	if len(closes) >= 2 {
		prev := closes[:len(closes)-1]
		snap.PrevSMA50 = valueOf(CalculateSMA(prev, 50))
		snap.PrevSMA200 = valueOf(CalculateSMA(prev, 200))
	}

	if rsis, err := rsiSeries(closes, RSIPeriod); err == nil {
		snap.RSI14 = model.Some(rsis[len(rsis)-1])
		snap.PrevRSI14 = model.Some(rsis[len(rsis)-2])

		div, strength := DetectDivergence(closes, rsis, DivergenceWindow)
		snap.Divergence = div
		snap.DivergenceStrength = strength
	}

	if macd, err := CalculateMACD(closes, MACDFast, MACDSlow, MACDSignal); err == nil {
		snap.MACDLine = model.Some(macd.Line)
		snap.MACDSignal = model.Some(macd.Signal)
		snap.MACDHist = model.Some(macd.Hist)
		snap.PrevMACDHist = model.Some(macd.PrevHist)
	}

	if boll, err := CalculateBollinger(closes, BollingerPeriod, BollingerStdDevs); err == nil {
		snap.BollUpper = model.Some(boll.Upper)
		snap.BollMiddle = model.Some(boll.Middle)
		snap.BollLower = model.Some(boll.Lower)
		snap.BollBandwidth = model.Some(boll.Bandwidth)
	}

	snap.ATR14 = valueOf(CalculateATR(bars, ATRPeriod))

	if st, err := CalculateStochastic(bars, StochKPeriod, StochDPeriod); err == nil {
		snap.StochK = model.Some(st.K)
		snap.StochD = model.Some(st.D)
	}

	snap.WilliamsR = valueOf(CalculateWilliamsR(bars, WilliamsPeriod))
	snap.ADX14 = valueOf(CalculateADX(bars, ADXPeriod))

	if obv, prev, err := CalculateOBV(bars); err == nil {
		snap.OBV = model.Some(obv)
		snap.PrevOBV = model.Some(prev)
	}

	snap.RelativeVolume = valueOf(CalculateRelativeVolume(bars, VolumePeriod))
	snap.MonthlyReturn = valueOf(CalculateMonthlyReturn(closes, MonthLookback))

	return snap
}

func valueOf(v float64, err error) model.Value {
	if err != nil {
		return model.None()
	}
	return model.Some(v)
}
