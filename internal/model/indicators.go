package model

// Value is a computed indicator value that may be unavailable when the
// series is shorter than the indicator's lookback. Callers must check
// Valid before using Val; scoring treats invalid values as neutral.
type Value struct {
	Val   float64
	Valid bool
}

// Some wraps a computed value.
func Some(v float64) Value { return Value{Val: v, Valid: true} }

// None is the unavailable sentinel.
func None() Value { return Value{} }

// Or returns the value, or def when unavailable.
func (v Value) Or(def float64) float64 {
	if v.Valid {
		return v.Val
	}
	return def
}

// Divergence classifies a price/oscillator divergence.
type Divergence string

const (
	DivergenceNone          Divergence = "NONE"
	DivergenceBullish       Divergence = "BULLISH"
	DivergenceBearish       Divergence = "BEARISH"
	DivergenceStrongBullish Divergence = "STRONG_BULLISH"
	DivergenceStrongBearish Divergence = "STRONG_BEARISH"
)

// Bullish reports whether the divergence is bullish (regular or strong).
func (d Divergence) Bullish() bool {
	return d == DivergenceBullish || d == DivergenceStrongBullish
}

// Bearish reports whether the divergence is bearish (regular or strong).
func (d Divergence) Bearish() bool {
	return d == DivergenceBearish || d == DivergenceStrongBearish
}

// IndicatorSnapshot holds the most recent value of every indicator for a
// series, plus the prior-bar values needed for crossover and divergence
// checks. It is derived fresh on every run and never persisted.
type IndicatorSnapshot struct {
	Symbol   string
	BarCount int

	Price     float64
	PrevClose Value

	SMA20      Value
	SMA50      Value
	SMA200     Value
	PrevSMA50  Value
	PrevSMA200 Value

	RSI14     Value
	PrevRSI14 Value

	MACDLine     Value
	MACDSignal   Value
	MACDHist     Value
	PrevMACDHist Value

	BollUpper     Value
	BollMiddle    Value
	BollLower     Value
	BollBandwidth Value

	ATR14     Value
	StochK    Value
	StochD    Value
	WilliamsR Value
	ADX14     Value

	OBV            Value
	PrevOBV        Value
	RelativeVolume Value

	MonthlyReturn Value

	Divergence         Divergence
	DivergenceStrength float64
}
