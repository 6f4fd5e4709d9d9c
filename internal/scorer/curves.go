package scorer

import "TickerSentry/internal/model"

// neutralMid is the score assigned when an indicator is unavailable, so
// missing data never drags a composite toward either extreme.
const neutralMid = 5.0

// componentFunc maps one indicator from a snapshot to a bounded score.
// Every curve is total: defined for unavailable inputs, in which case it
// returns the neutral midpoint.
type componentFunc func(snap *model.IndicatorSnapshot) (raw, score float64)

var components = map[string]componentFunc{
	"rsi":             scoreRSIUpside,
	"rsi_down":        scoreRSIDownside,
	"macd":            scoreMACDUpside,
	"macd_down":       scoreMACDDownside,
	"ma_trend":        scoreMATrend,
	"stochastic":      scoreStochasticUpside,
	"stochastic_down": scoreStochasticDownside,
	"williams_r":      scoreWilliamsR,
	"bollinger":       scoreBollingerUpside,
	"bollinger_down":  scoreBollingerDownside,
	"divergence":      scoreDivergenceUpside,
	"divergence_down": scoreDivergenceDownside,
	"volume":          scoreVolume,
}

// scoreRSIUpside favors oversold readings for upside entries. Deep
// oversold scores the maximum; overbought is moderately discounted
// rather than floored, to avoid trigger flapping at the boundary.
func scoreRSIUpside(snap *model.IndicatorSnapshot) (float64, float64) {
	if !snap.RSI14.Valid {
		return 0, neutralMid
	}
	rsi := snap.RSI14.Val
	switch {
	case rsi <= 30:
		return rsi, 10
	case rsi <= 50:
		return rsi, 6
	case rsi <= 70:
		return rsi, 10
	case rsi <= 80:
		return rsi, 7
	default:
		return rsi, 4
	}
}

func scoreRSIDownside(snap *model.IndicatorSnapshot) (float64, float64) {
	if !snap.RSI14.Valid {
		return 0, neutralMid
	}
	rsi := snap.RSI14.Val
	switch {
	case rsi >= 70:
		return rsi, 10
	case rsi >= 50:
		return rsi, 6
	case rsi >= 30:
		return rsi, 10
	case rsi >= 20:
		return rsi, 7
	default:
		return rsi, 4
	}
}

func scoreMACDUpside(snap *model.IndicatorSnapshot) (float64, float64) {
	if !snap.MACDHist.Valid || !snap.PrevMACDHist.Valid {
		return 0, neutralMid
	}
	hist, prev := snap.MACDHist.Val, snap.PrevMACDHist.Val
	switch {
	case hist > 0 && hist > prev:
		return hist, 10
	case hist > 0:
		return hist, 8
	case hist > prev:
		return hist, 6
	default:
		return hist, 2
	}
}

func scoreMACDDownside(snap *model.IndicatorSnapshot) (float64, float64) {
	if !snap.MACDHist.Valid || !snap.PrevMACDHist.Valid {
		return 0, neutralMid
	}
	hist, prev := snap.MACDHist.Val, snap.PrevMACDHist.Val
	switch {
	case hist < 0 && hist < prev:
		return hist, 10
	case hist < 0:
		return hist, 8
	case hist < prev:
		return hist, 6
	default:
		return hist, 2
	}
}

// scoreMATrend is directional in [1,10]: full alignment above both moving
// averages scores the maximum, full alignment below scores the floor.
func scoreMATrend(snap *model.IndicatorSnapshot) (float64, float64) {
	if !snap.SMA50.Valid || !snap.SMA200.Valid {
		return 0, 5.5
	}
	dev := 0.0
	if snap.SMA200.Val != 0 {
		dev = (snap.Price - snap.SMA200.Val) / snap.SMA200.Val * 100
	}
	switch {
	case snap.Price > snap.SMA50.Val && snap.SMA50.Val > snap.SMA200.Val:
		return dev, 10
	case snap.Price > snap.SMA200.Val:
		return dev, 7
	case snap.Price > snap.SMA50.Val:
		return dev, 4
	default:
		return dev, 1
	}
}

func scoreStochasticUpside(snap *model.IndicatorSnapshot) (float64, float64) {
	if !snap.StochK.Valid {
		return 0, neutralMid
	}
	k := snap.StochK.Val
	switch {
	case k <= 20:
		return k, 10
	case k <= 40:
		return k, 7
	case k <= 60:
		return k, 5
	case k <= 80:
		return k, 4
	default:
		return k, 2
	}
}

func scoreStochasticDownside(snap *model.IndicatorSnapshot) (float64, float64) {
	if !snap.StochK.Valid {
		return 0, neutralMid
	}
	k := snap.StochK.Val
	switch {
	case k >= 80:
		return k, 10
	case k >= 60:
		return k, 7
	case k >= 40:
		return k, 5
	case k >= 20:
		return k, 4
	default:
		return k, 2
	}
}

func scoreWilliamsR(snap *model.IndicatorSnapshot) (float64, float64) {
	if !snap.WilliamsR.Valid {
		return 0, neutralMid
	}
	wr := snap.WilliamsR.Val
	switch {
	case wr <= -80:
		return wr, 10
	case wr <= -60:
		return wr, 7
	case wr <= -40:
		return wr, 5
	case wr <= -20:
		return wr, 3
	default:
		return wr, 1
	}
}

// percentB returns the price position within the bands, 0.5 when the
// bands are flat.
func percentB(snap *model.IndicatorSnapshot) (float64, bool) {
	if !snap.BollUpper.Valid || !snap.BollLower.Valid {
		return 0, false
	}
	width := snap.BollUpper.Val - snap.BollLower.Val
	if width == 0 {
		return 0.5, true
	}
	return (snap.Price - snap.BollLower.Val) / width, true
}

func scoreBollingerUpside(snap *model.IndicatorSnapshot) (float64, float64) {
	pb, ok := percentB(snap)
	if !ok {
		return 0, neutralMid
	}
	switch {
	case pb <= 0:
		return pb, 10
	case pb <= 0.25:
		return pb, 8
	case pb <= 0.5:
		return pb, 6
	case pb <= 0.75:
		return pb, 4
	case pb <= 1:
		return pb, 3
	default:
		return pb, 2
	}
}

func scoreBollingerDownside(snap *model.IndicatorSnapshot) (float64, float64) {
	pb, ok := percentB(snap)
	if !ok {
		return 0, neutralMid
	}
	switch {
	case pb >= 1:
		return pb, 10
	case pb >= 0.75:
		return pb, 8
	case pb >= 0.5:
		return pb, 6
	case pb >= 0.25:
		return pb, 4
	case pb >= 0:
		return pb, 3
	default:
		return pb, 2
	}
}

func scoreDivergenceUpside(snap *model.IndicatorSnapshot) (float64, float64) {
	switch snap.Divergence {
	case model.DivergenceStrongBullish:
		return snap.DivergenceStrength, 10
	case model.DivergenceBullish:
		return snap.DivergenceStrength, 8
	case model.DivergenceBearish:
		return snap.DivergenceStrength, 2
	case model.DivergenceStrongBearish:
		return snap.DivergenceStrength, 0
	default:
		return 0, neutralMid
	}
}

func scoreDivergenceDownside(snap *model.IndicatorSnapshot) (float64, float64) {
	switch snap.Divergence {
	case model.DivergenceStrongBearish:
		return snap.DivergenceStrength, 10
	case model.DivergenceBearish:
		return snap.DivergenceStrength, 8
	case model.DivergenceBullish:
		return snap.DivergenceStrength, 2
	case model.DivergenceStrongBullish:
		return snap.DivergenceStrength, 0
	default:
		return 0, neutralMid
	}
}

func scoreVolume(snap *model.IndicatorSnapshot) (float64, float64) {
	if !snap.RelativeVolume.Valid {
		return 0, neutralMid
	}
	rv := snap.RelativeVolume.Val
	switch {
	case rv >= 2:
		return rv, 10
	case rv >= 1.5:
		return rv, 8
	case rv >= 1:
		return rv, 6
	case rv >= 0.5:
		return rv, 4
	default:
		return rv, 2
	}
}
