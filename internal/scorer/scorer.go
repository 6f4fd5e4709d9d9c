package scorer

import (
	"sort"
	"strings"

	"TickerSentry/internal/model"
)

// minBarsForOpinion is the history floor below which a composite score is
// the "no opinion" sentinel: exactly 0.0 with an empty breakdown.
const minBarsForOpinion = 50

// ADX-regime multiplier breakpoints. Reversals are more credible when the
// prior trend is not overpowering, so ranging regimes get a boost and
// very strong trends a penalty.
// TODO: calibrate these breakpoints and the volume discounts against
// recorded scan history once the SQLite recorder has accumulated data.
const (
	adxWeakTrend   = 20.0
	adxStrongTrend = 40.0
	adxWeakBoost   = 1.10
	adxStrongPen   = 0.85
)

// Score computes the composite score for a snapshot using the named
// weight table. Fewer than minBarsForOpinion bars of history yields the
// 0.0 sentinel, which callers must treat as "no opinion". Reversal
// tables apply the volume and ADX-regime multipliers before output.
func Score(snap *model.IndicatorSnapshot, tableName string) (model.CompositeScore, error) {
	weights, err := Weights(tableName)
	if err != nil {
		return model.CompositeScore{}, err
	}

	comp := model.CompositeScore{Table: tableName, VolumeMult: 1, ADXMult: 1}
	if snap.BarCount < minBarsForOpinion {
		return comp, nil
	}

	names := make([]string, 0, len(weights))
	for n := range weights {
		names = append(names, n)
	}
	sort.Strings(names)

	total := 0.0
	for _, name := range names {
		raw, score := components[name](snap)
		weighted := score * weights[name]
		total += weighted
		comp.Components = append(comp.Components, model.ComponentScore{
			Name:     name,
			Raw:      raw,
			Score:    score,
			Weight:   weights[name],
			Weighted: weighted,
		})
	}

	if strings.HasPrefix(tableName, "reversal") {
		comp.VolumeMult = volumeMultiplier(snap.RelativeVolume)
		comp.ADXMult = adxRegimeMultiplier(snap.ADX14)
		total *= comp.VolumeMult * comp.ADXMult
	}

	comp.Total = clamp(total, 0, 10)
	return comp, nil
}

// volumeMultiplier softly discounts reversal scores on low relative
// volume instead of zeroing them; confirmation volume earns a small boost.
func volumeMultiplier(rv model.Value) float64 {
	if !rv.Valid {
		return 1.0
	}
	switch {
	case rv.Val >= 1.5:
		return 1.10
	case rv.Val >= 1.0:
		return 1.00
	case rv.Val >= 0.5:
		return 0.90
	default:
		return 0.80
	}
}

func adxRegimeMultiplier(adx model.Value) float64 {
	if !adx.Valid {
		return 1.0
	}
	switch {
	case adx.Val < adxWeakTrend:
		return adxWeakBoost
	case adx.Val <= adxStrongTrend:
		return 1.00
	default:
		return adxStrongPen
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
