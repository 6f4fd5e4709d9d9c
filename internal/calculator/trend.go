package calculator

import (
	"math"

	"TickerSentry/internal/model"
)

// CalculateADX computes the Wilder average directional index over the
// given period, in [0,100]. Requires 2*period+1 bars. A series with no
// directional movement (flat) yields 0.
func CalculateADX(bars []model.Bar, period int) (float64, error) {
	if period <= 0 || len(bars) < 2*period+1 {
		return 0, ErrInsufficientData
	}

	trs := trueRanges(bars)
	plusDM := make([]float64, len(bars)-1)
	minusDM := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
	}

	// Initial Wilder sums over the first period movements.
	var smTR, smPlus, smMinus float64
	for i := 0; i < period; i++ {
		smTR += trs[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	dxs := make([]float64, 0, len(trs)-period+1)
	dxs = append(dxs, dx(smPlus, smMinus, smTR))

	for i := period; i < len(trs); i++ {
		smTR = smTR - smTR/float64(period) + trs[i]
		smPlus = smPlus - smPlus/float64(period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(period) + minusDM[i]
		dxs = append(dxs, dx(smPlus, smMinus, smTR))
	}

	// ADX: average of the first period DX values, then Wilder smoothing.
	if len(dxs) < period {
		return 0, ErrInsufficientData
	}
	adx := 0.0
	for i := 0; i < period; i++ {
		adx += dxs[i]
	}
	adx /= float64(period)
	for i := period; i < len(dxs); i++ {
		adx = (adx*float64(period-1) + dxs[i]) / float64(period)
	}
	return adx, nil
}

func dx(smPlus, smMinus, smTR float64) float64 {
	if smTR == 0 {
		return 0
	}
	diPlus := 100 * smPlus / smTR
	diMinus := 100 * smMinus / smTR
	sum := diPlus + diMinus
	if sum == 0 {
		return 0
	}
	return 100 * math.Abs(diPlus-diMinus) / sum
}
