package trigger

import (
	"TickerSentry/internal/model"
)

// BuildFlagMatrix converts an indicator snapshot and composite scores
// into the flag matrix consumed by trigger conditions. Boolean flags are
// only set when the indicators behind them are available, so a condition
// on a flag derived from missing data fails closed. Mutually exclusive
// pairs (above_sma200/below_sma200) are set from a single comparison and
// can never both be true.
func BuildFlagMatrix(snap *model.IndicatorSnapshot, scores ...model.CompositeScore) *model.FlagMatrix {
	m := model.NewFlagMatrix(snap.Symbol)

	m.SetValue("_price", snap.Price)

	if snap.SMA200.Valid {
		above := snap.Price > snap.SMA200.Val
		m.SetBool("above_sma200", above)
		m.SetBool("below_sma200", !above)
		m.SetValue("_sma200", snap.SMA200.Val)
	}
	if snap.SMA50.Valid {
		above := snap.Price > snap.SMA50.Val
		m.SetBool("above_sma50", above)
		m.SetBool("below_sma50", !above)
		m.SetValue("_sma50", snap.SMA50.Val)
	}
	if snap.SMA50.Valid && snap.SMA200.Valid && snap.PrevSMA50.Valid && snap.PrevSMA200.Valid {
		m.SetBool("golden_cross",
			snap.SMA50.Val > snap.SMA200.Val && snap.PrevSMA50.Val <= snap.PrevSMA200.Val)
		m.SetBool("death_cross",
			snap.SMA50.Val < snap.SMA200.Val && snap.PrevSMA50.Val >= snap.PrevSMA200.Val)
	}

	if snap.RSI14.Valid {
		m.SetValue("_rsi", snap.RSI14.Val)
		m.SetBool("rsi_oversold", snap.RSI14.Val < 30)
		m.SetBool("rsi_overbought", snap.RSI14.Val > 70)
	}

	if snap.MACDHist.Valid && snap.PrevMACDHist.Valid {
		m.SetValue("_macd_hist", snap.MACDHist.Val)
		m.SetBool("macd_bullish_cross", snap.MACDHist.Val > 0 && snap.PrevMACDHist.Val <= 0)
		m.SetBool("macd_bearish_cross", snap.MACDHist.Val < 0 && snap.PrevMACDHist.Val >= 0)
	}

	if snap.BollUpper.Valid && snap.BollLower.Valid {
		m.SetBool("bollinger_breakout_upper", snap.Price > snap.BollUpper.Val)
		m.SetBool("bollinger_breakout_lower", snap.Price < snap.BollLower.Val)
	}
	if snap.BollBandwidth.Valid {
		m.SetValue("_boll_bandwidth", snap.BollBandwidth.Val)
	}

	if snap.StochK.Valid {
		m.SetValue("_stoch_k", snap.StochK.Val)
		m.SetBool("stoch_oversold", snap.StochK.Val < 20)
		m.SetBool("stoch_overbought", snap.StochK.Val > 80)
	}
	if snap.WilliamsR.Valid {
		m.SetValue("_williams_r", snap.WilliamsR.Val)
	}
	if snap.ADX14.Valid {
		m.SetValue("_adx", snap.ADX14.Val)
		m.SetBool("strong_trend", snap.ADX14.Val > 25)
	}
	if snap.ATR14.Valid {
		m.SetValue("_atr", snap.ATR14.Val)
	}
	if snap.RelativeVolume.Valid {
		m.SetValue("_relative_volume", snap.RelativeVolume.Val)
		m.SetBool("volume_surge", snap.RelativeVolume.Val >= 2)
	}
	if snap.MonthlyReturn.Valid {
		m.SetValue("_monthly_return", snap.MonthlyReturn.Val)
	}
	if snap.OBV.Valid && snap.PrevOBV.Valid {
		m.SetBool("obv_rising", snap.OBV.Val > snap.PrevOBV.Val)
	}

	m.SetBool("divergence_bullish", snap.Divergence.Bullish())
	m.SetBool("divergence_bearish", snap.Divergence.Bearish())

	for _, sc := range scores {
		switch sc.Table {
		case "reversal_up":
			m.SetValue("_reversal_up_score", sc.Total)
		case "reversal_down":
			m.SetValue("_reversal_down_score", sc.Total)
		default:
			// The profile's own table publishes the plain score flag.
			m.SetValue("score", sc.Total)
		}
	}

	return m
}
