package strategy

import (
	"fmt"

	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
)

const (
	trendFastEmaPeriod     = 20
	trendSlowEmaPeriod     = 50
	trendLongRsiFloor      = 40.00
	trendShortRsiCeil      = 60.00
	trendAtrStopMultiplier = 2.00
	trendDefaultBalance    = 20.00
	trendDefaultLeverage   = 5
	trendDefaultTimeFrame  = 60
)

// TrendEntry follows the prevailing trend: a fast/slow EMA alignment with an
// RSI confirmation. The stop distance is derived from ATR so it scales with
// the symbol's volatility instead of a flat percentage.
type TrendEntry struct {
	Calculator *indicator.Calculator
}

func (t *TrendEntry) DataWindow(strategy model.Strategy) (int64, int64) {
	return strategy.GetTimeFrameMinutes(trendDefaultTimeFrame), 120
}

func (t *TrendEntry) Evaluate(ctx EntryContext) model.Signal {
	fastEma, fastOk := indicator.Last(t.Calculator.Ema(ctx.KLines, trendFastEmaPeriod))
	slowEma, slowOk := indicator.Last(t.Calculator.Ema(ctx.KLines, trendSlowEmaPeriod))
	lastRsi, rsiOk := indicator.Last(t.Calculator.Rsi(ctx.KLines, indicator.RsiPeriod))
	lastAtr, atrOk := indicator.Last(t.Calculator.Atr(ctx.KLines, indicator.AtrPeriod))

	if !fastOk || !slowOk || !rsiOk || !atrOk {
		return model.HoldSignal(fmt.Sprintf("[%s] Not enough candles for EMA(%d)", ctx.Symbol, trendSlowEmaPeriod))
	}

	lastCandle := ctx.KLines.Last()

	if lastCandle.Close <= 0.00 {
		return model.HoldSignal(fmt.Sprintf("[%s] Invalid close price", ctx.Symbol))
	}

	stopLossPercent := lastAtr * trendAtrStopMultiplier * 100.00 / lastCandle.Close

	if fastEma > slowEma && lastRsi > trendLongRsiFloor {
		return model.Signal{
			Type:            model.SignalOpenLong,
			Symbol:          ctx.Symbol,
			Reason:          fmt.Sprintf("Uptrend: EMA%d %.6f above EMA%d %.6f, RSI %.1f", trendFastEmaPeriod, fastEma, trendSlowEmaPeriod, slowEma, lastRsi),
			PercentBalance:  ctx.Strategy.GetPercentBalance(trendDefaultBalance),
			Leverage:        ctx.Strategy.GetLeverage(trendDefaultLeverage),
			StopLossPercent: ctx.Strategy.GetStopLossPercent(stopLossPercent),
		}
	}

	if fastEma < slowEma && lastRsi < trendShortRsiCeil {
		return model.Signal{
			Type:            model.SignalOpenShort,
			Symbol:          ctx.Symbol,
			Reason:          fmt.Sprintf("Downtrend: EMA%d %.6f below EMA%d %.6f, RSI %.1f", trendFastEmaPeriod, fastEma, trendSlowEmaPeriod, slowEma, lastRsi),
			PercentBalance:  ctx.Strategy.GetPercentBalance(trendDefaultBalance),
			Leverage:        ctx.Strategy.GetLeverage(trendDefaultLeverage),
			StopLossPercent: ctx.Strategy.GetStopLossPercent(stopLossPercent),
		}
	}

	return model.HoldSignal("No trend alignment")
}
