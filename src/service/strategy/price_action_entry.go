package strategy

import (
	"fmt"

	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
)

const (
	priceActionOversold         = 30.00
	priceActionOverbought       = 70.00
	priceActionZoneLookback     = 20
	priceActionZonePercent      = 0.50
	priceActionDefaultBalance   = 5.00
	priceActionDefaultStopLoss  = 5.00
	priceActionDefaultTakeProf  = 5.00
	priceActionDefaultLeverage  = 5
	priceActionDefaultTimeFrame = 15
)

// PriceActionEntry buys oversold dips into a support zone and shorts
// overbought pushes into a resistance zone. A zone is the extreme low/high of
// the lookback window widened by a small tolerance.
type PriceActionEntry struct {
	Calculator *indicator.Calculator
}

func (p *PriceActionEntry) DataWindow(strategy model.Strategy) (int64, int64) {
	return strategy.GetTimeFrameMinutes(priceActionDefaultTimeFrame), 300
}

func (p *PriceActionEntry) Evaluate(ctx EntryContext) model.Signal {
	lastRsi, rsiOk := indicator.Last(p.Calculator.Rsi(ctx.KLines, indicator.RsiPeriod))

	if !rsiOk || len(ctx.KLines) < priceActionZoneLookback {
		return model.HoldSignal(fmt.Sprintf("[%s] Not enough candles for support/resistance lookback", ctx.Symbol))
	}

	lastCandle := ctx.KLines.Last()

	if lastRsi < priceActionOversold {
		lowestLow := ctx.KLines.LowestLow(priceActionZoneLookback)
		supportCeiling := lowestLow * (1.00 + priceActionZonePercent/100.00)

		if lastCandle.Low <= supportCeiling {
			return model.Signal{
				Type:              model.SignalOpenLong,
				Symbol:            ctx.Symbol,
				Reason:            fmt.Sprintf("RSI %.1f oversold at support zone (low %.6f, zone ceiling %.6f)", lastRsi, lastCandle.Low, supportCeiling),
				PercentBalance:    ctx.Strategy.GetPercentBalance(priceActionDefaultBalance),
				StopLossPercent:   ctx.Strategy.GetStopLossPercent(priceActionDefaultStopLoss),
				TakeProfitPercent: ctx.Strategy.GetTakeProfitPercent(priceActionDefaultTakeProf),
				Leverage:          ctx.Strategy.GetLeverage(priceActionDefaultLeverage),
			}
		}
	}

	if lastRsi > priceActionOverbought {
		highestHigh := ctx.KLines.HighestHigh(priceActionZoneLookback)
		resistanceFloor := highestHigh * (1.00 - priceActionZonePercent/100.00)

		if lastCandle.High >= resistanceFloor {
			return model.Signal{
				Type:              model.SignalOpenShort,
				Symbol:            ctx.Symbol,
				Reason:            fmt.Sprintf("RSI %.1f overbought at resistance zone (high %.6f, zone floor %.6f)", lastRsi, lastCandle.High, resistanceFloor),
				PercentBalance:    ctx.Strategy.GetPercentBalance(priceActionDefaultBalance),
				StopLossPercent:   ctx.Strategy.GetStopLossPercent(priceActionDefaultStopLoss),
				TakeProfitPercent: ctx.Strategy.GetTakeProfitPercent(priceActionDefaultTakeProf),
				Leverage:          ctx.Strategy.GetLeverage(priceActionDefaultLeverage),
			}
		}
	}

	return model.HoldSignal("No support/resistance setup")
}
