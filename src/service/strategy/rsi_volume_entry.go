package strategy

import (
	"fmt"

	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
)

const (
	rsiVolumeDeltaThreshold   = 10.00
	rsiVolumeOverboughtCeil   = 75.00
	rsiVolumeOversoldFloor    = 25.00
	rsiVolumeBodyRatio        = 3.00
	rsiVolumeShadowBodyRatio  = 0.50
	rsiVolumeDefaultBalance   = 30.00
	rsiVolumeDefaultLeverage  = 10
	rsiVolumeDefaultTimeFrame = 5
)

// RsiVolumeEntry flags strong momentum moves: a sharp RSI swing backed by
// rising volume and a long-bodied candle whose opposite shadow is small.
type RsiVolumeEntry struct {
	Calculator *indicator.Calculator
}

func (r *RsiVolumeEntry) DataWindow(strategy model.Strategy) (int64, int64) {
	return strategy.GetTimeFrameMinutes(rsiVolumeDefaultTimeFrame), 50
}

func (r *RsiVolumeEntry) Evaluate(ctx EntryContext) model.Signal {
	rsi := r.Calculator.Rsi(ctx.KLines, indicator.RsiPeriod)

	lastRsi, lastOk := indicator.Last(rsi)
	prevRsi, prevOk := indicator.Prev(rsi)

	if !lastOk || !prevOk {
		return model.HoldSignal(fmt.Sprintf("[%s] Not enough candles for RSI(%d)", ctx.Symbol, indicator.RsiPeriod))
	}

	lastCandle := ctx.KLines.Last()
	prevCandle := ctx.KLines.Prev()

	rsiDiffUp := lastRsi - prevRsi
	rsiDiffDown := prevRsi - lastRsi

	highVolume := lastCandle.Volume > prevCandle.Volume

	// Shadow checks are written multiplicatively so a doji (zero body)
	// simply fails the condition instead of dividing by zero.
	lastBody := lastCandle.Body()
	longCandle := lastBody > prevCandle.Body()*rsiVolumeBodyRatio

	if rsiDiffUp > rsiVolumeDeltaThreshold &&
		highVolume &&
		longCandle &&
		lastCandle.IsPositive() &&
		lastRsi < rsiVolumeOverboughtCeil &&
		lastCandle.UpperShadow() < lastBody*rsiVolumeShadowBodyRatio {
		return model.Signal{
			Type:           model.SignalOpenLong,
			Symbol:         ctx.Symbol,
			Reason:         fmt.Sprintf("RSI rose %.1f points with rising volume on a long green candle", rsiDiffUp),
			PercentBalance: ctx.Strategy.GetPercentBalance(rsiVolumeDefaultBalance),
			Leverage:       ctx.Strategy.GetLeverage(rsiVolumeDefaultLeverage),
		}
	}

	if rsiDiffDown > rsiVolumeDeltaThreshold &&
		highVolume &&
		longCandle &&
		lastCandle.IsNegative() &&
		lastRsi > rsiVolumeOversoldFloor &&
		lastCandle.LowerShadow() < lastBody*rsiVolumeShadowBodyRatio {
		return model.Signal{
			Type:           model.SignalOpenShort,
			Symbol:         ctx.Symbol,
			Reason:         fmt.Sprintf("RSI fell %.1f points with rising volume on a long red candle", rsiDiffDown),
			PercentBalance: ctx.Strategy.GetPercentBalance(rsiVolumeDefaultBalance),
			Leverage:       ctx.Strategy.GetLeverage(rsiVolumeDefaultLeverage),
		}
	}

	return model.HoldSignal("No entry condition met")
}
