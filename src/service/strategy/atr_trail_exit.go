package strategy

import (
	"fmt"

	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
)

const (
	MarkerAtrPartialOne = "atr-partial-1"
	MarkerAtrPartialTwo = "atr-partial-2"
	MarkerAtrTrail      = "atr-trail"
)

const (
	atrStopMultiplier      = 1.50
	atrTargetMultiplier    = 3.00
	atrPartialOneDistance  = 1.50
	atrPartialTwoDistance  = 2.00
	atrPartialPercent      = 25.00
	atrTrailDistance       = 2.00
	atrFastEmaPeriod       = 20
	atrSlowEmaPeriod       = 50
	atrTrailDefaultTimeFrm = 15
)

// AtrTrailExit manages a position with volatility-scaled levels: a hard stop
// and target from entry-time ATR, two staged partial closes as the move
// extends, a trailing stop raise, and a full close on an EMA trend reversal.
type AtrTrailExit struct {
	Calculator *indicator.Calculator
}

func (a *AtrTrailExit) DataWindow(strategy model.Strategy) (int64, int64) {
	return strategy.GetTimeFrameMinutes(atrTrailDefaultTimeFrm), 64
}

func (a *AtrTrailExit) Evaluate(ctx ExitContext) model.Signal {
	if ctx.CurrentPrice <= 0.00 {
		return model.HoldSignal(fmt.Sprintf("[%s] Last price is not available", ctx.Position.Symbol))
	}

	lastAtr, atrOk := indicator.Last(a.Calculator.Atr(ctx.KLines, indicator.AtrPeriod))

	if !atrOk || lastAtr <= 0.00 {
		return model.HoldSignal(fmt.Sprintf("[%s] Not enough candles for ATR(%d)", ctx.Position.Symbol, indicator.AtrPeriod))
	}

	entry := ctx.Position.EntryPrice
	favorableMove := a.favorableMove(ctx.Position, ctx.CurrentPrice)

	if favorableMove >= lastAtr*atrTargetMultiplier {
		return model.Signal{
			Type:   model.SignalCloseByTakeProfit,
			Symbol: ctx.Position.Symbol,
			Reason: fmt.Sprintf("Price moved %.6f, %.1fx ATR target reached", favorableMove, atrTargetMultiplier),
		}
	}

	if favorableMove <= -lastAtr*atrStopMultiplier {
		return model.Signal{
			Type:   model.SignalCloseByStopLoss,
			Symbol: ctx.Position.Symbol,
			Reason: fmt.Sprintf("Price moved %.6f against the position, %.1fx ATR stop hit", -favorableMove, atrStopMultiplier),
		}
	}

	if signal := a.trendReversal(ctx); !signal.IsHold() {
		return signal
	}

	if favorableMove >= lastAtr*atrPartialOneDistance && !ctx.History.HasMarker(MarkerAtrPartialOne) {
		return model.Signal{
			Type:            model.SignalPartialClose,
			Symbol:          ctx.Position.Symbol,
			Marker:          MarkerAtrPartialOne,
			PercentPosition: atrPartialPercent,
			Reason:          fmt.Sprintf("First partial at %.1fx ATR profit", atrPartialOneDistance),
		}
	}

	if favorableMove >= lastAtr*atrPartialTwoDistance && !ctx.History.HasMarker(MarkerAtrPartialTwo) {
		return model.Signal{
			Type:            model.SignalPartialClose,
			Symbol:          ctx.Position.Symbol,
			Marker:          MarkerAtrPartialTwo,
			PercentPosition: atrPartialPercent,
			Reason:          fmt.Sprintf("Second partial at %.1fx ATR profit", atrPartialTwoDistance),
		}
	}

	if favorableMove >= lastAtr*atrTrailDistance && !ctx.History.HasMarker(MarkerAtrTrail) {
		trailStop := entry + lastAtr
		if !ctx.Position.IsLong() {
			trailStop = entry - lastAtr
		}

		return model.Signal{
			Type:             model.SignalChangeStopLoss,
			Symbol:           ctx.Position.Symbol,
			Marker:           MarkerAtrTrail,
			NewStopLossPrice: trailStop,
			Reason:           fmt.Sprintf("Trailing stop to %.6f at %.1fx ATR profit", trailStop, atrTrailDistance),
		}
	}

	return model.HoldSignal("No exit condition met")
}

// favorableMove is the price distance in the position's favor, negative when
// the market moved against it.
func (a *AtrTrailExit) favorableMove(position model.Position, price float64) float64 {
	if position.IsLong() {
		return price - position.EntryPrice
	}

	return position.EntryPrice - price
}

func (a *AtrTrailExit) trendReversal(ctx ExitContext) model.Signal {
	fastEma, fastOk := indicator.Last(a.Calculator.Ema(ctx.KLines, atrFastEmaPeriod))
	slowEma, slowOk := indicator.Last(a.Calculator.Ema(ctx.KLines, atrSlowEmaPeriod))

	if !fastOk || !slowOk {
		return model.HoldSignal("")
	}

	reversed := (ctx.Position.IsLong() && fastEma < slowEma) ||
		(!ctx.Position.IsLong() && fastEma > slowEma)

	if !reversed {
		return model.HoldSignal("")
	}

	signalType := model.SignalCloseByStopLoss
	if ctx.Position.PnlPercent(ctx.CurrentPrice).Gt(0.00) {
		signalType = model.SignalCloseByTakeProfit
	}

	return model.Signal{
		Type:   signalType,
		Symbol: ctx.Position.Symbol,
		Reason: fmt.Sprintf("Trend reversal: EMA%d crossed EMA%d against the position", atrFastEmaPeriod, atrSlowEmaPeriod),
	}
}
