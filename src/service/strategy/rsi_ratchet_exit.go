package strategy

import (
	"fmt"
	"time"

	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
)

const (
	MarkerRatchet25   = "ratchet-2.5"
	MarkerRatchet5    = "ratchet-5"
	MarkerRatchet10   = "ratchet-10"
	MarkerInitialStop = "initial-stop"
)

const (
	ratchetDefaultTakeProfit = 20.00
	ratchetDefaultStopLoss   = 10.00
	ratchetHoldMinutes       = 15.00
	ratchetSettleMinutes     = 5.00
	ratchetRsiReversalDelta  = 5.00
	ratchetRsiOverbought     = 80.00
	ratchetRsiOversold       = 20.00
	ratchetDefaultTimeFrame  = 5
)

// ratchetTier locks in profit as leveraged PnL crosses its threshold. Each
// tier fires at most once per position, recorded through its history marker.
type ratchetTier struct {
	Threshold       float64
	Marker          string
	PercentPosition float64
	// StopOffsetPercent moves the stop from entry toward profit, expressed
	// in leveraged PnL like the threshold itself. Zero puts the stop exactly
	// at the entry price.
	StopOffsetPercent float64
}

// Tiers ordered by descending threshold: a jump straight to 10% fires the
// highest tier only, lower ones are considered already overtaken.
var ratchetTiers = []ratchetTier{
	{Threshold: 10.00, Marker: MarkerRatchet10, PercentPosition: 50.00, StopOffsetPercent: 5.00},
	{Threshold: 5.00, Marker: MarkerRatchet5, PercentPosition: 25.00, StopOffsetPercent: 1.00},
	{Threshold: 2.50, Marker: MarkerRatchet25, PercentPosition: 25.00, StopOffsetPercent: 0.00},
}

// RsiRatchetExit is the tiered exit machine: hard take-profit/stop-loss on
// leveraged PnL, one-shot profit-locking partials, a deferred initial stop,
// a minimum holding window, then discretionary RSI exits.
type RsiRatchetExit struct {
	Calculator *indicator.Calculator
}

func (r *RsiRatchetExit) DataWindow(strategy model.Strategy) (int64, int64) {
	return strategy.GetTimeFrameMinutes(ratchetDefaultTimeFrame), 50
}

func (r *RsiRatchetExit) Evaluate(ctx ExitContext) model.Signal {
	if ctx.CurrentPrice <= 0.00 {
		return model.HoldSignal(fmt.Sprintf("[%s] Last price is not available", ctx.Position.Symbol))
	}

	pnl := ctx.Position.PnlPercent(ctx.CurrentPrice)

	if signal := r.hardExit(ctx, pnl); !signal.IsHold() {
		return signal
	}

	if signal := r.ratchet(ctx, pnl); !signal.IsHold() {
		return signal
	}

	if signal := r.initialStop(ctx); !signal.IsHold() {
		return signal
	}

	if ctx.Position.AgeMinutes(ctx.Now) < ratchetHoldMinutes {
		return model.HoldSignal(fmt.Sprintf("[%s] Within minimum holding window", ctx.Position.Symbol))
	}

	return r.discretionaryExit(ctx)
}

func (r *RsiRatchetExit) hardExit(ctx ExitContext, pnl model.Percent) model.Signal {
	takeProfit := ctx.Strategy.GetTakeProfitPercent(ratchetDefaultTakeProfit)
	stopLoss := ctx.Strategy.GetStopLossPercent(ratchetDefaultStopLoss)

	if pnl.Gte(takeProfit) {
		return model.Signal{
			Type:   model.SignalCloseByTakeProfit,
			Symbol: ctx.Position.Symbol,
			Reason: fmt.Sprintf("Leveraged PnL %.2f%% reached take profit %.2f%%", pnl.Value(), takeProfit),
		}
	}

	if pnl.Lte(-stopLoss) {
		return model.Signal{
			Type:   model.SignalCloseByStopLoss,
			Symbol: ctx.Position.Symbol,
			Reason: fmt.Sprintf("Leveraged PnL %.2f%% breached stop loss -%.2f%%", pnl.Value(), stopLoss),
		}
	}

	return model.HoldSignal("")
}

func (r *RsiRatchetExit) ratchet(ctx ExitContext, pnl model.Percent) model.Signal {
	highestMarked := 0.00

	for _, tier := range ratchetTiers {
		if ctx.History.HasMarker(tier.Marker) && tier.Threshold > highestMarked {
			highestMarked = tier.Threshold
		}
	}

	for _, tier := range ratchetTiers {
		if !pnl.Gte(tier.Threshold) || tier.Threshold <= highestMarked {
			continue
		}

		return model.Signal{
			Type:             model.SignalPartialClose,
			Symbol:           ctx.Position.Symbol,
			Marker:           tier.Marker,
			PercentPosition:  tier.PercentPosition,
			NewStopLossPrice: r.ratchetStopPrice(ctx.Position, tier),
			Reason: fmt.Sprintf(
				"Leveraged PnL %.2f%% crossed %.1f%%: locking %.0f%% of the position",
				pnl.Value(), tier.Threshold, tier.PercentPosition,
			),
		}
	}

	return model.HoldSignal("")
}

func (r *RsiRatchetExit) ratchetStopPrice(position model.Position, tier ratchetTier) float64 {
	offset := position.EntryPrice * tier.StopOffsetPercent / 100.00 / float64(position.GetLeverage())

	if position.IsLong() {
		return position.EntryPrice + offset
	}

	return position.EntryPrice - offset
}

// initialStop places the first protective stop at the entry candle's open
// price once the position had a short settle time. One-shot by definition,
// it only applies while the position has no stop at all.
func (r *RsiRatchetExit) initialStop(ctx ExitContext) model.Signal {
	if ctx.Position.HasStopLoss() || ctx.History.HasMarker(MarkerInitialStop) {
		return model.HoldSignal("")
	}

	if ctx.Position.AgeMinutes(ctx.Now) < ratchetSettleMinutes {
		return model.HoldSignal("")
	}

	openPrice := r.entryCandleOpenPrice(ctx)

	if openPrice <= 0.00 {
		return model.HoldSignal("")
	}

	return model.Signal{
		Type:             model.SignalChangeStopLoss,
		Symbol:           ctx.Position.Symbol,
		Marker:           MarkerInitialStop,
		NewStopLossPrice: openPrice,
		Reason:           fmt.Sprintf("Initial stop at entry candle open %.6f", openPrice),
	}
}

func (r *RsiRatchetExit) entryCandleOpenPrice(ctx ExitContext) float64 {
	timeFrame, _ := r.DataWindow(ctx.Strategy)
	duration := time.Duration(timeFrame) * time.Minute

	for _, kLine := range ctx.KLines {
		openedAt := kLine.OpenedAt()

		if !ctx.Position.OpenedAt.Before(openedAt) && ctx.Position.OpenedAt.Before(openedAt.Add(duration)) {
			return kLine.Open
		}
	}

	return 0.00
}

func (r *RsiRatchetExit) discretionaryExit(ctx ExitContext) model.Signal {
	if signal := r.stopBreach(ctx); !signal.IsHold() {
		return signal
	}

	rsi := r.Calculator.Rsi(ctx.KLines, indicator.RsiPeriod)

	lastRsi, lastOk := indicator.Last(rsi)
	prevRsi, prevOk := indicator.Prev(rsi)

	if !lastOk || !prevOk {
		return model.HoldSignal(fmt.Sprintf("[%s] Not enough candles for RSI(%d)", ctx.Position.Symbol, indicator.RsiPeriod))
	}

	lastCandle := ctx.KLines.Last()

	if ctx.Position.IsLong() {
		if prevRsi-lastRsi > ratchetRsiReversalDelta {
			return model.Signal{
				Type:   model.SignalCloseByTakeProfit,
				Symbol: ctx.Position.Symbol,
				Reason: fmt.Sprintf("RSI reversed down %.1f points", prevRsi-lastRsi),
			}
		}

		if lastRsi > ratchetRsiOverbought && lastCandle.IsNegative() {
			return model.Signal{
				Type:   model.SignalCloseByTakeProfit,
				Symbol: ctx.Position.Symbol,
				Reason: fmt.Sprintf("RSI %.1f overbought on a red candle", lastRsi),
			}
		}
	} else {
		if lastRsi-prevRsi > ratchetRsiReversalDelta {
			return model.Signal{
				Type:   model.SignalCloseByTakeProfit,
				Symbol: ctx.Position.Symbol,
				Reason: fmt.Sprintf("RSI reversed up %.1f points", lastRsi-prevRsi),
			}
		}

		if lastRsi < ratchetRsiOversold && lastCandle.IsPositive() {
			return model.Signal{
				Type:   model.SignalCloseByTakeProfit,
				Symbol: ctx.Position.Symbol,
				Reason: fmt.Sprintf("RSI %.1f oversold on a green candle", lastRsi),
			}
		}
	}

	return model.HoldSignal("No exit condition met")
}

func (r *RsiRatchetExit) stopBreach(ctx ExitContext) model.Signal {
	if !ctx.Position.HasStopLoss() {
		return model.HoldSignal("")
	}

	stopLoss := *ctx.Position.StopLoss

	breached := (ctx.Position.IsLong() && ctx.CurrentPrice <= stopLoss) ||
		(!ctx.Position.IsLong() && ctx.CurrentPrice >= stopLoss)

	if breached {
		return model.Signal{
			Type:   model.SignalCloseByStopLoss,
			Symbol: ctx.Position.Symbol,
			Reason: fmt.Sprintf("Price %.6f breached stop loss %.6f", ctx.CurrentPrice, stopLoss),
		}
	}

	return model.HoldSignal("")
}
