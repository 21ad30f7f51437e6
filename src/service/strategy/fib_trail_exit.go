package strategy

import (
	"fmt"

	"gitlab.com/open-soft/go-smart-trader/src/model"
)

const (
	MarkerFibTrailStop   = "fib-trail-stop"
	MarkerFibPartial     = "fib-partial-34"
	MarkerFibRebuyEntry  = "fib-rebuy-entry"
	MarkerFibRebuyDip    = "fib-rebuy-dip"
)

const (
	fibDefaultTakeProfit  = 8.00
	fibDefaultStopLoss    = 5.00
	fibTrailFraction      = 0.89
	fibTrailStopFraction  = 0.55
	fibPartialFraction    = 0.34
	fibPartialPercent     = 21.00
	fibRebuyEntryBalance  = 13.00
	fibRebuyDipBalance    = 55.00
	fibRebuyDipDiscount   = 0.01
	fibDefaultTimeFrame   = 15
)

// FibTrailExit works the range between the entry price and a fixed take
// profit target. Progress through that range triggers a one-shot partial
// close, then a stop tightened deep into profit, while pullbacks to or under
// the entry trigger one-shot re-buys after a partial was taken.
type FibTrailExit struct {
}

func (f *FibTrailExit) DataWindow(strategy model.Strategy) (int64, int64) {
	return strategy.GetTimeFrameMinutes(fibDefaultTimeFrame), 50
}

func (f *FibTrailExit) Evaluate(ctx ExitContext) model.Signal {
	if ctx.CurrentPrice <= 0.00 {
		return model.HoldSignal(fmt.Sprintf("[%s] Last price is not available", ctx.Position.Symbol))
	}

	entry := ctx.Position.EntryPrice

	if entry <= 0.00 {
		return model.HoldSignal(fmt.Sprintf("[%s] Position has no entry price", ctx.Position.Symbol))
	}

	targetRange := entry * ctx.Strategy.GetTakeProfitPercent(fibDefaultTakeProfit) / 100.00
	stopDistance := entry * ctx.Strategy.GetStopLossPercent(fibDefaultStopLoss) / 100.00

	// Progress through the entry→target range, 1.0 means the target itself.
	progress := f.favorableMove(ctx.Position, ctx.CurrentPrice) / targetRange

	if progress >= 1.00 {
		return model.Signal{
			Type:   model.SignalCloseByTakeProfit,
			Symbol: ctx.Position.Symbol,
			Reason: fmt.Sprintf("Price %.6f reached the take profit target", ctx.CurrentPrice),
		}
	}

	if f.favorableMove(ctx.Position, ctx.CurrentPrice) <= -stopDistance {
		return model.Signal{
			Type:   model.SignalCloseByStopLoss,
			Symbol: ctx.Position.Symbol,
			Reason: fmt.Sprintf("Price %.6f breached the fixed stop distance", ctx.CurrentPrice),
		}
	}

	if progress >= fibTrailFraction && !ctx.History.HasMarker(MarkerFibTrailStop) {
		newStop := f.priceAtFraction(ctx.Position, targetRange, fibTrailStopFraction)

		return model.Signal{
			Type:             model.SignalChangeStopLoss,
			Symbol:           ctx.Position.Symbol,
			Marker:           MarkerFibTrailStop,
			NewStopLossPrice: newStop,
			Reason:           fmt.Sprintf("Range %.0f%% done: stop tightened to %.6f", fibTrailFraction*100.00, newStop),
		}
	}

	if progress >= fibPartialFraction && !ctx.History.HasMarker(MarkerFibPartial) {
		return model.Signal{
			Type:            model.SignalPartialClose,
			Symbol:          ctx.Position.Symbol,
			Marker:          MarkerFibPartial,
			PercentPosition: fibPartialPercent,
			Reason:          fmt.Sprintf("Range %.0f%% done: taking %.0f%% off", fibPartialFraction*100.00, fibPartialPercent),
		}
	}

	// Re-buys only make sense after a partial reduced the position, and each
	// fires once: at the entry price, and on a deeper dip below it.
	if !ctx.History.HasMarker(MarkerFibPartial) {
		return model.HoldSignal("No exit condition met")
	}

	dipPrice := entry * (1.00 - fibRebuyDipDiscount)
	if !ctx.Position.IsLong() {
		dipPrice = entry * (1.00 + fibRebuyDipDiscount)
	}

	if f.reachedRebuyPrice(ctx.Position, ctx.CurrentPrice, dipPrice) && !ctx.History.HasMarker(MarkerFibRebuyDip) {
		return model.Signal{
			Type:           model.SignalRollbackBuy,
			Symbol:         ctx.Position.Symbol,
			Marker:         MarkerFibRebuyDip,
			PercentBalance: fibRebuyDipBalance,
			Reason:         fmt.Sprintf("Dip to %.6f below entry after a partial close: re-entering", ctx.CurrentPrice),
		}
	}

	if f.reachedRebuyPrice(ctx.Position, ctx.CurrentPrice, entry) && !ctx.History.HasMarker(MarkerFibRebuyEntry) {
		return model.Signal{
			Type:           model.SignalRollbackBuy,
			Symbol:         ctx.Position.Symbol,
			Marker:         MarkerFibRebuyEntry,
			PercentBalance: fibRebuyEntryBalance,
			Reason:         fmt.Sprintf("Pullback to entry %.6f after a partial close: re-entering", entry),
		}
	}

	return model.HoldSignal("No exit condition met")
}

func (f *FibTrailExit) favorableMove(position model.Position, price float64) float64 {
	if position.IsLong() {
		return price - position.EntryPrice
	}

	return position.EntryPrice - price
}

func (f *FibTrailExit) priceAtFraction(position model.Position, targetRange float64, fraction float64) float64 {
	if position.IsLong() {
		return position.EntryPrice + targetRange*fraction
	}

	return position.EntryPrice - targetRange*fraction
}

// reachedRebuyPrice is true when the market is at the re-buy level or better,
// lower for longs and higher for shorts.
func (f *FibTrailExit) reachedRebuyPrice(position model.Position, price float64, level float64) bool {
	if position.IsLong() {
		return price <= level
	}

	return price >= level
}
