package strategy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/strategy"
)

func fibContext(side string, price float64, history model.HistoryEntries) strategy.ExitContext {
	return strategy.ExitContext{
		Position: model.Position{
			Id:         1,
			Symbol:     "BTCUSDT",
			Side:       side,
			Status:     model.PositionStatusOpen,
			EntryPrice: 100.00,
			Quantity:   1.00,
			Leverage:   5,
		},
		Strategy:     model.Strategy{Kind: model.StrategyKindFibTrailExit},
		History:      history,
		CurrentPrice: price,
		Now:          time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC),
	}
}

func TestFibTrailTakesPartialAtThirtyFourPercentOfRange(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.FibTrailExit{}

	// Default target range is 8% of entry: 34% of it is 2.72 above entry.
	signal := rule.Evaluate(fibContext(model.PositionSideLong, 103.00, model.HistoryEntries{}))

	assertion.Equal(model.SignalPartialClose, signal.Type)
	assertion.Equal("fib-partial-34", signal.Marker)
	assertion.Equal(21.00, signal.PercentPosition)

	repeat := rule.Evaluate(fibContext(model.PositionSideLong, 103.00, model.HistoryEntries{
		{Action: model.ActionPartialClose, Marker: "fib-partial-34", Price: 103.00},
	}))

	assertion.True(repeat.IsHold())
}

func TestFibTrailTightensStopDeepIntoTheRange(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.FibTrailExit{}

	// 89% of the 8-point range is 7.12 above entry.
	signal := rule.Evaluate(fibContext(model.PositionSideLong, 107.20, model.HistoryEntries{
		{Action: model.ActionPartialClose, Marker: "fib-partial-34", Price: 103.00},
	}))

	assertion.Equal(model.SignalChangeStopLoss, signal.Type)
	assertion.Equal("fib-trail-stop", signal.Marker)
	assertion.InDelta(104.40, signal.NewStopLossPrice, 1e-9)
}

func TestFibTrailClosesAtTarget(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.FibTrailExit{}

	signal := rule.Evaluate(fibContext(model.PositionSideLong, 108.00, model.HistoryEntries{}))

	assertion.Equal(model.SignalCloseByTakeProfit, signal.Type)
}

func TestFibTrailClosesAtStopDistance(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.FibTrailExit{}

	signal := rule.Evaluate(fibContext(model.PositionSideLong, 95.00, model.HistoryEntries{}))

	assertion.Equal(model.SignalCloseByStopLoss, signal.Type)
}

func TestFibTrailRebuysOnlyAfterAPartialClose(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.FibTrailExit{}

	// Pulled back to entry without a prior partial: nothing to re-buy.
	before := rule.Evaluate(fibContext(model.PositionSideLong, 100.00, model.HistoryEntries{}))
	assertion.True(before.IsHold())

	partialDone := model.HistoryEntries{
		{Action: model.ActionPartialClose, Marker: "fib-partial-34", Price: 103.00},
	}

	atEntry := rule.Evaluate(fibContext(model.PositionSideLong, 100.00, partialDone))
	assertion.Equal(model.SignalRollbackBuy, atEntry.Type)
	assertion.Equal("fib-rebuy-entry", atEntry.Marker)
	assertion.Equal(13.00, atEntry.PercentBalance)

	// A deeper dip takes the larger re-buy first.
	dip := rule.Evaluate(fibContext(model.PositionSideLong, 98.90, partialDone))
	assertion.Equal(model.SignalRollbackBuy, dip.Type)
	assertion.Equal("fib-rebuy-dip", dip.Marker)
	assertion.Equal(55.00, dip.PercentBalance)

	// Both re-buys marked: the pullback no longer triggers anything.
	allDone := rule.Evaluate(fibContext(model.PositionSideLong, 98.90, model.HistoryEntries{
		{Action: model.ActionPartialClose, Marker: "fib-partial-34", Price: 103.00},
		{Action: model.ActionRollbackBuy, Marker: "fib-rebuy-dip", Price: 98.90},
		{Action: model.ActionRollbackBuy, Marker: "fib-rebuy-entry", Price: 98.90},
	}))
	assertion.True(allDone.IsHold())
}

func TestFibTrailIsSideSymmetric(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.FibTrailExit{}

	signal := rule.Evaluate(fibContext(model.PositionSideShort, 97.00, model.HistoryEntries{}))

	assertion.Equal(model.SignalPartialClose, signal.Type)
	assertion.Equal("fib-partial-34", signal.Marker)

	target := rule.Evaluate(fibContext(model.PositionSideShort, 92.00, model.HistoryEntries{}))
	assertion.Equal(model.SignalCloseByTakeProfit, target.Type)
}
