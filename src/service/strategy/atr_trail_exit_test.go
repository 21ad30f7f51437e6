package strategy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
	"gitlab.com/open-soft/go-smart-trader/src/service/strategy"
)

// flatRangeBatch has a constant close and a constant high-low range of 2, so
// ATR(14) is exactly 2 and EMA20 equals EMA50.
func flatRangeBatch() model.KLineBatch {
	batch := make(model.KLineBatch, 0)

	for i := 0; i < 60; i++ {
		batch = append(batch, model.KLine{
			Symbol:   "BTCUSDT",
			OpenTime: model.TimestampMilli(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC).Add(time.Duration(i)*15*time.Minute).UnixMilli()),
			Open:     100.00,
			High:     101.00,
			Low:      99.00,
			Close:    100.00,
			Volume:   10.00,
		})
	}

	return batch
}

func atrContext(price float64, history model.HistoryEntries) strategy.ExitContext {
	return strategy.ExitContext{
		Position: model.Position{
			Id:         1,
			Symbol:     "BTCUSDT",
			Side:       model.PositionSideLong,
			Status:     model.PositionStatusOpen,
			EntryPrice: 100.00,
			Quantity:   1.00,
			Leverage:   5,
		},
		Strategy:     model.Strategy{Kind: model.StrategyKindAtrTrailExit},
		KLines:       flatRangeBatch(),
		History:      history,
		CurrentPrice: price,
		Now:          time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC),
	}
}

func TestAtrTrailClosesAtTargetDistance(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.AtrTrailExit{Calculator: &indicator.Calculator{}}

	// ATR=2: the target sits 6 above the entry.
	signal := rule.Evaluate(atrContext(106.00, model.HistoryEntries{}))

	assertion.Equal(model.SignalCloseByTakeProfit, signal.Type)
}

func TestAtrTrailClosesAtStopDistance(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.AtrTrailExit{Calculator: &indicator.Calculator{}}

	// ATR=2: the stop sits 3 below the entry.
	signal := rule.Evaluate(atrContext(97.00, model.HistoryEntries{}))

	assertion.Equal(model.SignalCloseByStopLoss, signal.Type)
}

func TestAtrTrailStagesPartialsThroughMarkers(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.AtrTrailExit{Calculator: &indicator.Calculator{}}

	first := rule.Evaluate(atrContext(103.00, model.HistoryEntries{}))

	assertion.Equal(model.SignalPartialClose, first.Type)
	assertion.Equal("atr-partial-1", first.Marker)
	assertion.Equal(25.00, first.PercentPosition)

	// The first marker present and the move extended: the second stage.
	second := rule.Evaluate(atrContext(104.00, model.HistoryEntries{
		{Action: model.ActionPartialClose, Marker: "atr-partial-1", Price: 103.00},
	}))

	assertion.Equal(model.SignalPartialClose, second.Type)
	assertion.Equal("atr-partial-2", second.Marker)

	// Both partials done: the trailing stop raise fires at the same price.
	trail := rule.Evaluate(atrContext(104.00, model.HistoryEntries{
		{Action: model.ActionPartialClose, Marker: "atr-partial-1", Price: 103.00},
		{Action: model.ActionPartialClose, Marker: "atr-partial-2", Price: 104.00},
	}))

	assertion.Equal(model.SignalChangeStopLoss, trail.Type)
	assertion.Equal("atr-trail", trail.Marker)
	assertion.InDelta(102.00, trail.NewStopLossPrice, 1e-9)

	// Everything marked: nothing left to do.
	done := rule.Evaluate(atrContext(104.00, model.HistoryEntries{
		{Action: model.ActionPartialClose, Marker: "atr-partial-1", Price: 103.00},
		{Action: model.ActionPartialClose, Marker: "atr-partial-2", Price: 104.00},
		{Action: model.ActionChangeStopLoss, Marker: "atr-trail", Price: 102.00},
	}))

	assertion.True(done.IsHold())
}

func TestAtrTrailHoldsOnShortSeries(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.AtrTrailExit{Calculator: &indicator.Calculator{}}

	ctx := atrContext(103.00, model.HistoryEntries{})
	ctx.KLines = ctx.KLines[:5]

	signal := rule.Evaluate(ctx)

	assertion.True(signal.IsHold())
	assertion.Contains(signal.Reason, "Not enough candles")
}
