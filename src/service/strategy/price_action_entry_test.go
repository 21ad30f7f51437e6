package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
	"gitlab.com/open-soft/go-smart-trader/src/service/strategy"
)

func TestPriceActionEntryOpensLongAtSupport(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.PriceActionEntry{Calculator: &indicator.Calculator{}}

	// A steady decline keeps RSI deeply oversold, and the last candle's low
	// matches the lowest low of the window by construction.
	batch := make(model.KLineBatch, 0)
	price := 100.00
	for i := 0; i < 35; i++ {
		batch = append(batch, kLineAt(i, price, price+0.05, price-0.55, price-0.50, 10.00))
		price -= 0.50
	}

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   batch,
	})

	assertion.Equal(model.SignalOpenLong, signal.Type)
	assertion.Equal(5.00, signal.PercentBalance)
	assertion.Equal(5.00, signal.StopLossPercent)
	assertion.Equal(5.00, signal.TakeProfitPercent)
	assertion.Equal(int64(5), signal.Leverage)
}

func TestPriceActionEntryOpensShortAtResistance(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.PriceActionEntry{Calculator: &indicator.Calculator{}}

	batch := make(model.KLineBatch, 0)
	price := 100.00
	for i := 0; i < 35; i++ {
		batch = append(batch, kLineAt(i, price, price+0.55, price-0.05, price+0.50, 10.00))
		price += 0.50
	}

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   batch,
	})

	assertion.Equal(model.SignalOpenShort, signal.Type)
}

func TestPriceActionEntryHoldsAwayFromTheZone(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.PriceActionEntry{Calculator: &indicator.Calculator{}}

	// Still oversold, but the last candle bounced 2% off the lowest low.
	batch := make(model.KLineBatch, 0)
	price := 100.00
	for i := 0; i < 35; i++ {
		batch = append(batch, kLineAt(i, price, price+0.05, price-0.55, price-0.50, 10.00))
		price -= 0.50
	}
	last := &batch[len(batch)-1]
	lowest := batch.LowestLow(20)
	last.Low = lowest * 1.02

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   batch,
	})

	assertion.True(signal.IsHold())
}

func TestPriceActionEntryHoldsOnShortSeries(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.PriceActionEntry{Calculator: &indicator.Calculator{}}

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   model.KLineBatch{},
	})

	assertion.True(signal.IsHold())
}
