package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
	"gitlab.com/open-soft/go-smart-trader/src/service/strategy"
)

func trendingBatch(step float64) model.KLineBatch {
	batch := make(model.KLineBatch, 0)
	price := 100.00

	for i := 0; i < 120; i++ {
		open := price
		close := price + step
		high := open + 0.10
		low := close - 0.10
		if step > 0 {
			high = close + 0.10
			low = open - 0.10
		}

		batch = append(batch, kLineAt(i, open, high, low, close, 10.00))
		price += step
	}

	return batch
}

func TestTrendEntryOpensLongInUptrend(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.TrendEntry{Calculator: &indicator.Calculator{}}

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   trendingBatch(0.20),
	})

	assertion.Equal(model.SignalOpenLong, signal.Type)
	assertion.Equal(20.00, signal.PercentBalance)
	assertion.Equal(int64(5), signal.Leverage)
	assertion.Greater(signal.StopLossPercent, 0.00)
}

func TestTrendEntryOpensShortInDowntrend(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.TrendEntry{Calculator: &indicator.Calculator{}}

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   trendingBatch(-0.20),
	})

	assertion.Equal(model.SignalOpenShort, signal.Type)
}

func TestTrendEntryHoldsOnShortSeries(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.TrendEntry{Calculator: &indicator.Calculator{}}

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   trendingBatch(0.20)[:30],
	})

	assertion.True(signal.IsHold())
	assertion.Contains(signal.Reason, "Not enough candles")
}
