package strategy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
	"gitlab.com/open-soft/go-smart-trader/src/service/strategy"
)

func kLineAt(index int, open float64, high float64, low float64, close float64, volume float64) model.KLine {
	return model.KLine{
		Symbol:   "BTCUSDT",
		OpenTime: model.TimestampMilli(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC).Add(time.Duration(index)*5*time.Minute).UnixMilli()),
		Open:     open,
		High:     high,
		Low:      low,
		Close:    close,
		Volume:   volume,
	}
}

// declineThenSurge builds a slow steady decline followed by one large green
// candle: RSI sits near zero through the decline, then jumps far above it.
func declineThenSurge() model.KLineBatch {
	batch := make(model.KLineBatch, 0)
	price := 100.00

	for i := 0; i < 35; i++ {
		batch = append(batch, kLineAt(i, price, price+0.05, price-0.55, price-0.50, 10.00))
		price -= 0.50
	}

	batch = append(batch, kLineAt(35, price, price+10.10, price, price+10.00, 25.00))

	return batch
}

func TestRsiVolumeEntryHoldsOnShortSeries(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.RsiVolumeEntry{Calculator: &indicator.Calculator{}}

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   declineThenSurge()[:5],
	})

	assertion.True(signal.IsHold())
	assertion.Contains(signal.Reason, "Not enough candles")
}

func TestRsiVolumeEntryOpensLongOnMomentumSurge(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.RsiVolumeEntry{Calculator: &indicator.Calculator{}}

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   declineThenSurge(),
	})

	assertion.Equal(model.SignalOpenLong, signal.Type)
	assertion.Equal(30.00, signal.PercentBalance)
	assertion.Equal(int64(10), signal.Leverage)
}

func TestRsiVolumeEntryStrategyKnobsOverrideDefaults(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.RsiVolumeEntry{Calculator: &indicator.Calculator{}}

	percentBalance := 12.00
	leverage := int64(3)

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{PercentBalance: &percentBalance, Leverage: &leverage},
		Symbol:   "BTCUSDT",
		KLines:   declineThenSurge(),
	})

	assertion.Equal(model.SignalOpenLong, signal.Type)
	assertion.Equal(12.00, signal.PercentBalance)
	assertion.Equal(int64(3), signal.Leverage)
}

func TestRsiVolumeEntryHoldsWithoutVolumeConfirmation(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.RsiVolumeEntry{Calculator: &indicator.Calculator{}}

	batch := declineThenSurge()
	batch[len(batch)-1].Volume = 5.00

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   batch,
	})

	assertion.True(signal.IsHold())
}

func TestRsiVolumeEntryRejectsLongUpperWick(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.RsiVolumeEntry{Calculator: &indicator.Calculator{}}

	batch := declineThenSurge()
	last := &batch[len(batch)-1]
	last.High = last.Close + last.Body()

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   batch,
	})

	assertion.True(signal.IsHold())
}

func TestRsiVolumeEntryDojiDoesNotPanic(t *testing.T) {
	assertion := assert.New(t)

	rule := &strategy.RsiVolumeEntry{Calculator: &indicator.Calculator{}}

	batch := declineThenSurge()
	last := &batch[len(batch)-1]
	last.Close = last.Open
	last.High = last.Open
	last.Low = last.Open

	signal := rule.Evaluate(strategy.EntryContext{
		Strategy: model.Strategy{},
		Symbol:   "BTCUSDT",
		KLines:   batch,
	})

	assertion.True(signal.IsHold())
}
