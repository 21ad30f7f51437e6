package indicator

import (
	"github.com/markcheno/go-talib"
	"gitlab.com/open-soft/go-smart-trader/src/model"
)

// Conventional lookback periods. Strategies that want different periods must
// say so explicitly in their configuration, never per-rule defaults.
const (
	RsiPeriod = 14
	AtrPeriod = 14
)

type Calculator struct {
}

// Rsi returns the RSI series aligned with the input closes. The first
// `period` values are zero (warm-up), callers must check HasWarmup first.
func (c *Calculator) Rsi(kLines model.KLineBatch, period int) []float64 {
	if len(kLines) <= period {
		return nil
	}

	return talib.Rsi(kLines.Closes(), period)
}

func (c *Calculator) Ema(kLines model.KLineBatch, period int) []float64 {
	if len(kLines) < period {
		return nil
	}

	return talib.Ema(kLines.Closes(), period)
}

func (c *Calculator) Atr(kLines model.KLineBatch, period int) []float64 {
	if len(kLines) <= period {
		return nil
	}

	return talib.Atr(kLines.Highs(), kLines.Lows(), kLines.Closes(), period)
}

// Last returns the most recent value of a series.
func Last(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0.00, false
	}

	return series[len(series)-1], true
}

// Prev returns the value one bar before the most recent one.
func Prev(series []float64) (float64, bool) {
	if len(series) < 2 {
		return 0.00, false
	}

	return series[len(series)-2], true
}
