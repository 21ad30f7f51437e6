package utils_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-smart-trader/src/utils"
)

func TestAdjustToStepSizeFloorsToLotStep(t *testing.T) {
	assertion := assert.New(t)
	formatter := &utils.Formatter{}

	assertion.InDelta(0.012, formatter.AdjustToStepSize(0.0127, 0.001), 1e-12)
	assertion.InDelta(12.00, formatter.AdjustToStepSize(12.00, 0.001), 1e-12)
	assertion.InDelta(0.005, formatter.AdjustToStepSize(0.005, 0.001), 1e-12)
	assertion.InDelta(150.00, formatter.AdjustToStepSize(151.00, 50.00), 1e-12)
}

func TestAdjustToStepSizeZeroStepLeavesQuantityUntouched(t *testing.T) {
	assertion := assert.New(t)
	formatter := &utils.Formatter{}

	assertion.Equal(0.0127, formatter.AdjustToStepSize(0.0127, 0.00))
}

func TestAdjustToStepSizeResultIsNeverLargerAndIsAStepMultiple(t *testing.T) {
	assertion := assert.New(t)
	formatter := &utils.Formatter{}

	quantities := []float64{0.0001, 0.0127, 1.00, 3.333333, 12.00, 999.12345}
	steps := []float64{0.001, 0.01, 0.5, 1.00}

	for _, quantity := range quantities {
		for _, step := range steps {
			adjusted := formatter.AdjustToStepSize(quantity, step)

			assertion.LessOrEqual(adjusted, quantity)

			remainder := math.Mod(adjusted, step)
			onGrid := remainder < 1e-9 || step-remainder < 1e-9
			assertion.True(onGrid)
		}
	}
}

func TestAdjustToTickSizeFloorsPriceToTickGrid(t *testing.T) {
	assertion := assert.New(t)
	formatter := &utils.Formatter{}

	assertion.InDelta(42150.10, formatter.AdjustToTickSize(42150.1099, 0.01), 1e-9)
	assertion.Equal(42150.1099, formatter.AdjustToTickSize(42150.1099, 0.00))
}

func TestMinutesToBinanceInterval(t *testing.T) {
	assertion := assert.New(t)
	formatter := &utils.Formatter{}

	assertion.Equal("1m", formatter.MinutesToBinanceInterval(1))
	assertion.Equal("5m", formatter.MinutesToBinanceInterval(5))
	assertion.Equal("15m", formatter.MinutesToBinanceInterval(15))
	assertion.Equal("1h", formatter.MinutesToBinanceInterval(60))
	assertion.Equal("1d", formatter.MinutesToBinanceInterval(1440))
}
