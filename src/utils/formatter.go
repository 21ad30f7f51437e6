package utils

import (
	"log"
	"math"

	"gitlab.com/open-soft/go-smart-trader/src/model"
)

// stepEpsilon compensates float division noise so that a quantity sitting
// exactly on a step boundary is not floored one step down.
const stepEpsilon = 1e-9

type Formatter struct {
}

// AdjustToStepSize floors quantity to the nearest lower multiple of the
// exchange lot step. A zero step leaves the quantity untouched.
func (m *Formatter) AdjustToStepSize(quantity float64, stepSize float64) float64 {
	if stepSize == 0.00 {
		return quantity
	}

	steps := math.Floor(quantity/stepSize + stepEpsilon)

	return steps * stepSize
}

// AdjustToTickSize floors a price to the exchange tick grid.
func (m *Formatter) AdjustToTickSize(price float64, tickSize float64) float64 {
	if tickSize == 0.00 {
		return price
	}

	ticks := math.Floor(price/tickSize + stepEpsilon)

	return ticks * tickSize
}

func (m *Formatter) ComparePercentage(first float64, second float64) model.Percent {
	return model.Percent(second * 100.00 / first)
}

func (m *Formatter) Round(num float64) int {
	return int(num + math.Copysign(0.5, num))
}

func (m *Formatter) ToFixed(num float64, precision int) float64 {
	output := math.Pow(10, float64(precision))
	return float64(m.Round(num*output)) / output
}

func (m *Formatter) MinutesToBinanceInterval(minutes int64) string {
	// Binance:
	// 1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h
	// 1d 3d 1w 1M
	switch minutes {
	case 1:
		return "1m"
	case 3:
		return "3m"
	case 5:
		return "5m"
	case 15:
		return "15m"
	case 30:
		return "30m"
	case 60:
		return "1h"
	case 120:
		return "2h"
	case 240:
		return "4h"
	case 360:
		return "6h"
	case 720:
		return "12h"
	case 1440:
		return "1d"
	default:
		log.Panicf("Timeframe %d minutes is not supported by MinutesToBinanceInterval", minutes)
	}

	return ""
}
