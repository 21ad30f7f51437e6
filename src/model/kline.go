package model

import (
	"math"
	"time"
)

type KLine struct {
	Symbol   string         `json:"symbol"`
	OpenTime TimestampMilli `json:"openTime"`
	Open     float64        `json:"open"`
	High     float64        `json:"high"`
	Low      float64        `json:"low"`
	Close    float64        `json:"close"`
	Volume   float64        `json:"volume"`
}

func (k *KLine) IsPositive() bool {
	return k.Close > k.Open
}

func (k *KLine) IsNegative() bool {
	return k.Close < k.Open
}

// Body is the absolute open-close distance, zero for a doji.
func (k *KLine) Body() float64 {
	return math.Abs(k.Close - k.Open)
}

func (k *KLine) IsDoji() bool {
	return k.Body() == 0.00
}

func (k *KLine) UpperShadow() float64 {
	return k.High - math.Max(k.Open, k.Close)
}

func (k *KLine) LowerShadow() float64 {
	return math.Min(k.Open, k.Close) - k.Low
}

func (k *KLine) OpenedAt() time.Time {
	return k.OpenTime.Time()
}

type KLineBatch []KLine

func (b KLineBatch) Last() *KLine {
	if len(b) == 0 {
		return nil
	}

	return &b[len(b)-1]
}

func (b KLineBatch) Prev() *KLine {
	if len(b) < 2 {
		return nil
	}

	return &b[len(b)-2]
}

func (b KLineBatch) Closes() []float64 {
	values := make([]float64, len(b))
	for i, kLine := range b {
		values[i] = kLine.Close
	}

	return values
}

func (b KLineBatch) Highs() []float64 {
	values := make([]float64, len(b))
	for i, kLine := range b {
		values[i] = kLine.High
	}

	return values
}

func (b KLineBatch) Lows() []float64 {
	values := make([]float64, len(b))
	for i, kLine := range b {
		values[i] = kLine.Low
	}

	return values
}

func (b KLineBatch) LowestLow(lookback int) float64 {
	lowest := math.MaxFloat64

	for _, kLine := range b.tail(lookback) {
		if kLine.Low < lowest {
			lowest = kLine.Low
		}
	}

	return lowest
}

func (b KLineBatch) HighestHigh(lookback int) float64 {
	highest := 0.00

	for _, kLine := range b.tail(lookback) {
		if kLine.High > highest {
			highest = kLine.High
		}
	}

	return highest
}

func (b KLineBatch) tail(length int) KLineBatch {
	if len(b) <= length {
		return b
	}

	return b[len(b)-length:]
}
