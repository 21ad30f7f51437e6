package model

type SignalType string

const (
	SignalHold              SignalType = "HOLD"
	SignalOpenLong          SignalType = "OPEN_LONG"
	SignalOpenShort         SignalType = "OPEN_SHORT"
	SignalCloseByTakeProfit SignalType = "CLOSE_BY_TP"
	SignalCloseByStopLoss   SignalType = "CLOSE_BY_SL"
	SignalPartialClose      SignalType = "PARTIAL_CLOSE"
	SignalChangeStopLoss    SignalType = "CHANGE_SL"
	SignalRollbackBuy       SignalType = "ROLLBACK_BUY"
)

// Signal is a decision value, not an action. It becomes an action only once
// a worker executes it against the exchange and records the outcome.
type Signal struct {
	Type              SignalType `json:"type"`
	Symbol            string     `json:"symbol"`
	Reason            string     `json:"reason"`
	Marker            string     `json:"marker"`
	PercentBalance    float64    `json:"percentBalance"`
	PercentPosition   float64    `json:"percentPosition"`
	StopLossPercent   float64    `json:"stopLossPercent"`
	TakeProfitPercent float64    `json:"takeProfitPercent"`
	Leverage          int64      `json:"leverage"`
	NewStopLossPrice  float64    `json:"newStopLossPrice"`
	Quantity          float64    `json:"quantity"`
}

func HoldSignal(reason string) Signal {
	return Signal{
		Type:   SignalHold,
		Reason: reason,
	}
}

func (s Signal) IsHold() bool {
	return s.Type == SignalHold || s.Type == ""
}

func (s Signal) IsOpen() bool {
	return s.Type == SignalOpenLong || s.Type == SignalOpenShort
}

func (s Signal) IsFullClose() bool {
	return s.Type == SignalCloseByTakeProfit || s.Type == SignalCloseByStopLoss
}

func (s Signal) PositionSide() string {
	if s.Type == SignalOpenShort {
		return PositionSideShort
	}

	return PositionSideLong
}
