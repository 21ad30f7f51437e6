package model

import (
	"time"
)

const (
	PositionSideLong  = "LONG"
	PositionSideShort = "SHORT"

	PositionStatusOpen   = "OPEN"
	PositionStatusClosed = "CLOSED"
)

type Position struct {
	Id              int64      `json:"id"`
	WalletId        int64      `json:"walletId"`
	CoinId          int64      `json:"coinId"`
	EntryStrategyId int64      `json:"entryStrategyId"`
	ExitStrategyId  *int64     `json:"exitStrategyId"`
	Symbol          string     `json:"symbol"`
	Side            string     `json:"side"`
	Status          string     `json:"status"`
	EntryPrice      float64    `json:"entryPrice"`
	EntryValue      float64    `json:"entryValue"`
	Quantity        float64    `json:"quantity"`
	StopLoss        *float64   `json:"stopLoss"`
	TakeProfit      *float64   `json:"takeProfit"`
	Leverage        int64      `json:"leverage"`
	Profit          float64    `json:"profit"`
	OpenedAt        time.Time  `json:"openedAt"`
	ClosedAt        *time.Time `json:"closedAt"`
}

func (p *Position) IsLong() bool {
	return p.Side == PositionSideLong
}

func (p *Position) IsOpened() bool {
	return p.Status == PositionStatusOpen
}

// PriceChangePercent is the raw price move in favor of the position,
// negative when the market goes against it.
func (p *Position) PriceChangePercent(price float64) Percent {
	if p.EntryPrice == 0.00 {
		return Percent(0.00)
	}

	change := (price - p.EntryPrice) * 100.00 / p.EntryPrice

	if !p.IsLong() {
		change = -change
	}

	return Percent(change)
}

// PnlPercent is the leveraged unrealized PnL of the position.
func (p *Position) PnlPercent(price float64) Percent {
	return Percent(p.PriceChangePercent(price).Value() * float64(p.GetLeverage()))
}

// ProfitAt is the realized profit of closing the given quantity at the
// given price, in quote currency.
func (p *Position) ProfitAt(price float64, quantity float64) float64 {
	profit := (price - p.EntryPrice) * quantity

	if !p.IsLong() {
		profit = -profit
	}

	return profit
}

func (p *Position) GetLeverage() int64 {
	if p.Leverage > 0 {
		return p.Leverage
	}

	return 1
}

func (p *Position) AgeMinutes(now time.Time) float64 {
	return now.Sub(p.OpenedAt).Minutes()
}

func (p *Position) HasStopLoss() bool {
	return p.StopLoss != nil && *p.StopLoss > 0.00
}

type ActionType string

const (
	ActionOpen              ActionType = "OPEN"
	ActionCloseByTakeProfit ActionType = "CLOSE_BY_TP"
	ActionCloseByStopLoss   ActionType = "CLOSE_BY_SL"
	ActionPartialClose      ActionType = "PARTIAL_CLOSE"
	ActionChangeStopLoss    ActionType = "CHANGE_SL"
	ActionRollbackBuy       ActionType = "ROLLBACK_BUY"
)

func ActionTypeForSignal(signalType SignalType) ActionType {
	switch signalType {
	case SignalOpenLong, SignalOpenShort:
		return ActionOpen
	case SignalCloseByTakeProfit:
		return ActionCloseByTakeProfit
	case SignalCloseByStopLoss:
		return ActionCloseByStopLoss
	case SignalPartialClose:
		return ActionPartialClose
	case SignalChangeStopLoss:
		return ActionChangeStopLoss
	case SignalRollbackBuy:
		return ActionRollbackBuy
	}

	return ""
}

// PositionHistory rows are append-only. The ledger is the sole idempotency
// mechanism: exit rules scan it before re-emitting a one-shot action.
type PositionHistory struct {
	Id              int64      `json:"id"`
	PositionId      int64      `json:"positionId"`
	Action          ActionType `json:"action"`
	Marker          string     `json:"marker"`
	PercentPosition float64    `json:"percentPosition"`
	PercentBalance  float64    `json:"percentBalance"`
	Price           float64    `json:"price"`
	Profit          float64    `json:"profit"`
	Reason          string     `json:"reason"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type HistoryEntries []PositionHistory

func (h HistoryEntries) HasAction(action ActionType) bool {
	for _, entry := range h {
		if entry.Action == action {
			return true
		}
	}

	return false
}

func (h HistoryEntries) HasMarker(marker string) bool {
	for _, entry := range h {
		if entry.Marker == marker {
			return true
		}
	}

	return false
}

// HasActionAtOrBetter reports whether an action was already taken at this
// price or a better one, where "better" is lower for LONG re-buys and
// higher for SHORT re-buys.
func (h HistoryEntries) HasActionAtOrBetter(action ActionType, price float64, side string) bool {
	for _, entry := range h {
		if entry.Action != action {
			continue
		}

		if side == PositionSideLong && entry.Price <= price {
			return true
		}

		if side == PositionSideShort && entry.Price >= price {
			return true
		}
	}

	return false
}
