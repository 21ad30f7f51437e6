package strategy

import (
	"time"

	"gitlab.com/open-soft/go-smart-trader/src/model"
)

// EntryContext is an immutable snapshot handed to entry rules. Rules do no
// I/O of their own, the worker fetches market data up front.
type EntryContext struct {
	Coin     model.Coin
	Strategy model.Strategy
	Symbol   string
	KLines   model.KLineBatch
}

// ExitContext is the snapshot for exit rules: the position, its ledger and
// the market data. Rules return intended changes as Signal values, only the
// worker mutates persisted state.
type ExitContext struct {
	Position     model.Position
	Strategy     model.Strategy
	KLines       model.KLineBatch
	History      model.HistoryEntries
	CurrentPrice float64
	Now          time.Time
}

type EntryRuleInterface interface {
	// DataWindow reports the timeframe (minutes) and kline count the rule
	// evaluates on, honoring an explicit strategy timeframe override.
	DataWindow(strategy model.Strategy) (int64, int64)
	Evaluate(ctx EntryContext) model.Signal
}

type ExitRuleInterface interface {
	DataWindow(strategy model.Strategy) (int64, int64)
	Evaluate(ctx ExitContext) model.Signal
}
