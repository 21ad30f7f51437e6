package model

type StrategyKind string

const (
	StrategyKindRsiVolumeEntry   StrategyKind = "rsi_volume_entry"
	StrategyKindTrendEntry       StrategyKind = "trend_entry"
	StrategyKindPriceActionEntry StrategyKind = "price_action_entry"
	StrategyKindRsiRatchetExit   StrategyKind = "rsi_ratchet_exit"
	StrategyKindAtrTrailExit     StrategyKind = "atr_trail_exit"
	StrategyKindFibTrailExit     StrategyKind = "fib_trail_exit"
)

type Strategy struct {
	Id                int64        `json:"id"`
	Name              string       `json:"name"`
	Kind              StrategyKind `json:"kind"`
	IsEntryStrategy   bool         `json:"isEntryStrategy"`
	IsActive          bool         `json:"isActive"`
	PercentBalance    *float64     `json:"percentBalance"`
	StopLossPercent   *float64     `json:"stopLossPercent"`
	TakeProfitPercent *float64     `json:"takeProfitPercent"`
	Leverage          *int64       `json:"leverage"`
	TimeFrameMinutes  *int64       `json:"timeFrameMinutes"`
	OnlyOnePosition   bool         `json:"onlyOnePosition"`
}

func (s *Strategy) GetPercentBalance(defaultValue float64) float64 {
	if s.PercentBalance != nil && *s.PercentBalance > 0.00 {
		return *s.PercentBalance
	}

	return defaultValue
}

func (s *Strategy) GetStopLossPercent(defaultValue float64) float64 {
	if s.StopLossPercent != nil && *s.StopLossPercent > 0.00 {
		return *s.StopLossPercent
	}

	return defaultValue
}

func (s *Strategy) GetTakeProfitPercent(defaultValue float64) float64 {
	if s.TakeProfitPercent != nil && *s.TakeProfitPercent > 0.00 {
		return *s.TakeProfitPercent
	}

	return defaultValue
}

func (s *Strategy) GetLeverage(defaultValue int64) int64 {
	if s.Leverage != nil && *s.Leverage > 0 {
		return *s.Leverage
	}

	return defaultValue
}

func (s *Strategy) GetTimeFrameMinutes(defaultValue int64) int64 {
	if s.TimeFrameMinutes != nil && *s.TimeFrameMinutes > 0 {
		return *s.TimeFrameMinutes
	}

	return defaultValue
}

type StrategyTradableCoin struct {
	Id             int64 `json:"id"`
	StrategyId     int64 `json:"strategyId"`
	CoinId         int64 `json:"coinId"`
	PriorityWeight int64 `json:"priorityWeight"`
	IsActive       bool  `json:"isActive"`
}
