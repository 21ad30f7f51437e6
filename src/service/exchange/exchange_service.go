package exchange

import (
	"fmt"

	"gitlab.com/open-soft/go-smart-trader/src/model"
)

type OrderResult struct {
	Success  bool    `json:"success"`
	OrderId  int64   `json:"orderId"`
	AvgPrice float64 `json:"avgPrice"`
	Quantity float64 `json:"quantity"`
	Error    string  `json:"error"`
}

func FailedOrderResult(err error) OrderResult {
	return OrderResult{
		Success: false,
		Error:   err.Error(),
	}
}

// ExchangeServiceInterface is the wire contract the workers execute
// decisions against. Implementations wrap one wallet's credentials.
type ExchangeServiceInterface interface {
	GetFreeBalance(asset string) (float64, error)
	GetLastPrice(symbol string) float64
	GetKLines(symbol string, timeFrameMinutes int64, limit int64) model.KLineBatch
	GetSymbolFilters(symbol string) (model.SymbolFilters, error)
	OpenPosition(signal model.Signal) OrderResult
	ClosePosition(symbol string, positionSide string, quantity float64) OrderResult
	ModifyPosition(symbol string, positionSide string, quantity float64, reduce bool) OrderResult
	UpdateStopLoss(symbol string, positionSide string, stopPrice float64) bool
}

func LastPriceCacheKey(symbol string) string {
	return fmt.Sprintf("futures-last-price-%s", symbol)
}
