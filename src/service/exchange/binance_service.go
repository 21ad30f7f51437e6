package exchange

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/utils"
)

type BinanceFuturesAPIInterface interface {
	GetAccountBalance() ([]model.FuturesBalance, error)
	GetTickerPrice(symbol string) (model.TickerPrice, error)
	GetKLinesCached(symbol string, interval string, limit int64) []model.FuturesKLine
	GetSymbolFilters(symbol string) (model.SymbolFilters, error)
	ChangeMarginType(symbol string, marginType string) error
	ChangeLeverage(symbol string, leverage int64) error
	PlaceMarketOrder(symbol string, side string, quantity float64, reduceOnly bool) (model.FuturesOrder, error)
	PlaceStopMarketOrder(symbol string, side string, stopPrice float64) (model.FuturesOrder, error)
	CancelAllOrders(symbol string) error
}

type BinanceService struct {
	Binance   BinanceFuturesAPIInterface
	RDB       *redis.Client
	Ctx       *context.Context
	Formatter *utils.Formatter
}

func (s *BinanceService) GetFreeBalance(asset string) (float64, error) {
	balances, err := s.Binance.GetAccountBalance()

	if err != nil {
		return 0.00, err
	}

	for _, balance := range balances {
		if balance.Asset == asset {
			return balance.AvailableBalance.Value(), nil
		}
	}

	return 0.00, errors.New(fmt.Sprintf("Futures balance for %s is not available", asset))
}

// GetLastPrice prefers the websocket-fed cache and falls back to the REST
// ticker. Zero means the price is unknown, callers treat it as "skip".
func (s *BinanceService) GetLastPrice(symbol string) float64 {
	res := s.RDB.Get(*s.Ctx, LastPriceCacheKey(symbol)).Val()

	if len(res) > 0 {
		price, err := strconv.ParseFloat(res, 64)
		if err == nil && price > 0.00 {
			return price
		}
	}

	ticker, err := s.Binance.GetTickerPrice(symbol)

	if err != nil {
		log.Printf("[%s] Last price is not available: %s", symbol, err.Error())

		return 0.00
	}

	return ticker.Price.Value()
}

func (s *BinanceService) GetKLines(symbol string, timeFrameMinutes int64, limit int64) model.KLineBatch {
	interval := s.Formatter.MinutesToBinanceInterval(timeFrameMinutes)
	history := s.Binance.GetKLinesCached(symbol, interval, limit)

	batch := make(model.KLineBatch, 0, len(history))

	for _, kLine := range history {
		batch = append(batch, kLine.ToKLine(symbol))
	}

	return batch
}

func (s *BinanceService) GetSymbolFilters(symbol string) (model.SymbolFilters, error) {
	return s.Binance.GetSymbolFilters(symbol)
}

func (s *BinanceService) OpenPosition(signal model.Signal) OrderResult {
	marginErr := s.Binance.ChangeMarginType(signal.Symbol, "ISOLATED")

	if marginErr != nil {
		// Fails when a position already exists on the symbol, not fatal.
		log.Printf("[%s] Could not set ISOLATED margin: %s", signal.Symbol, marginErr.Error())
	}

	if signal.Leverage > 0 {
		leverageErr := s.Binance.ChangeLeverage(signal.Symbol, signal.Leverage)

		if leverageErr != nil {
			return FailedOrderResult(errors.New(fmt.Sprintf(
				"[%s] Failed to set leverage %dx: %s", signal.Symbol, signal.Leverage, leverageErr.Error(),
			)))
		}
	}

	side := "BUY"
	if signal.Type == model.SignalOpenShort {
		side = "SELL"
	}

	order, err := s.Binance.PlaceMarketOrder(signal.Symbol, side, signal.Quantity, false)

	if err != nil {
		return FailedOrderResult(err)
	}

	return s.orderResult(order)
}

func (s *BinanceService) ClosePosition(symbol string, positionSide string, quantity float64) OrderResult {
	order, err := s.Binance.PlaceMarketOrder(symbol, closingSide(positionSide), quantity, true)

	if err != nil {
		return FailedOrderResult(err)
	}

	return s.orderResult(order)
}

// ModifyPosition shrinks (reduce) or grows a running position with a market
// order. Reducing orders are reduceOnly so they can never flip the side.
func (s *BinanceService) ModifyPosition(symbol string, positionSide string, quantity float64, reduce bool) OrderResult {
	side := openingSide(positionSide)
	if reduce {
		side = closingSide(positionSide)
	}

	order, err := s.Binance.PlaceMarketOrder(symbol, side, quantity, reduce)

	if err != nil {
		return FailedOrderResult(err)
	}

	return s.orderResult(order)
}

func (s *BinanceService) UpdateStopLoss(symbol string, positionSide string, stopPrice float64) bool {
	cancelErr := s.Binance.CancelAllOrders(symbol)

	if cancelErr != nil {
		log.Printf("[%s] Could not cancel open orders before stop-loss update: %s", symbol, cancelErr.Error())
	}

	_, err := s.Binance.PlaceStopMarketOrder(symbol, closingSide(positionSide), stopPrice)

	if err != nil {
		log.Printf("[%s] Failed to place stop-loss order at %f: %s", symbol, stopPrice, err.Error())

		return false
	}

	return true
}

func (s *BinanceService) orderResult(order model.FuturesOrder) OrderResult {
	return OrderResult{
		Success:  true,
		OrderId:  order.OrderId,
		AvgPrice: order.AvgPrice.Value(),
		Quantity: order.ExecutedQty.Value(),
	}
}

func openingSide(positionSide string) string {
	if positionSide == model.PositionSideShort {
		return "SELL"
	}

	return "BUY"
}

func closingSide(positionSide string) string {
	if positionSide == model.PositionSideShort {
		return "BUY"
	}

	return "SELL"
}
