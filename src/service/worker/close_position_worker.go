package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/repository"
	"gitlab.com/open-soft/go-smart-trader/src/service"
	"gitlab.com/open-soft/go-smart-trader/src/service/exchange"
	"gitlab.com/open-soft/go-smart-trader/src/service/strategy"
	"gitlab.com/open-soft/go-smart-trader/src/utils"
)

// ClosePositionWorker is the exit-scan loop: each cycle it runs every open
// position through its exit rule and executes the resulting decision. State
// is persisted only after the exchange confirmed the action, so a failed
// order leaves the position untouched and the decision is retried next cycle.
type ClosePositionWorker struct {
	ConfigRepository   repository.ConfigStorageInterface
	PositionRepository repository.PositionStorageInterface
	ExchangeFactory    exchange.ExchangeServiceFactoryInterface
	RuleFactory        strategy.RuleFactoryInterface
	Notifier           service.NotifierInterface
	TimeService        utils.TimeServiceInterface
	Formatter          *utils.Formatter
	Interval           time.Duration
}

func (w *ClosePositionWorker) Run(ctx context.Context) {
	log.Printf("Worker [close-position] started, interval %s", w.Interval)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker [close-position] stopped")

			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *ClosePositionWorker) runCycle(ctx context.Context) {
	positions := w.PositionRepository.GetOpenPositions()

	if len(positions) == 0 {
		return
	}

	wallets := make(map[int64]model.Wallet)
	for _, wallet := range w.ConfigRepository.GetActiveWallets() {
		wallets[wallet.Id] = wallet
	}

	exchanges := make(map[int64]model.Exchange)
	for _, exchangeEntity := range w.ConfigRepository.GetExchanges() {
		exchanges[exchangeEntity.Id] = exchangeEntity
	}

	strategies := make(map[int64]model.Strategy)
	for _, strategyEntity := range w.ConfigRepository.GetStrategies() {
		strategies[strategyEntity.Id] = strategyEntity
	}

	for _, position := range positions {
		// A stop request is honored between positions, never in the middle
		// of one, so a mutation and its history entry stay paired.
		if ctx.Err() != nil {
			return
		}

		w.processPosition(position, wallets, exchanges, strategies)
	}
}

func (w *ClosePositionWorker) processPosition(
	position model.Position,
	wallets map[int64]model.Wallet,
	exchanges map[int64]model.Exchange,
	strategies map[int64]model.Strategy,
) {
	wallet, ok := wallets[position.WalletId]

	if !ok {
		log.Printf("[%s] Position %d skipped: wallet %d is missing or inactive", position.Symbol, position.Id, position.WalletId)

		return
	}

	exchangeEntity, ok := exchanges[wallet.ExchangeId]

	if !ok {
		log.Printf("[%s] Position %d skipped: exchange %d is not configured", position.Symbol, position.Id, wallet.ExchangeId)

		return
	}

	exitStrategyId := position.ExitStrategyId
	if wallet.ForceExitStrategyId != nil {
		exitStrategyId = wallet.ForceExitStrategyId
	}

	if exitStrategyId == nil {
		log.Printf("[%s] Position %d skipped: no exit strategy is bound", position.Symbol, position.Id)

		return
	}

	strategyEntity, ok := strategies[*exitStrategyId]

	if !ok {
		log.Printf("[%s] Position %d skipped: exit strategy %d is missing", position.Symbol, position.Id, *exitStrategyId)

		return
	}

	rule, err := w.RuleFactory.ExitRule(strategyEntity.Kind)

	if err != nil {
		log.Printf("[%s] Position %d skipped: %s", position.Symbol, position.Id, err.Error())

		return
	}

	exchangeService, err := w.ExchangeFactory.CreateService(wallet, exchangeEntity)

	if err != nil {
		log.Printf("[%s] Position %d skipped: %s", position.Symbol, position.Id, err.Error())

		return
	}

	timeFrame, limit := rule.DataWindow(strategyEntity)

	signal := rule.Evaluate(strategy.ExitContext{
		Position:     position,
		Strategy:     strategyEntity,
		KLines:       exchangeService.GetKLines(position.Symbol, timeFrame, limit),
		History:      w.PositionRepository.GetHistory(position.Id),
		CurrentPrice: exchangeService.GetLastPrice(position.Symbol),
		Now:          w.TimeService.GetNow(),
	})

	if signal.IsHold() {
		return
	}

	log.Printf("[%s] Position %d decision: %s (%s)", position.Symbol, position.Id, signal.Type, signal.Reason)

	switch signal.Type {
	case model.SignalCloseByTakeProfit, model.SignalCloseByStopLoss:
		w.closePosition(exchangeService, position, signal)
	case model.SignalPartialClose:
		w.partialClose(exchangeService, position, signal)
	case model.SignalChangeStopLoss:
		w.changeStopLoss(exchangeService, position, signal)
	case model.SignalRollbackBuy:
		w.rollbackBuy(exchangeService, position, signal)
	}
}

func (w *ClosePositionWorker) closePosition(
	exchangeService exchange.ExchangeServiceInterface,
	position model.Position,
	signal model.Signal,
) {
	result := exchangeService.ClosePosition(position.Symbol, position.Side, position.Quantity)

	if !result.Success {
		log.Printf("[%s] Position %d close order failed: %s", position.Symbol, position.Id, result.Error)

		return
	}

	closePrice := result.AvgPrice
	if closePrice <= 0.00 {
		closePrice = exchangeService.GetLastPrice(position.Symbol)
	}

	profit := position.ProfitAt(closePrice, position.Quantity)
	now := w.TimeService.GetNow()

	position.Status = model.PositionStatusClosed
	position.Quantity = 0.00
	position.Profit += profit
	position.ClosedAt = &now

	w.persist(position, model.PositionHistory{
		PositionId: position.Id,
		Action:     model.ActionTypeForSignal(signal.Type),
		Price:      closePrice,
		Profit:     profit,
		Reason:     signal.Reason,
		CreatedAt:  now,
	})
}

func (w *ClosePositionWorker) partialClose(
	exchangeService exchange.ExchangeServiceInterface,
	position model.Position,
	signal model.Signal,
) {
	filters, err := exchangeService.GetSymbolFilters(position.Symbol)

	if err != nil {
		log.Printf("[%s] Position %d partial close skipped: %s", position.Symbol, position.Id, err.Error())

		return
	}

	quantity := w.Formatter.AdjustToStepSize(position.Quantity*signal.PercentPosition/100.00, filters.StepSize)

	if quantity <= 0.00 || quantity < filters.MinQuantity {
		log.Printf(
			"[%s] Position %d partial close skipped: quantity %f is below the minimum %f",
			position.Symbol, position.Id, quantity, filters.MinQuantity,
		)

		return
	}

	result := exchangeService.ModifyPosition(position.Symbol, position.Side, quantity, true)

	if !result.Success {
		log.Printf("[%s] Position %d partial close failed: %s", position.Symbol, position.Id, result.Error)

		return
	}

	closePrice := result.AvgPrice
	if closePrice <= 0.00 {
		closePrice = exchangeService.GetLastPrice(position.Symbol)
	}

	executedQuantity := result.Quantity
	if executedQuantity <= 0.00 {
		executedQuantity = quantity
	}

	profit := position.ProfitAt(closePrice, executedQuantity)
	now := w.TimeService.GetNow()

	position.Quantity -= executedQuantity
	position.Profit += profit

	// A remainder below one lot step can never be closed on its own, the
	// partial drained the position.
	if w.Formatter.AdjustToStepSize(position.Quantity, filters.StepSize) <= 0.00 {
		position.Status = model.PositionStatusClosed
		position.Quantity = 0.00
		position.ClosedAt = &now
	}

	if signal.NewStopLossPrice > 0.00 && position.IsOpened() {
		stopPrice := w.Formatter.AdjustToTickSize(signal.NewStopLossPrice, filters.TickSize)

		if exchangeService.UpdateStopLoss(position.Symbol, position.Side, stopPrice) {
			position.StopLoss = &stopPrice
		}
	}

	w.persist(position, model.PositionHistory{
		PositionId:      position.Id,
		Action:          model.ActionPartialClose,
		Marker:          signal.Marker,
		PercentPosition: signal.PercentPosition,
		Price:           closePrice,
		Profit:          profit,
		Reason:          signal.Reason,
		CreatedAt:       now,
	})
}

func (w *ClosePositionWorker) changeStopLoss(
	exchangeService exchange.ExchangeServiceInterface,
	position model.Position,
	signal model.Signal,
) {
	filters, err := exchangeService.GetSymbolFilters(position.Symbol)

	if err != nil {
		log.Printf("[%s] Position %d stop update skipped: %s", position.Symbol, position.Id, err.Error())

		return
	}

	stopPrice := w.Formatter.AdjustToTickSize(signal.NewStopLossPrice, filters.TickSize)

	if !exchangeService.UpdateStopLoss(position.Symbol, position.Side, stopPrice) {
		return
	}

	position.StopLoss = &stopPrice

	w.persist(position, model.PositionHistory{
		PositionId: position.Id,
		Action:     model.ActionChangeStopLoss,
		Marker:     signal.Marker,
		Price:      stopPrice,
		Reason:     signal.Reason,
		CreatedAt:  w.TimeService.GetNow(),
	})
}

func (w *ClosePositionWorker) rollbackBuy(
	exchangeService exchange.ExchangeServiceInterface,
	position model.Position,
	signal model.Signal,
) {
	coin, err := w.ConfigRepository.GetCoin(position.CoinId)

	if err != nil {
		log.Printf("[%s] Position %d re-buy skipped: %s", position.Symbol, position.Id, err.Error())

		return
	}

	balance, err := exchangeService.GetFreeBalance(coin.BaseCurrency)

	if err != nil {
		log.Printf("[%s] Position %d re-buy skipped: %s", position.Symbol, position.Id, err.Error())

		return
	}

	lastPrice := exchangeService.GetLastPrice(position.Symbol)

	if lastPrice <= 0.00 {
		log.Printf("[%s] Position %d re-buy skipped: last price is not available", position.Symbol, position.Id)

		return
	}

	filters, err := exchangeService.GetSymbolFilters(position.Symbol)

	if err != nil {
		log.Printf("[%s] Position %d re-buy skipped: %s", position.Symbol, position.Id, err.Error())

		return
	}

	notional := balance * signal.PercentBalance / 100.00
	quantity := w.Formatter.AdjustToStepSize(notional*float64(position.GetLeverage())/lastPrice, filters.StepSize)

	if quantity <= 0.00 || quantity < filters.MinQuantity {
		log.Printf(
			"[%s] Position %d re-buy skipped: quantity %f is below the minimum %f",
			position.Symbol, position.Id, quantity, filters.MinQuantity,
		)

		return
	}

	result := exchangeService.ModifyPosition(position.Symbol, position.Side, quantity, false)

	if !result.Success {
		log.Printf("[%s] Position %d re-buy failed: %s", position.Symbol, position.Id, result.Error)

		return
	}

	buyPrice := result.AvgPrice
	if buyPrice <= 0.00 {
		buyPrice = lastPrice
	}

	executedQuantity := result.Quantity
	if executedQuantity <= 0.00 {
		executedQuantity = quantity
	}

	totalQuantity := position.Quantity + executedQuantity
	position.EntryPrice = (position.EntryPrice*position.Quantity + buyPrice*executedQuantity) / totalQuantity
	position.EntryValue += buyPrice * executedQuantity
	position.Quantity = totalQuantity

	w.persist(position, model.PositionHistory{
		PositionId:     position.Id,
		Action:         model.ActionRollbackBuy,
		Marker:         signal.Marker,
		PercentBalance: signal.PercentBalance,
		Price:          buyPrice,
		Reason:         signal.Reason,
		CreatedAt:      w.TimeService.GetNow(),
	})
}

// persist writes the mutated position first and its ledger entry second: a
// crash in between leaves a detectable gap instead of a phantom marker that
// would suppress the action forever.
func (w *ClosePositionWorker) persist(position model.Position, history model.PositionHistory) {
	if err := w.PositionRepository.Update(position); err != nil {
		log.Printf("[%s] Position %d was executed on the exchange but not persisted: %s", position.Symbol, position.Id, err.Error())

		return
	}

	if err := w.PositionRepository.AddHistory(history); err != nil {
		log.Printf("[%s] Position %d is missing a history entry for %s: %s", position.Symbol, position.Id, history.Action, err.Error())
	}

	w.Notifier.NotifyAction(position, history)
	w.Notifier.NotifyHistory(fmt.Sprintf(
		"[%s] %s position %d at %.6f | profit %.4f | %s",
		position.Symbol, history.Action, position.Id, history.Price, history.Profit, history.Reason,
	))
}
