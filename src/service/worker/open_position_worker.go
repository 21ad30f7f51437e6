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

// OpenPositionWorker is the entry-scan loop: each cycle it evaluates every
// active entry strategy against its tradable coins and fans an actionable
// signal out to every eligible wallet. One wallet's failure never aborts the
// cycle, the next wallet is attempted regardless.
type OpenPositionWorker struct {
	ConfigRepository   repository.ConfigStorageInterface
	PositionRepository repository.PositionStorageInterface
	ExchangeFactory    exchange.ExchangeServiceFactoryInterface
	RuleFactory        strategy.RuleFactoryInterface
	Notifier           service.NotifierInterface
	TimeService        utils.TimeServiceInterface
	Formatter          *utils.Formatter
	Interval           time.Duration
}

func (w *OpenPositionWorker) Run(ctx context.Context) {
	log.Printf("Worker [open-position] started, interval %s", w.Interval)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker [open-position] stopped")

			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *OpenPositionWorker) runCycle(ctx context.Context) {
	wallets := w.ConfigRepository.GetActiveWallets()

	if len(wallets) == 0 {
		return
	}

	exchanges := make(map[int64]model.Exchange)
	for _, exchangeEntity := range w.ConfigRepository.GetExchanges() {
		exchanges[exchangeEntity.Id] = exchangeEntity
	}

	strategies := w.ConfigRepository.GetStrategies()
	defaultExitStrategyId := w.defaultExitStrategyId(strategies)

	for _, strategyEntity := range strategies {
		if !strategyEntity.IsActive || !strategyEntity.IsEntryStrategy {
			continue
		}

		rule, err := w.RuleFactory.EntryRule(strategyEntity.Kind)

		if err != nil {
			log.Printf("Worker [open-position] strategy %s skipped: %s", strategyEntity.Name, err.Error())
			continue
		}

		for _, tradable := range w.ConfigRepository.GetTradableCoins(strategyEntity.Id) {
			// Finish the current coin before honoring a stop request so a
			// position never ends up created without its history entry.
			if ctx.Err() != nil {
				return
			}

			coin, err := w.ConfigRepository.GetCoin(tradable.CoinId)

			if err != nil {
				log.Printf("Worker [open-position] coin %d skipped: %s", tradable.CoinId, err.Error())
				continue
			}

			w.processCoin(strategyEntity, rule, coin, wallets, exchanges, defaultExitStrategyId)
		}
	}
}

// processCoin evaluates the entry rule once per symbol and fans the decision
// out to every wallet that does not already hold this strategy's position.
func (w *OpenPositionWorker) processCoin(
	strategyEntity model.Strategy,
	rule strategy.EntryRuleInterface,
	coin model.Coin,
	wallets []model.Wallet,
	exchanges map[int64]model.Exchange,
	defaultExitStrategyId *int64,
) {
	signals := make(map[string]model.Signal)

	for _, wallet := range wallets {
		exchangeEntity, ok := exchanges[wallet.ExchangeId]

		if !ok {
			log.Printf("Wallet %s skipped: exchange %d is not configured", wallet.Name, wallet.ExchangeId)
			continue
		}

		symbol, err := coin.SymbolFor(exchangeEntity.Name)

		if err != nil {
			log.Printf("Wallet %s skipped: %s", wallet.Name, err.Error())
			continue
		}

		exchangeService, err := w.ExchangeFactory.CreateService(wallet, exchangeEntity)

		if err != nil {
			log.Printf("Wallet %s skipped: %s", wallet.Name, err.Error())
			continue
		}

		signal, evaluated := signals[symbol]

		if !evaluated {
			timeFrame, limit := rule.DataWindow(strategyEntity)

			signal = rule.Evaluate(strategy.EntryContext{
				Coin:     coin,
				Strategy: strategyEntity,
				Symbol:   symbol,
				KLines:   exchangeService.GetKLines(symbol, timeFrame, limit),
			})
			signal.Symbol = symbol
			signals[symbol] = signal

			log.Printf("[%s] %s decision: %s (%s)", symbol, strategyEntity.Name, signal.Type, signal.Reason)
		}

		if signal.IsHold() || !signal.IsOpen() {
			continue
		}

		if w.PositionRepository.HasOpenPosition(wallet.Id, symbol, strategyEntity.Id) {
			log.Printf("[%s] Wallet %s already has an open position for %s", symbol, wallet.Name, strategyEntity.Name)
			continue
		}

		w.openPosition(wallet, exchangeService, strategyEntity, coin, signal, defaultExitStrategyId)
	}
}

func (w *OpenPositionWorker) openPosition(
	wallet model.Wallet,
	exchangeService exchange.ExchangeServiceInterface,
	strategyEntity model.Strategy,
	coin model.Coin,
	signal model.Signal,
	defaultExitStrategyId *int64,
) {
	symbol := signal.Symbol

	balance, err := exchangeService.GetFreeBalance(coin.BaseCurrency)

	if err != nil {
		log.Printf("[%s] Wallet %s skipped: %s", symbol, wallet.Name, err.Error())

		return
	}

	lastPrice := exchangeService.GetLastPrice(symbol)

	if lastPrice <= 0.00 {
		log.Printf("[%s] Wallet %s skipped: last price is not available", symbol, wallet.Name)

		return
	}

	filters, err := exchangeService.GetSymbolFilters(symbol)

	if err != nil {
		log.Printf("[%s] Wallet %s skipped: %s", symbol, wallet.Name, err.Error())

		return
	}

	leverage := signal.Leverage
	if leverage <= 0 {
		leverage = 1
	}

	notional := balance * signal.PercentBalance / 100.00
	quantity := w.Formatter.AdjustToStepSize(notional*float64(leverage)/lastPrice, filters.StepSize)

	if quantity <= 0.00 || quantity < filters.MinQuantity {
		log.Printf(
			"[%s] Wallet %s skipped: quantity %f is below the minimum %f",
			symbol, wallet.Name, quantity, filters.MinQuantity,
		)

		return
	}

	signal.Quantity = quantity
	result := exchangeService.OpenPosition(signal)

	if !result.Success {
		log.Printf("[%s] Wallet %s open order failed: %s", symbol, wallet.Name, result.Error)

		return
	}

	entryPrice := result.AvgPrice
	if entryPrice <= 0.00 {
		entryPrice = lastPrice
	}

	executedQuantity := result.Quantity
	if executedQuantity <= 0.00 {
		executedQuantity = quantity
	}

	now := w.TimeService.GetNow()

	position := model.Position{
		WalletId:        wallet.Id,
		CoinId:          coin.Id,
		EntryStrategyId: strategyEntity.Id,
		ExitStrategyId:  w.exitStrategyId(wallet, defaultExitStrategyId),
		Symbol:          symbol,
		Side:            signal.PositionSide(),
		Status:          model.PositionStatusOpen,
		EntryPrice:      entryPrice,
		EntryValue:      entryPrice * executedQuantity,
		Quantity:        executedQuantity,
		StopLoss:        w.stopLossPrice(signal, entryPrice, filters),
		TakeProfit:      w.takeProfitPrice(signal, entryPrice, filters),
		Leverage:        leverage,
		OpenedAt:        now,
	}

	positionId, err := w.PositionRepository.Create(position)

	if err != nil {
		log.Printf("[%s] Wallet %s: order %d filled but the position was not persisted: %s", symbol, wallet.Name, result.OrderId, err.Error())

		return
	}

	position.Id = *positionId

	historyErr := w.PositionRepository.AddHistory(model.PositionHistory{
		PositionId:     position.Id,
		Action:         model.ActionOpen,
		PercentBalance: signal.PercentBalance,
		Price:          entryPrice,
		Reason:         signal.Reason,
		CreatedAt:      now,
	})

	if historyErr != nil {
		log.Printf("[%s] Position %d is missing its open history entry: %s", symbol, position.Id, historyErr.Error())
	}

	log.Printf("[%s] Wallet %s opened %s: quantity %f at %f, leverage %dx", symbol, wallet.Name, position.Side, executedQuantity, entryPrice, leverage)

	w.Notifier.NotifyOpen(position, wallet, strategyEntity)
	w.Notifier.NotifyHistory(fmt.Sprintf("[%s] OPEN %s | wallet %s | strategy %s | %s", symbol, position.Side, wallet.Name, strategyEntity.Name, signal.Reason))
}

// exitStrategyId binds the exit rule at open time: the wallet's forced exit
// strategy wins, otherwise the first active exit strategy from configuration.
func (w *OpenPositionWorker) exitStrategyId(wallet model.Wallet, defaultExitStrategyId *int64) *int64 {
	if wallet.ForceExitStrategyId != nil {
		return wallet.ForceExitStrategyId
	}

	return defaultExitStrategyId
}

func (w *OpenPositionWorker) defaultExitStrategyId(strategies []model.Strategy) *int64 {
	for _, strategyEntity := range strategies {
		if strategyEntity.IsActive && !strategyEntity.IsEntryStrategy {
			strategyId := strategyEntity.Id

			return &strategyId
		}
	}

	return nil
}

func (w *OpenPositionWorker) stopLossPrice(signal model.Signal, entryPrice float64, filters model.SymbolFilters) *float64 {
	if signal.StopLossPercent <= 0.00 {
		return nil
	}

	price := entryPrice * (1.00 - signal.StopLossPercent/100.00)
	if signal.Type == model.SignalOpenShort {
		price = entryPrice * (1.00 + signal.StopLossPercent/100.00)
	}

	adjusted := w.Formatter.AdjustToTickSize(price, filters.TickSize)

	return &adjusted
}

func (w *OpenPositionWorker) takeProfitPrice(signal model.Signal, entryPrice float64, filters model.SymbolFilters) *float64 {
	if signal.TakeProfitPercent <= 0.00 {
		return nil
	}

	price := entryPrice * (1.00 + signal.TakeProfitPercent/100.00)
	if signal.Type == model.SignalOpenShort {
		price = entryPrice * (1.00 - signal.TakeProfitPercent/100.00)
	}

	adjusted := w.Formatter.AdjustToTickSize(price, filters.TickSize)

	return &adjusted
}
