package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-smart-trader/src/model"
)

type ConfigStorageInterface interface {
	GetActiveWallets() []model.Wallet
	GetExchanges() []model.Exchange
	GetStrategies() []model.Strategy
	GetTradableCoins(strategyId int64) []model.StrategyTradableCoin
	GetCoin(coinId int64) (model.Coin, error)
}

const strategyCacheKey = "config-strategies"
const strategyCacheTtl = time.Second * 30

// ConfigRepository reads the trading configuration: wallets, exchanges,
// strategies and the coins each strategy is allowed to trade. Strategies are
// cached for one loop cycle, both workers load them every pass.
type ConfigRepository struct {
	DB  *sql.DB
	RDB *redis.Client
	Ctx *context.Context
}

func (repo *ConfigRepository) GetActiveWallets() []model.Wallet {
	res, err := repo.DB.Query(`
		SELECT
			w.id as Id,
			w.name as Name,
			w.exchange_id as ExchangeId,
			w.api_key as ApiKey,
			w.api_secret as ApiSecret,
			w.force_exit_strategy_id as ForceExitStrategyId,
			w.is_active as IsActive
		FROM wallets w
		WHERE w.is_active = 1
	`)

	if err != nil {
		log.Println(err)

		return make([]model.Wallet, 0)
	}
	defer res.Close()

	list := make([]model.Wallet, 0)

	for res.Next() {
		var wallet model.Wallet
		err := res.Scan(
			&wallet.Id,
			&wallet.Name,
			&wallet.ExchangeId,
			&wallet.ApiKey,
			&wallet.ApiSecret,
			&wallet.ForceExitStrategyId,
			&wallet.IsActive,
		)

		if err != nil {
			log.Println(err)
			continue
		}

		list = append(list, wallet)
	}

	return list
}

func (repo *ConfigRepository) GetExchanges() []model.Exchange {
	res, err := repo.DB.Query(`
		SELECT
			e.id as Id,
			e.name as Name,
			e.market_type as MarketType,
			e.api_base_url as ApiBaseUrl
		FROM exchanges e
	`)

	if err != nil {
		log.Println(err)

		return make([]model.Exchange, 0)
	}
	defer res.Close()

	list := make([]model.Exchange, 0)

	for res.Next() {
		var exchange model.Exchange
		err := res.Scan(
			&exchange.Id,
			&exchange.Name,
			&exchange.MarketType,
			&exchange.ApiBaseUrl,
		)

		if err != nil {
			log.Println(err)
			continue
		}

		list = append(list, exchange)
	}

	return list
}

func (repo *ConfigRepository) GetStrategies() []model.Strategy {
	res := repo.RDB.Get(*repo.Ctx, strategyCacheKey).Val()

	if len(res) > 0 {
		var cached []model.Strategy
		err := json.Unmarshal([]byte(res), &cached)

		if err == nil && len(cached) > 0 {
			return cached
		}
	}

	list := repo.getStrategies()

	if len(list) > 0 {
		encoded, err := json.Marshal(list)
		if err == nil {
			repo.RDB.Set(*repo.Ctx, strategyCacheKey, string(encoded), strategyCacheTtl)
		}
	}

	return list
}

func (repo *ConfigRepository) getStrategies() []model.Strategy {
	res, err := repo.DB.Query(`
		SELECT
			s.id as Id,
			s.name as Name,
			s.kind as Kind,
			s.is_entry_strategy as IsEntryStrategy,
			s.is_active as IsActive,
			s.percent_balance as PercentBalance,
			s.stop_loss_percent as StopLossPercent,
			s.take_profit_percent as TakeProfitPercent,
			s.leverage as Leverage,
			s.time_frame_minutes as TimeFrameMinutes,
			s.only_one_position as OnlyOnePosition
		FROM strategies s
	`)

	if err != nil {
		log.Println(err)

		return make([]model.Strategy, 0)
	}
	defer res.Close()

	list := make([]model.Strategy, 0)

	for res.Next() {
		var strategy model.Strategy
		err := res.Scan(
			&strategy.Id,
			&strategy.Name,
			&strategy.Kind,
			&strategy.IsEntryStrategy,
			&strategy.IsActive,
			&strategy.PercentBalance,
			&strategy.StopLossPercent,
			&strategy.TakeProfitPercent,
			&strategy.Leverage,
			&strategy.TimeFrameMinutes,
			&strategy.OnlyOnePosition,
		)

		if err != nil {
			log.Println(err)
			continue
		}

		list = append(list, strategy)
	}

	return list
}

func (repo *ConfigRepository) GetTradableCoins(strategyId int64) []model.StrategyTradableCoin {
	res, err := repo.DB.Query(`
		SELECT
			c.id as Id,
			c.strategy_id as StrategyId,
			c.coin_id as CoinId,
			c.priority_weight as PriorityWeight,
			c.is_active as IsActive
		FROM strategy_tradable_coins c
		WHERE c.strategy_id = ? AND c.is_active = 1
		ORDER BY c.priority_weight DESC
	`, strategyId)

	if err != nil {
		log.Println(err)

		return make([]model.StrategyTradableCoin, 0)
	}
	defer res.Close()

	list := make([]model.StrategyTradableCoin, 0)

	for res.Next() {
		var coin model.StrategyTradableCoin
		err := res.Scan(
			&coin.Id,
			&coin.StrategyId,
			&coin.CoinId,
			&coin.PriorityWeight,
			&coin.IsActive,
		)

		if err != nil {
			log.Println(err)
			continue
		}

		list = append(list, coin)
	}

	return list
}

func (repo *ConfigRepository) GetCoin(coinId int64) (model.Coin, error) {
	var coin model.Coin

	err := repo.DB.QueryRow(`
		SELECT
			c.id as Id,
			c.name as Name,
			c.base_currency as BaseCurrency,
			c.exchange_info as ExchangeInfo
		FROM coins c
		WHERE c.id = ?
	`, coinId).Scan(
		&coin.Id,
		&coin.Name,
		&coin.BaseCurrency,
		&coin.ExchangeInfo,
	)

	if err != nil {
		return coin, err
	}

	return coin, nil
}
