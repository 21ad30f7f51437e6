package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-smart-trader/src/model"
)

type PositionStorageInterface interface {
	Create(position model.Position) (*int64, error)
	Update(position model.Position) error
	GetOpenPositions() []model.Position
	HasOpenPosition(walletId int64, symbol string, strategyId int64) bool
	GetHistory(positionId int64) model.HistoryEntries
	AddHistory(history model.PositionHistory) error
}

type PositionRepository struct {
	DB  *sql.DB
	RDB *redis.Client
	Ctx *context.Context
}

func (repo *PositionRepository) Create(position model.Position) (*int64, error) {
	res, err := repo.DB.Exec(`
		INSERT INTO positions SET
			wallet_id = ?,
			coin_id = ?,
			entry_strategy_id = ?,
			exit_strategy_id = ?,
			symbol = ?,
			side = ?,
			status = ?,
			entry_price = ?,
			entry_value = ?,
			quantity = ?,
			stop_loss = ?,
			take_profit = ?,
			leverage = ?,
			profit = ?,
			opened_at = ?
	`,
		position.WalletId,
		position.CoinId,
		position.EntryStrategyId,
		position.ExitStrategyId,
		position.Symbol,
		position.Side,
		position.Status,
		position.EntryPrice,
		position.EntryValue,
		position.Quantity,
		position.StopLoss,
		position.TakeProfit,
		position.Leverage,
		position.Profit,
		position.OpenedAt,
	)

	if err != nil {
		log.Println(err)

		return nil, err
	}

	lastId, err := res.LastInsertId()

	repo.invalidateOpenPositionCache(position.WalletId, position.Symbol, position.EntryStrategyId)

	return &lastId, err
}

func (repo *PositionRepository) Update(position model.Position) error {
	_, err := repo.DB.Exec(`
		UPDATE positions p SET
			p.status = ?,
			p.exit_strategy_id = ?,
			p.quantity = ?,
			p.entry_value = ?,
			p.stop_loss = ?,
			p.take_profit = ?,
			p.profit = ?,
			p.closed_at = ?
		WHERE p.id = ?
	`,
		position.Status,
		position.ExitStrategyId,
		position.Quantity,
		position.EntryValue,
		position.StopLoss,
		position.TakeProfit,
		position.Profit,
		position.ClosedAt,
		position.Id,
	)

	if err != nil {
		log.Println(err)

		return err
	}

	repo.invalidateOpenPositionCache(position.WalletId, position.Symbol, position.EntryStrategyId)

	return nil
}

func (repo *PositionRepository) GetOpenPositions() []model.Position {
	res, err := repo.DB.Query(`
		SELECT
			p.id as Id,
			p.wallet_id as WalletId,
			p.coin_id as CoinId,
			p.entry_strategy_id as EntryStrategyId,
			p.exit_strategy_id as ExitStrategyId,
			p.symbol as Symbol,
			p.side as Side,
			p.status as Status,
			p.entry_price as EntryPrice,
			p.entry_value as EntryValue,
			p.quantity as Quantity,
			p.stop_loss as StopLoss,
			p.take_profit as TakeProfit,
			p.leverage as Leverage,
			p.profit as Profit,
			p.opened_at as OpenedAt,
			p.closed_at as ClosedAt
		FROM positions p
		WHERE p.status = ?
		ORDER BY p.opened_at ASC
	`, model.PositionStatusOpen)

	if err != nil {
		log.Println(err)

		return make([]model.Position, 0)
	}
	defer res.Close()

	list := make([]model.Position, 0)

	for res.Next() {
		var position model.Position
		err := res.Scan(
			&position.Id,
			&position.WalletId,
			&position.CoinId,
			&position.EntryStrategyId,
			&position.ExitStrategyId,
			&position.Symbol,
			&position.Side,
			&position.Status,
			&position.EntryPrice,
			&position.EntryValue,
			&position.Quantity,
			&position.StopLoss,
			&position.TakeProfit,
			&position.Leverage,
			&position.Profit,
			&position.OpenedAt,
			&position.ClosedAt,
		)

		if err != nil {
			log.Println(err)
			continue
		}

		list = append(list, position)
	}

	return list
}

// HasOpenPosition backs the "only one open position per strategy+symbol+wallet"
// invariant. A short-lived negative cache is safe because positions are only
// ever created by the entry loop that performs this check.
func (repo *PositionRepository) HasOpenPosition(walletId int64, symbol string, strategyId int64) bool {
	cacheKey := repo.openPositionCacheKey(walletId, symbol, strategyId)
	res := repo.RDB.Get(*repo.Ctx, cacheKey).Val()

	if res == "1" {
		return true
	}

	var amount int64
	err := repo.DB.QueryRow(`
		SELECT COUNT(p.id) FROM positions p
		WHERE p.wallet_id = ? AND p.symbol = ? AND p.entry_strategy_id = ? AND p.status = ?
	`, walletId, symbol, strategyId, model.PositionStatusOpen).Scan(&amount)

	if err != nil {
		log.Println(err)

		return false
	}

	if amount > 0 {
		repo.RDB.Set(*repo.Ctx, cacheKey, "1", time.Second*30)

		return true
	}

	return false
}

func (repo *PositionRepository) GetHistory(positionId int64) model.HistoryEntries {
	res, err := repo.DB.Query(`
		SELECT
			h.id as Id,
			h.position_id as PositionId,
			h.action as Action,
			h.marker as Marker,
			h.percent_position as PercentPosition,
			h.percent_balance as PercentBalance,
			h.price as Price,
			h.profit as Profit,
			h.reason as Reason,
			h.created_at as CreatedAt
		FROM position_history h
		WHERE h.position_id = ?
		ORDER BY h.created_at ASC, h.id ASC
	`, positionId)

	if err != nil {
		log.Println(err)

		return make(model.HistoryEntries, 0)
	}
	defer res.Close()

	list := make(model.HistoryEntries, 0)

	for res.Next() {
		var entry model.PositionHistory
		err := res.Scan(
			&entry.Id,
			&entry.PositionId,
			&entry.Action,
			&entry.Marker,
			&entry.PercentPosition,
			&entry.PercentBalance,
			&entry.Price,
			&entry.Profit,
			&entry.Reason,
			&entry.CreatedAt,
		)

		if err != nil {
			log.Println(err)
			continue
		}

		list = append(list, entry)
	}

	return list
}

func (repo *PositionRepository) AddHistory(history model.PositionHistory) error {
	_, err := repo.DB.Exec(`
		INSERT INTO position_history SET
			position_id = ?,
			action = ?,
			marker = ?,
			percent_position = ?,
			percent_balance = ?,
			price = ?,
			profit = ?,
			reason = ?,
			created_at = ?
	`,
		history.PositionId,
		history.Action,
		history.Marker,
		history.PercentPosition,
		history.PercentBalance,
		history.Price,
		history.Profit,
		history.Reason,
		history.CreatedAt,
	)

	if err != nil {
		log.Println(err)
	}

	return err
}

func (repo *PositionRepository) openPositionCacheKey(walletId int64, symbol string, strategyId int64) string {
	return fmt.Sprintf("open-position-%d-%s-%d", walletId, symbol, strategyId)
}

func (repo *PositionRepository) invalidateOpenPositionCache(walletId int64, symbol string, strategyId int64) {
	repo.RDB.Del(*repo.Ctx, repo.openPositionCacheKey(walletId, symbol, strategyId)).Val()
}
