package worker

import (
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/exchange"
	"gitlab.com/open-soft/go-smart-trader/src/service/strategy"
)

type ConfigStorageMock struct {
	mock.Mock
}

func (m *ConfigStorageMock) GetActiveWallets() []model.Wallet {
	args := m.Called()
	return args.Get(0).([]model.Wallet)
}

func (m *ConfigStorageMock) GetExchanges() []model.Exchange {
	args := m.Called()
	return args.Get(0).([]model.Exchange)
}

func (m *ConfigStorageMock) GetStrategies() []model.Strategy {
	args := m.Called()
	return args.Get(0).([]model.Strategy)
}

func (m *ConfigStorageMock) GetTradableCoins(strategyId int64) []model.StrategyTradableCoin {
	args := m.Called(strategyId)
	return args.Get(0).([]model.StrategyTradableCoin)
}

func (m *ConfigStorageMock) GetCoin(coinId int64) (model.Coin, error) {
	args := m.Called(coinId)
	return args.Get(0).(model.Coin), args.Error(1)
}

type PositionStorageMock struct {
	mock.Mock
}

func (m *PositionStorageMock) Create(position model.Position) (*int64, error) {
	args := m.Called(position)
	id := int64(args.Int(0))
	return &id, args.Error(1)
}

func (m *PositionStorageMock) Update(position model.Position) error {
	args := m.Called(position)
	return args.Error(0)
}

func (m *PositionStorageMock) GetOpenPositions() []model.Position {
	args := m.Called()
	return args.Get(0).([]model.Position)
}

func (m *PositionStorageMock) HasOpenPosition(walletId int64, symbol string, strategyId int64) bool {
	args := m.Called(walletId, symbol, strategyId)
	return args.Bool(0)
}

func (m *PositionStorageMock) GetHistory(positionId int64) model.HistoryEntries {
	args := m.Called(positionId)
	return args.Get(0).(model.HistoryEntries)
}

func (m *PositionStorageMock) AddHistory(history model.PositionHistory) error {
	args := m.Called(history)
	return args.Error(0)
}

type ExchangeServiceMock struct {
	mock.Mock
}

func (m *ExchangeServiceMock) GetFreeBalance(asset string) (float64, error) {
	args := m.Called(asset)
	return args.Get(0).(float64), args.Error(1)
}

func (m *ExchangeServiceMock) GetLastPrice(symbol string) float64 {
	args := m.Called(symbol)
	return args.Get(0).(float64)
}

func (m *ExchangeServiceMock) GetKLines(symbol string, timeFrameMinutes int64, limit int64) model.KLineBatch {
	args := m.Called(symbol, timeFrameMinutes, limit)
	return args.Get(0).(model.KLineBatch)
}

func (m *ExchangeServiceMock) GetSymbolFilters(symbol string) (model.SymbolFilters, error) {
	args := m.Called(symbol)
	return args.Get(0).(model.SymbolFilters), args.Error(1)
}

func (m *ExchangeServiceMock) OpenPosition(signal model.Signal) exchange.OrderResult {
	args := m.Called(signal)
	return args.Get(0).(exchange.OrderResult)
}

func (m *ExchangeServiceMock) ClosePosition(symbol string, positionSide string, quantity float64) exchange.OrderResult {
	args := m.Called(symbol, positionSide, quantity)
	return args.Get(0).(exchange.OrderResult)
}

func (m *ExchangeServiceMock) ModifyPosition(symbol string, positionSide string, quantity float64, reduce bool) exchange.OrderResult {
	args := m.Called(symbol, positionSide, quantity, reduce)
	return args.Get(0).(exchange.OrderResult)
}

func (m *ExchangeServiceMock) UpdateStopLoss(symbol string, positionSide string, stopPrice float64) bool {
	args := m.Called(symbol, positionSide, stopPrice)
	return args.Bool(0)
}

type ExchangeFactoryMock struct {
	mock.Mock
}

func (m *ExchangeFactoryMock) CreateService(wallet model.Wallet, exchangeEntity model.Exchange) (exchange.ExchangeServiceInterface, error) {
	args := m.Called(wallet, exchangeEntity)
	return args.Get(0).(exchange.ExchangeServiceInterface), args.Error(1)
}

type RuleFactoryMock struct {
	mock.Mock
}

func (m *RuleFactoryMock) EntryRule(kind model.StrategyKind) (strategy.EntryRuleInterface, error) {
	args := m.Called(kind)
	return args.Get(0).(strategy.EntryRuleInterface), args.Error(1)
}

func (m *RuleFactoryMock) ExitRule(kind model.StrategyKind) (strategy.ExitRuleInterface, error) {
	args := m.Called(kind)
	return args.Get(0).(strategy.ExitRuleInterface), args.Error(1)
}

type EntryRuleMock struct {
	mock.Mock
}

func (m *EntryRuleMock) DataWindow(strategyEntity model.Strategy) (int64, int64) {
	args := m.Called(strategyEntity)
	return args.Get(0).(int64), args.Get(1).(int64)
}

func (m *EntryRuleMock) Evaluate(ctx strategy.EntryContext) model.Signal {
	args := m.Called(ctx)
	return args.Get(0).(model.Signal)
}

type ExitRuleMock struct {
	mock.Mock
}

func (m *ExitRuleMock) DataWindow(strategyEntity model.Strategy) (int64, int64) {
	args := m.Called(strategyEntity)
	return args.Get(0).(int64), args.Get(1).(int64)
}

func (m *ExitRuleMock) Evaluate(ctx strategy.ExitContext) model.Signal {
	args := m.Called(ctx)
	return args.Get(0).(model.Signal)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) NotifyOpen(position model.Position, wallet model.Wallet, strategyEntity model.Strategy) {
	m.Called(position, wallet, strategyEntity)
}

func (m *NotifierMock) NotifyAction(position model.Position, history model.PositionHistory) {
	m.Called(position, history)
}

func (m *NotifierMock) NotifyHistory(message string) {
	m.Called(message)
}
