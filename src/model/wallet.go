package model

type Wallet struct {
	Id                  int64  `json:"id"`
	Name                string `json:"name"`
	ExchangeId          int64  `json:"exchangeId"`
	ApiKey              string `json:"apiKey"`
	ApiSecret           string `json:"apiSecret"`
	ForceExitStrategyId *int64 `json:"forceExitStrategyId"`
	IsActive            bool   `json:"isActive"`
}

const (
	ExchangeNameBinance = "binance"
)

type Exchange struct {
	Id         int64   `json:"id"`
	Name       string  `json:"name"`
	MarketType string  `json:"marketType"`
	ApiBaseUrl *string `json:"apiBaseUrl"`
}
