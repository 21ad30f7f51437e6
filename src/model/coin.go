package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type CoinExchangeInfo struct {
	Exchange string `json:"exchange"`
	Symbol   string `json:"symbol"`
}

type CoinExchangeInfoList []CoinExchangeInfo

func (c *CoinExchangeInfoList) Scan(src interface{}) error {
	return json.Unmarshal(src.([]byte), &c)
}

func (c CoinExchangeInfoList) Value() (driver.Value, error) {
	jsonV, err := json.Marshal(c)
	return string(jsonV), err
}

type Coin struct {
	Id           int64                `json:"id"`
	Name         string               `json:"name"`
	BaseCurrency string               `json:"baseCurrency"`
	ExchangeInfo CoinExchangeInfoList `json:"exchangeInfo"`
}

// SymbolFor resolves the exchange-specific ticker symbol of the coin.
func (c *Coin) SymbolFor(exchangeName string) (string, error) {
	for _, info := range c.ExchangeInfo {
		if strings.EqualFold(info.Exchange, exchangeName) {
			return info.Symbol, nil
		}
	}

	return "", errors.New(fmt.Sprintf("[%s] symbol is not mapped for exchange %s", c.Name, exchangeName))
}
