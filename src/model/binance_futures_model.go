package model

import (
	"encoding/json"
	"strconv"
)

const (
	FuturesFilterTypeLotSize = "LOT_SIZE"
	FuturesFilterTypePrice   = "PRICE_FILTER"

	FuturesOrderStatusNew             = "NEW"
	FuturesOrderStatusFilled          = "FILLED"
	FuturesOrderStatusPartiallyFilled = "PARTIALLY_FILLED"
)

type FuturesError struct {
	Code int64  `json:"code"`
	Msg  string `json:"msg"`
}

type FuturesBalance struct {
	Asset            string `json:"asset"`
	AvailableBalance Price  `json:"availableBalance"`
}

type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  Price  `json:"price"`
}

type FuturesOrder struct {
	OrderId       int64  `json:"orderId"`
	Symbol        string `json:"symbol"`
	ClientOrderId string `json:"clientOrderId"`
	Status        string `json:"status"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	AvgPrice      Price  `json:"avgPrice"`
	OrigQty       Volume `json:"origQty"`
	ExecutedQty   Volume `json:"executedQty"`
}

func (o *FuturesOrder) IsFilled() bool {
	return o.Status == FuturesOrderStatusFilled
}

type FuturesFilter struct {
	FilterType  string `json:"filterType"`
	StepSize    *Price `json:"stepSize"`
	MinQuantity *Price `json:"minQty"`
	TickSize    *Price `json:"tickSize"`
}

type FuturesSymbolInfo struct {
	Symbol  string          `json:"symbol"`
	Status  string          `json:"status"`
	Filters []FuturesFilter `json:"filters"`
}

func (s *FuturesSymbolInfo) ToSymbolFilters() SymbolFilters {
	filters := SymbolFilters{
		Symbol: s.Symbol,
	}

	for _, filter := range s.Filters {
		switch filter.FilterType {
		case FuturesFilterTypeLotSize:
			if filter.StepSize != nil {
				filters.StepSize = filter.StepSize.Value()
			}
			if filter.MinQuantity != nil {
				filters.MinQuantity = filter.MinQuantity.Value()
			}
		case FuturesFilterTypePrice:
			if filter.TickSize != nil {
				filters.TickSize = filter.TickSize.Value()
			}
		}
	}

	return filters
}

type FuturesExchangeInfo struct {
	Symbols []FuturesSymbolInfo `json:"symbols"`
}

// FuturesKLine is one bar of the futures klines endpoint, which answers
// with positional arrays instead of objects.
type FuturesKLine struct {
	OpenTime  TimestampMilli
	Open      string
	High      string
	Low       string
	Close     string
	Volume    string
	CloseTime TimestampMilli
}

func (k *FuturesKLine) UnmarshalJSON(data []byte) error {
	var s []json.RawMessage
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	dest := []interface{}{
		&k.OpenTime,
		&k.Open,
		&k.High,
		&k.Low,
		&k.Close,
		&k.Volume,
		&k.CloseTime,
	}

	for i := 0; i < len(dest) && i < len(s); i++ {
		if err := json.Unmarshal(s[i], dest[i]); err != nil {
			return err
		}
	}

	return nil
}

func (k *FuturesKLine) ToKLine(symbol string) KLine {
	openPrice, _ := strconv.ParseFloat(k.Open, 64)
	highPrice, _ := strconv.ParseFloat(k.High, 64)
	lowPrice, _ := strconv.ParseFloat(k.Low, 64)
	closePrice, _ := strconv.ParseFloat(k.Close, 64)
	volume, _ := strconv.ParseFloat(k.Volume, 64)

	return KLine{
		Symbol:   symbol,
		OpenTime: k.OpenTime,
		Open:     openPrice,
		High:     highPrice,
		Low:      lowPrice,
		Close:    closePrice,
		Volume:   volume,
	}
}

type MiniTickerEvent struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	Close     Price  `json:"c"`
}

type SocketStreamsRequest struct {
	Id     int64    `json:"id"`
	Method string   `json:"method"`
	Params []string `json:"params"`
}
