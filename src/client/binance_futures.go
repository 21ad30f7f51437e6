package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-smart-trader/src/model"
)

const klineCacheTtl = time.Second * 30
const filterCacheTtl = time.Hour

// BinanceFutures talks to the Binance USD-M futures REST API. Market data
// reads are cached in redis with short TTLs so that the entry and exit loops
// do not hammer the weight-limited endpoints within one cycle.
type BinanceFutures struct {
	ApiKey         string
	ApiSecret      string
	DestinationURI string
	HttpClient     HttpClientInterface
	RDB            *redis.Client
	Ctx            *context.Context
}

func (b *BinanceFutures) GetAccountBalance() ([]model.FuturesBalance, error) {
	response, err := b.HttpClient.Get(
		fmt.Sprintf("%s/fapi/v2/balance?%s", b.DestinationURI, b.signedQuery(url.Values{})),
		b.authHeaders(),
	)

	if err != nil {
		return nil, err
	}

	var balances []model.FuturesBalance
	err = json.Unmarshal(response, &balances)

	if err != nil {
		return nil, err
	}

	return balances, nil
}

func (b *BinanceFutures) GetTickerPrice(symbol string) (model.TickerPrice, error) {
	var ticker model.TickerPrice

	params := url.Values{}
	params.Set("symbol", symbol)

	response, err := b.HttpClient.Get(
		fmt.Sprintf("%s/fapi/v1/ticker/price?%s", b.DestinationURI, params.Encode()),
		map[string]string{},
	)

	if err != nil {
		return ticker, err
	}

	err = json.Unmarshal(response, &ticker)

	if err != nil {
		return ticker, err
	}

	return ticker, nil
}

func (b *BinanceFutures) GetKLines(symbol string, interval string, limit int64) []model.FuturesKLine {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.FormatInt(limit, 10))

	response, err := b.HttpClient.Get(
		fmt.Sprintf("%s/fapi/v1/klines?%s", b.DestinationURI, params.Encode()),
		map[string]string{},
	)

	list := make([]model.FuturesKLine, 0)

	if err != nil {
		return list
	}

	err = json.Unmarshal(response, &list)

	if err != nil {
		return make([]model.FuturesKLine, 0)
	}

	return list
}

func (b *BinanceFutures) GetKLinesCached(symbol string, interval string, limit int64) []model.FuturesKLine {
	cacheKey := fmt.Sprintf("futures-klines-%s-%s-%d", symbol, interval, limit)
	res := b.RDB.Get(*b.Ctx, cacheKey).Val()

	if len(res) > 0 {
		var cached []model.FuturesKLine
		err := json.Unmarshal([]byte(res), &cached)

		if err == nil && len(cached) > 0 {
			return cached
		}
	}

	kLines := b.GetKLines(symbol, interval, limit)

	if len(kLines) > 0 {
		encoded, err := json.Marshal(kLines)
		if err == nil {
			b.RDB.Set(*b.Ctx, cacheKey, string(encoded), klineCacheTtl)
		}
	}

	return kLines
}

func (b *BinanceFutures) GetSymbolFilters(symbol string) (model.SymbolFilters, error) {
	var filters model.SymbolFilters

	cacheKey := fmt.Sprintf("futures-filters-%s", symbol)
	res := b.RDB.Get(*b.Ctx, cacheKey).Val()

	if len(res) > 0 {
		err := json.Unmarshal([]byte(res), &filters)
		if err == nil && filters.Symbol == symbol {
			return filters, nil
		}
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	response, err := b.HttpClient.Get(
		fmt.Sprintf("%s/fapi/v1/exchangeInfo?%s", b.DestinationURI, params.Encode()),
		map[string]string{},
	)

	if err != nil {
		return filters, err
	}

	var exchangeInfo model.FuturesExchangeInfo
	err = json.Unmarshal(response, &exchangeInfo)

	if err != nil {
		return filters, err
	}

	for _, symbolInfo := range exchangeInfo.Symbols {
		if symbolInfo.Symbol == symbol {
			filters = symbolInfo.ToSymbolFilters()
			encoded, encodeErr := json.Marshal(filters)
			if encodeErr == nil {
				b.RDB.Set(*b.Ctx, cacheKey, string(encoded), filterCacheTtl)
			}

			return filters, nil
		}
	}

	return filters, errors.New(fmt.Sprintf("[%s] symbol is not listed on binance futures", symbol))
}

func (b *BinanceFutures) ChangeMarginType(symbol string, marginType string) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("marginType", marginType)

	_, err := b.HttpClient.Post(
		fmt.Sprintf("%s/fapi/v1/marginType", b.DestinationURI),
		b.signedQuery(params),
		b.authHeaders(),
	)

	return err
}

func (b *BinanceFutures) ChangeLeverage(symbol string, leverage int64) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("leverage", strconv.FormatInt(leverage, 10))

	_, err := b.HttpClient.Post(
		fmt.Sprintf("%s/fapi/v1/leverage", b.DestinationURI),
		b.signedQuery(params),
		b.authHeaders(),
	)

	return err
}

func (b *BinanceFutures) PlaceMarketOrder(symbol string, side string, quantity float64, reduceOnly bool) (model.FuturesOrder, error) {
	var order model.FuturesOrder

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", side)
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(quantity, 'f', -1, 64))
	params.Set("newClientOrderId", uuid.New().String())
	params.Set("newOrderRespType", "RESULT")

	if reduceOnly {
		params.Set("reduceOnly", "true")
	}

	response, err := b.HttpClient.Post(
		fmt.Sprintf("%s/fapi/v1/order", b.DestinationURI),
		b.signedQuery(params),
		b.authHeaders(),
	)

	if err != nil {
		return order, err
	}

	err = json.Unmarshal(response, &order)

	if err != nil {
		return order, err
	}

	return order, nil
}

// PlaceStopMarketOrder places a closePosition STOP_MARKET order that acts
// as the position stop-loss on the exchange side.
func (b *BinanceFutures) PlaceStopMarketOrder(symbol string, side string, stopPrice float64) (model.FuturesOrder, error) {
	var order model.FuturesOrder

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", side)
	params.Set("type", "STOP_MARKET")
	params.Set("stopPrice", strconv.FormatFloat(stopPrice, 'f', -1, 64))
	params.Set("closePosition", "true")
	params.Set("newClientOrderId", uuid.New().String())

	response, err := b.HttpClient.Post(
		fmt.Sprintf("%s/fapi/v1/order", b.DestinationURI),
		b.signedQuery(params),
		b.authHeaders(),
	)

	if err != nil {
		return order, err
	}

	err = json.Unmarshal(response, &order)

	if err != nil {
		return order, err
	}

	return order, nil
}

func (b *BinanceFutures) CancelAllOrders(symbol string) error {
	params := url.Values{}
	params.Set("symbol", symbol)

	_, err := b.HttpClient.Delete(
		fmt.Sprintf("%s/fapi/v1/allOpenOrders?%s", b.DestinationURI, b.signedQuery(params)),
		b.authHeaders(),
	)

	return err
}

func (b *BinanceFutures) authHeaders() map[string]string {
	return map[string]string{
		"X-MBX-APIKEY": b.ApiKey,
	}
}

func (b *BinanceFutures) signedQuery(params url.Values) string {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("recvWindow", "5000")

	queryString := params.Encode()

	return fmt.Sprintf("%s&signature=%s", queryString, b.sign(queryString))
}

func (b *BinanceFutures) sign(queryString string) string {
	mac := hmac.New(sha256.New, []byte(b.ApiSecret))
	mac.Write([]byte(queryString))

	return hex.EncodeToString(mac.Sum(nil))
}
