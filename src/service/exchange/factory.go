package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-smart-trader/src/client"
	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/utils"
)

type ExchangeServiceFactoryInterface interface {
	CreateService(wallet model.Wallet, exchange model.Exchange) (ExchangeServiceInterface, error)
}

// ExchangeServiceFactory builds a wallet-scoped exchange service. Unsupported
// exchanges fail here, before any decision is evaluated against them.
type ExchangeServiceFactory struct {
	HttpClient    client.HttpClientInterface
	RDB           *redis.Client
	Ctx           *context.Context
	Formatter     *utils.Formatter
	BinanceApiDsn string
}

func (f *ExchangeServiceFactory) CreateService(wallet model.Wallet, exchange model.Exchange) (ExchangeServiceInterface, error) {
	switch strings.ToLower(exchange.Name) {
	case model.ExchangeNameBinance:
		apiDsn := f.BinanceApiDsn
		if exchange.ApiBaseUrl != nil && len(*exchange.ApiBaseUrl) > 0 {
			apiDsn = *exchange.ApiBaseUrl
		}

		return &BinanceService{
			Binance: &client.BinanceFutures{
				ApiKey:         wallet.ApiKey,
				ApiSecret:      wallet.ApiSecret,
				DestinationURI: apiDsn,
				HttpClient:     f.HttpClient,
				RDB:            f.RDB,
				Ctx:            f.Ctx,
			},
			RDB:       f.RDB,
			Ctx:       f.Ctx,
			Formatter: f.Formatter,
		}, nil
	}

	return nil, errors.New(fmt.Sprintf("Exchange '%s' is not supported", exchange.Name))
}
