package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-smart-trader/src/client"
	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/repository"
	"gitlab.com/open-soft/go-smart-trader/src/service"
	"gitlab.com/open-soft/go-smart-trader/src/service/exchange"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
	"gitlab.com/open-soft/go-smart-trader/src/service/strategy"
	"gitlab.com/open-soft/go-smart-trader/src/service/worker"
	"gitlab.com/open-soft/go-smart-trader/src/utils"
)

func main() {
	pwd, _ := os.Getwd()
	if _, err := os.Stat(fmt.Sprintf("%s/.env", pwd)); err == nil {
		log.Println(".env is found, loading variables...")
		err = godotenv.Load()
		if err != nil {
			log.Println(err)
		}
	}

	db, err := sql.Open("mysql", os.Getenv("DATABASE_DSN")) // root:smart_trader@tcp(mysql:3306)/smart_trader?parseTime=true

	if err != nil {
		log.Fatal(fmt.Sprintf("MySQL can't connect: %s", err.Error()))
	}

	defer db.Close()

	db.SetMaxIdleConns(64)
	db.SetMaxOpenConns(64)
	db.SetConnMaxLifetime(time.Minute)

	var ctx = context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_DSN"), // "redis:6379"
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	httpClient := &client.HttpClient{}
	formatter := &utils.Formatter{}
	timeHelper := &utils.TimeHelper{}
	calculator := &indicator.Calculator{}

	positionRepository := &repository.PositionRepository{
		DB:  db,
		RDB: rdb,
		Ctx: &ctx,
	}
	configRepository := &repository.ConfigRepository{
		DB:  db,
		RDB: rdb,
		Ctx: &ctx,
	}

	exchangeFactory := &exchange.ExchangeServiceFactory{
		HttpClient:    httpClient,
		RDB:           rdb,
		Ctx:           &ctx,
		Formatter:     formatter,
		BinanceApiDsn: os.Getenv("BINANCE_FUTURES_API_DSN"), // https://fapi.binance.com
	}

	ruleFactory := strategy.NewRuleFactory(calculator)

	notifier := &service.TelegramNotifier{
		HttpClient:       httpClient,
		BotToken:         os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChannelId:        os.Getenv("TELEGRAM_CHANNEL_ID"),
		HistoryChannelId: os.Getenv("TELEGRAM_HISTORY_CHANNEL_ID"),
	}

	priceWatcher := &exchange.PriceWatcher{
		RDB:   rdb,
		Ctx:   &ctx,
		WsDsn: os.Getenv("BINANCE_FUTURES_WS_DSN"), // wss://fstream.binance.com/ws
	}
	priceWatcher.Watch(tradableSymbols(configRepository))

	openWorker := &worker.OpenPositionWorker{
		ConfigRepository:   configRepository,
		PositionRepository: positionRepository,
		ExchangeFactory:    exchangeFactory,
		RuleFactory:        ruleFactory,
		Notifier:           notifier,
		TimeService:        timeHelper,
		Formatter:          formatter,
		Interval:           intervalFromEnv("OPEN_WORKER_INTERVAL_SEC", 60),
	}

	closeWorker := &worker.ClosePositionWorker{
		ConfigRepository:   configRepository,
		PositionRepository: positionRepository,
		ExchangeFactory:    exchangeFactory,
		RuleFactory:        ruleFactory,
		Notifier:           notifier,
		TimeService:        timeHelper,
		Formatter:          formatter,
		Interval:           intervalFromEnv("CLOSE_WORKER_INTERVAL_SEC", 30),
	}

	workerCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		openWorker.Run(workerCtx)
	}()
	go func() {
		defer wg.Done()
		closeWorker.Run(workerCtx)
	}()

	wg.Wait()
	log.Println("Shutdown complete")
}

// tradableSymbols collects every binance symbol any strategy may trade so the
// price watcher keeps their last prices warm.
func tradableSymbols(configRepository repository.ConfigStorageInterface) []string {
	seen := make(map[string]bool)
	symbols := make([]string, 0)

	for _, strategyEntity := range configRepository.GetStrategies() {
		for _, tradable := range configRepository.GetTradableCoins(strategyEntity.Id) {
			coin, err := configRepository.GetCoin(tradable.CoinId)

			if err != nil {
				log.Println(err)
				continue
			}

			symbol, err := coin.SymbolFor(model.ExchangeNameBinance)

			if err != nil || seen[symbol] {
				continue
			}

			seen[symbol] = true
			symbols = append(symbols, symbol)
		}
	}

	return symbols
}

func intervalFromEnv(name string, defaultSeconds int64) time.Duration {
	seconds, err := strconv.ParseInt(os.Getenv(name), 10, 64)

	if err != nil || seconds <= 0 {
		seconds = defaultSeconds
	}

	return time.Duration(seconds) * time.Second
}
