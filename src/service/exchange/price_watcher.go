package exchange

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-smart-trader/src/client"
	"gitlab.com/open-soft/go-smart-trader/src/model"
)

const lastPriceTtl = time.Second * 30

// PriceWatcher keeps the last-price cache warm from the mini-ticker stream
// so that the exit loop reads fresh prices without polling the REST API.
type PriceWatcher struct {
	RDB   *redis.Client
	Ctx   *context.Context
	WsDsn string
}

func (w *PriceWatcher) Watch(symbols []string) {
	if len(symbols) == 0 {
		log.Printf("PriceWatcher: no symbols to watch")

		return
	}

	eventChannel := make(chan []byte)

	streamBatch := client.GetStreamBatch(symbols, []string{"@miniTicker"})

	for index, streams := range streamBatch {
		client.Listen(w.WsDsn, eventChannel, streams, int64(index))
	}

	log.Printf("PriceWatcher: subscribed %d symbols in %d connections", len(symbols), len(streamBatch))

	go func() {
		for message := range eventChannel {
			w.handle(message)
		}
	}()
}

func (w *PriceWatcher) handle(message []byte) {
	var event model.MiniTickerEvent

	err := json.Unmarshal(message, &event)

	if err != nil || event.EventType != "24hrMiniTicker" {
		return
	}

	price := event.Close.Value()

	if price <= 0.00 {
		return
	}

	w.RDB.Set(*w.Ctx, LastPriceCacheKey(event.Symbol), strconv.FormatFloat(price, 'f', -1, 64), lastPriceTtl)
}
