package service

import (
	"encoding/json"
	"fmt"
	"log"

	"gitlab.com/open-soft/go-smart-trader/src/client"
	"gitlab.com/open-soft/go-smart-trader/src/model"
)

type NotifierInterface interface {
	NotifyOpen(position model.Position, wallet model.Wallet, strategy model.Strategy)
	NotifyAction(position model.Position, history model.PositionHistory)
	NotifyHistory(message string)
}

// TelegramNotifier posts trading events to telegram channels. Notifications
// are best effort: every failure is logged and swallowed so a telegram outage
// can never stall the decision loops. An empty bot token disables it.
type TelegramNotifier struct {
	HttpClient       client.HttpClientInterface
	BotToken         string
	ChannelId        string
	HistoryChannelId string
}

func (t *TelegramNotifier) NotifyOpen(position model.Position, wallet model.Wallet, strategy model.Strategy) {
	t.send(t.ChannelId, fmt.Sprintf(
		"🚀 [%s] %s opened\nWallet: %s\nStrategy: %s\nEntry: %.6f\nQuantity: %f\nLeverage: %dx",
		position.Symbol,
		position.Side,
		wallet.Name,
		strategy.Name,
		position.EntryPrice,
		position.Quantity,
		position.GetLeverage(),
	))
}

func (t *TelegramNotifier) NotifyAction(position model.Position, history model.PositionHistory) {
	icon := "ℹ️"

	switch history.Action {
	case model.ActionCloseByTakeProfit:
		icon = "✅"
	case model.ActionCloseByStopLoss:
		icon = "🛑"
	case model.ActionPartialClose:
		icon = "💰"
	case model.ActionRollbackBuy:
		icon = "🔄"
	}

	t.send(t.ChannelId, fmt.Sprintf(
		"%s [%s] %s %s at %.6f\nProfit: %.4f\n%s",
		icon,
		position.Symbol,
		position.Side,
		history.Action,
		history.Price,
		history.Profit,
		history.Reason,
	))
}

func (t *TelegramNotifier) NotifyHistory(message string) {
	t.send(t.HistoryChannelId, message)
}

func (t *TelegramNotifier) send(chatId string, text string) {
	if len(t.BotToken) == 0 || len(chatId) == 0 {
		return
	}

	body, _ := json.Marshal(map[string]string{
		"chat_id": chatId,
		"text":    text,
	})

	_, err := t.HttpClient.Post(
		fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.BotToken),
		string(body),
		map[string]string{"Content-Type": "application/json"},
	)

	if err != nil {
		log.Printf("Telegram notification failed: %s", err.Error())
	}
}
