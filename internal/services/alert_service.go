package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AlertService шлёт сервисные оповещения в Telegram-чат дежурных.
// Полностью best-effort: без токена методы молча уходят в no-op.
type AlertService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewAlertService(botToken string, chatID int64) *AlertService {
	if botToken == "" || chatID == 0 {
		return &AlertService{}
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[alerts] telegram bot init failed: %v", err)
		return &AlertService{}
	}
	return &AlertService{bot: bot, chatID: chatID}
}

func (s *AlertService) notify(text string) {
	if s == nil || s.bot == nil {
		return
	}
	if _, err := s.bot.Send(tgbotapi.NewMessage(s.chatID, text)); err != nil {
		log.Printf("[alerts] telegram send failed: %v", err)
	}
}

func (s *AlertService) AdminRegistered(username string) {
	s.notify(fmt.Sprintf("New admin account registered: %s (pending verification)", username))
}

func (s *AlertService) AdminResetRequested(username string) {
	s.notify(fmt.Sprintf("Password reset requested for admin account: %s", username))
}
