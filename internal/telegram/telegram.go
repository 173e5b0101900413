package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the subset of *tgbotapi.BotAPI used by this package.
//
//go:generate mockgen -source=telegram.go -destination=mock_telegram/mock_telegram.go -package=mock_telegram
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}
