package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/takak2166/notion2telegram/internal/logger"
)

// Client posts and maintains pinned messages in a single chat
type Client struct {
	bot    BotAPI
	chatID int64
}

// New creates a new Telegram client. It contacts the Bot API once to verify
// the token.
func New(token string, chatID int64) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is not set")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Authorized Telegram bot", map[string]interface{}{
		"bot":     bot.Self.UserName,
		"chat_id": chatID,
	})

	return NewWithBot(bot, chatID), nil
}

// NewWithBot creates a Client on top of an existing BotAPI
func NewWithBot(bot BotAPI, chatID int64) *Client {
	return &Client{bot: bot, chatID: chatID}
}

// Send posts a new MarkdownV2 message and returns its id
func (c *Client) Send(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", classify(err))
	}

	logger.Debug("Sent Telegram message", map[string]interface{}{
		"message_id": sent.MessageID,
		"bytes":      len(text),
	})
	return sent.MessageID, nil
}

// Edit replaces the text of an existing message. Editing to identical text
// is not an error.
func (c *Client) Edit(ctx context.Context, messageID int, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(c.chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.DisableWebPagePreview = true

	if _, err := c.bot.Request(edit); err != nil {
		if isNotModified(err) {
			logger.Debug("Telegram message already up to date", map[string]interface{}{
				"message_id": messageID,
			})
			return nil
		}
		return fmt.Errorf("failed to edit message %d: %w", messageID, classify(err))
	}
	return nil
}

// Pin pins a message and notifies chat members
func (c *Client) Pin(ctx context.Context, messageID int) error {
	return c.request(ctx, "pin", messageID, tgbotapi.PinChatMessageConfig{
		ChatID:              c.chatID,
		MessageID:           messageID,
		DisableNotification: false,
	})
}

// Unpin unpins a message
func (c *Client) Unpin(ctx context.Context, messageID int) error {
	return c.request(ctx, "unpin", messageID, tgbotapi.UnpinChatMessageConfig{
		ChatID:    c.chatID,
		MessageID: messageID,
	})
}

// Delete deletes a message
func (c *Client) Delete(ctx context.Context, messageID int) error {
	return c.request(ctx, "delete", messageID, tgbotapi.NewDeleteMessage(c.chatID, messageID))
}

func (c *Client) request(ctx context.Context, action string, messageID int, cfg tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.bot.Request(cfg); err != nil {
		return fmt.Errorf("failed to %s message %d: %w", action, messageID, err)
	}
	return nil
}
