// Package telegram wraps the Telegram Bot API client used for both message
// ingestion and summary delivery.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client is a thin wrapper over the bot API.
type Client struct {
	bot *tgbotapi.BotAPI
}

// NewClient creates a new Telegram client and verifies the token against
// the getMe endpoint.
func NewClient(token string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	return &Client{bot: bot}, nil
}

// Updates opens the long-poll update stream.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return c.bot.GetUpdatesChan(u)
}

// StopReceiving closes the update stream; the channel returned by Updates
// drains and then closes.
func (c *Client) StopReceiving() {
	c.bot.StopReceivingUpdates()
}

// SendText sends a plain text message to a chat.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message to %d: %w", chatID, err)
	}
	return nil
}

// Username returns the bot account name reported by the platform.
func (c *Client) Username() string {
	return c.bot.Self.UserName
}
