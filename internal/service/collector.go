package service

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
	"github.com/Shadow-sword/tg-tldr/internal/biz/repo"
	"github.com/Shadow-sword/tg-tldr/internal/conf"
	"github.com/Shadow-sword/tg-tldr/internal/infra/telegram"
)

// Collector consumes the Telegram update stream and records messages from
// monitored groups. Edited messages re-insert under their original key, so
// platform-side edits overwrite the stored text and its index entry.
type Collector struct {
	cfg      *conf.Config
	client   *telegram.Client
	messages repo.MessageRepo

	wg sync.WaitGroup
}

// NewCollector creates a new collector.
func NewCollector(cfg *conf.Config, client *telegram.Client, messages repo.MessageRepo) *Collector {
	return &Collector{
		cfg:      cfg,
		client:   client,
		messages: messages,
	}
}

// Start begins consuming updates until Stop is called or ctx is done.
func (c *Collector) Start(ctx context.Context) {
	updates := c.client.Updates()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				c.handleUpdate(ctx, update)
			}
		}
	}()

	fmt.Printf("[Collector] Monitoring %d groups as @%s\n", len(c.cfg.Groups), c.client.Username())
}

// Stop closes the update stream and waits for the consumer to drain.
func (c *Collector) Stop() {
	c.client.StopReceiving()
	c.wg.Wait()
	fmt.Println("[Collector] Stopped")
}

func (c *Collector) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		msg = update.EditedMessage
	}
	if msg == nil || msg.Text == "" || msg.Chat == nil {
		return
	}

	group := c.cfg.GroupByID(msg.Chat.ID)
	if group == nil {
		return
	}

	senderID, senderName := senderInfo(msg.From)
	if !group.Filters.ShouldRecord(senderID, msg.Text) {
		return
	}

	record := &domain.Message{
		ID:         int64(msg.MessageID),
		GroupID:    msg.Chat.ID,
		GroupName:  group.Name,
		SenderID:   senderID,
		SenderName: senderName,
		Text:       msg.Text,
		Timestamp:  msg.Time().UTC(),
	}
	if msg.ReplyToMessage != nil {
		record.ReplyToID = int64(msg.ReplyToMessage.MessageID)
	}

	if err := c.messages.Insert(ctx, record); err != nil {
		fmt.Printf("[Collector] Failed to save message %d in %s: %v\n", record.ID, group.Name, err)
	}
}

func senderInfo(from *tgbotapi.User) (int64, string) {
	if from == nil {
		return 0, "Unknown"
	}

	name := from.FirstName
	if from.LastName != "" {
		if name != "" {
			name += " "
		}
		name += from.LastName
	}
	if name == "" && from.UserName != "" {
		name = "@" + from.UserName
	}
	if name == "" {
		name = fmt.Sprintf("%d", from.ID)
	}
	return from.ID, name
}
