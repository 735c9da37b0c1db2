package repo

import "context"

// ChatRepo is the outbound side of the chat platform: delivering summary
// text back into a chat. Ingestion arrives through the collector service.
type ChatRepo interface {
	SendText(ctx context.Context, chatID int64, text string) error
}
