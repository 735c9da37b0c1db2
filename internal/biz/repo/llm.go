package repo

import "context"

// LLMRepo produces prose from a prompt. The summarizer is its only caller.
type LLMRepo interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
