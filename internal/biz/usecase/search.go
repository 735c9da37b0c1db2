package usecase

import (
	"context"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
	"github.com/Shadow-sword/tg-tldr/internal/biz/repo"
)

// SearchUsecase executes term queries against the message store.
type SearchUsecase struct {
	messages repo.MessageRepo
}

// NewSearchUsecase creates a new search usecase.
func NewSearchUsecase(messages repo.MessageRepo) *SearchUsecase {
	return &SearchUsecase{messages: messages}
}

// Search returns the matching page (newest first) and the total match
// count. A query with no searchable terms returns (nil, 0) without
// touching the store.
func (uc *SearchUsecase) Search(ctx context.Context, query string, filter repo.SearchFilter) ([]*domain.Message, int, error) {
	return uc.messages.Search(ctx, query, filter)
}
