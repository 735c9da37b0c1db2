package usecase

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
)

// FormatResults renders search results as readable text, one line per
// match, with a trailing count line.
func FormatResults(messages []*domain.Message, total int) string {
	if len(messages) == 0 {
		return "未找到匹配的消息。"
	}

	var lines []string
	for _, msg := range messages {
		ts := msg.Timestamp.UTC().Format("2006-01-02 15:04")
		lines = append(lines, fmt.Sprintf("[%s] %s | %s: %s", ts, msg.GroupName, msg.SenderName, msg.Text))
	}
	lines = append(lines, fmt.Sprintf("(共 %d 条结果)", total))
	return strings.Join(lines, "\n")
}

// SearchResult is one record of the structured search output.
type SearchResult struct {
	ID         int64  `json:"id"`
	GroupID    int64  `json:"group_id"`
	GroupName  string `json:"group_name"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"`
}

// SearchResponse is the structured search output.
type SearchResponse struct {
	Total   int            `json:"total"`
	Results []SearchResult `json:"results"`
}

// FormatResultsJSON renders search results as indented JSON carrying the
// total alongside the ordered records, timestamps in RFC 3339.
func FormatResultsJSON(messages []*domain.Message, total int) (string, error) {
	resp := SearchResponse{
		Total:   total,
		Results: make([]SearchResult, 0, len(messages)),
	}
	for _, msg := range messages {
		resp.Results = append(resp.Results, SearchResult{
			ID:         msg.ID,
			GroupID:    msg.GroupID,
			GroupName:  msg.GroupName,
			SenderName: msg.SenderName,
			Text:       msg.Text,
			Timestamp:  msg.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}
	return string(out), nil
}
