package usecase

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
)

func sampleResults() []*domain.Message {
	return []*domain.Message{
		{
			ID:         5,
			GroupID:    -100,
			GroupName:  "技术群",
			SenderName: "李四",
			Text:       "用pprof看下热点",
			Timestamp:  time.Date(2026, 1, 30, 15, 4, 0, 0, time.UTC),
		},
		{
			ID:         1,
			GroupID:    -100,
			GroupName:  "技术群",
			SenderName: "张三",
			Text:       "今天讨论Python性能优化技巧",
			Timestamp:  time.Date(2026, 1, 30, 14, 23, 0, 0, time.UTC),
		},
	}
}

func TestFormatResults(t *testing.T) {
	out := FormatResults(sampleResults(), 8)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "[2026-01-30 15:04] 技术群 | 李四: 用pprof看下热点" {
		t.Errorf("unexpected first line: %s", lines[0])
	}
	if lines[2] != "(共 8 条结果)" {
		t.Errorf("unexpected count line: %s", lines[2])
	}
}

func TestFormatResultsEmpty(t *testing.T) {
	if out := FormatResults(nil, 0); out != "未找到匹配的消息。" {
		t.Errorf("unexpected empty output: %s", out)
	}
}

func TestFormatResultsJSON(t *testing.T) {
	out, err := FormatResultsJSON(sampleResults(), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp SearchResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if resp.Total != 8 {
		t.Errorf("expected total 8, got %d", resp.Total)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Timestamp != "2026-01-30T15:04:00Z" {
		t.Errorf("expected RFC 3339 timestamp, got %s", resp.Results[0].Timestamp)
	}
	if resp.Results[1].GroupID != -100 {
		t.Errorf("unexpected group id: %d", resp.Results[1].GroupID)
	}
}

func TestFormatResultsJSONEmpty(t *testing.T) {
	out, err := FormatResultsJSON(nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// An empty page still carries the envelope with an empty array.
	if !strings.Contains(out, `"results": []`) {
		t.Errorf("expected empty results array:\n%s", out)
	}
}
