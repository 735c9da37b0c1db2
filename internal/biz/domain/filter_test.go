package domain

import "testing"

func TestShouldRecordUserRules(t *testing.T) {
	tests := []struct {
		name     string
		rules    FilterRules
		senderID int64
		want     bool
	}{
		{"no rules records everything", FilterRules{}, 42, true},
		{"ignored user dropped", FilterRules{IgnoreUsers: []int64{42}}, 42, false},
		{"other user passes ignore list", FilterRules{IgnoreUsers: []int64{42}}, 7, true},
		{"only list admits member", FilterRules{OnlyUsers: []int64{42}}, 42, true},
		{"only list drops non-member", FilterRules{OnlyUsers: []int64{42}}, 7, false},
		{
			"ignore wins over only",
			FilterRules{OnlyUsers: []int64{42}, IgnoreUsers: []int64{42}},
			42, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rules.ShouldRecord(tt.senderID, "hello"); got != tt.want {
				t.Errorf("ShouldRecord = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRecordKeywordRules(t *testing.T) {
	tests := []struct {
		name  string
		rules FilterRules
		text  string
		want  bool
	}{
		{
			"substring ignore",
			FilterRules{IgnoreKeywords: []string{"广告"}},
			"这是一条广告消息", false,
		},
		{
			"substring ignore misses",
			FilterRules{IgnoreKeywords: []string{"广告"}},
			"正常的技术讨论", true,
		},
		{
			"only keyword admits match",
			FilterRules{OnlyKeywords: []string{"优化"}},
			"今天讨论性能优化", true,
		},
		{
			"only keyword drops miss",
			FilterRules{OnlyKeywords: []string{"优化"}},
			"随便聊聊", false,
		},
		{
			"ignore wins over only",
			FilterRules{OnlyKeywords: []string{"优化"}, IgnoreKeywords: []string{"广告"}},
			"性能优化广告", false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rules.ShouldRecord(1, tt.text); got != tt.want {
				t.Errorf("ShouldRecord(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestWildcardMatch(t *testing.T) {
	tests := []struct {
		text    string
		pattern string
		want    bool
	}{
		{"anything at all", "*", true},
		{"http://spam.example", "http*", true},
		{"see http://spam.example now", "*http*", true},
		{"no links here", "*http*", false},
		{"buy now cheap", "buy*cheap", true},
		{"buy now", "buy*cheap", false},
		{"abb", "a*b*b", true},
		{"ab", "a*b*b", false},
		{"aa", "a*a", true},
		{"a", "a*a", false},
	}
	for _, tt := range tests {
		if got := wildcardMatch(tt.text, tt.pattern); got != tt.want {
			t.Errorf("wildcardMatch(%q, %q) = %v, want %v", tt.text, tt.pattern, got, tt.want)
		}
	}
}
