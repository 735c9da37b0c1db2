package domain

import "strings"

// FilterRules decides which incoming messages of a group get recorded.
// Keyword patterns support the * wildcard; a pattern without * matches as
// a substring.
type FilterRules struct {
	IgnoreUsers    []int64  `yaml:"ignore_users"`
	OnlyUsers      []int64  `yaml:"only_users"`
	IgnoreKeywords []string `yaml:"ignore_keywords"`
	OnlyKeywords   []string `yaml:"only_keywords"`
}

// ShouldRecord checks a message against the rules.
func (f *FilterRules) ShouldRecord(senderID int64, text string) bool {
	if len(f.OnlyUsers) > 0 && !containsID(f.OnlyUsers, senderID) {
		return false
	}
	if containsID(f.IgnoreUsers, senderID) {
		return false
	}
	if len(f.OnlyKeywords) > 0 {
		matched := false
		for _, kw := range f.OnlyKeywords {
			if matchKeyword(text, kw) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, kw := range f.IgnoreKeywords {
		if matchKeyword(text, kw) {
			return false
		}
	}
	return true
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func matchKeyword(text, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return strings.Contains(text, pattern)
	}
	return wildcardMatch(text, pattern)
}

// wildcardMatch matches the whole text against a pattern where * matches
// any run of characters, including none.
func wildcardMatch(text, pattern string) bool {
	parts := strings.Split(pattern, "*")

	if !strings.HasPrefix(text, parts[0]) {
		return false
	}
	text = text[len(parts[0]):]

	last := parts[len(parts)-1]
	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(text, part)
		if idx < 0 {
			return false
		}
		text = text[idx+len(part):]
	}

	return strings.HasSuffix(text, last) && len(text) >= len(last)
}
