// Package token turns message text and queries into normalized index terms.
// Contiguous CJK runs are segmented into dictionary sub-words in search-engine
// mode; Latin runs split on word boundaries. The same segmentation feeds both
// indexing and querying so terms always line up.
package token

import (
	"strings"
	"sync"
	"unicode"

	"github.com/go-ego/gse"
)

var (
	segOnce sync.Once
	seg     gse.Segmenter
)

func segmenter() *gse.Segmenter {
	segOnce.Do(func() {
		// Embedded default dictionary. Loading cannot fail at runtime
		// short of a corrupted binary, so the error is ignored.
		_ = seg.LoadDict()
	})
	return &seg
}

// Segment splits text into lowercased terms, dropping whitespace and
// punctuation-only fragments. Empty or whitespace-only input yields nil.
func Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	cuts := segmenter().CutSearch(text, true)
	terms := make([]string, 0, len(cuts))
	for _, c := range cuts {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || !hasWordRune(c) {
			continue
		}
		terms = append(terms, c)
	}
	return terms
}

// IndexTerms returns the space-joined term text stored in the full-text
// index. An empty result means "do not index this text", not an error.
func IndexTerms(text string) string {
	return strings.Join(Segment(text), " ")
}

// QueryTerms segments a query and escapes every term for an FTS5 MATCH
// expression: each term is double-quoted with embedded quotes doubled, so
// operator syntax (NOT, OR, NEAR, *, quoted phrases) cannot be injected.
func QueryTerms(query string) []string {
	terms := Segment(query)
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return quoted
}

// MatchQuery joins the sanitized query terms into a single conjunctive
// MATCH string. An empty query yields the empty string.
func MatchQuery(query string) string {
	return strings.Join(QueryTerms(query), " ")
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
