// Package query defines the validated natural-language query value object.
package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/talentdex/ormgen/internal/domain"
)

// MaxRunes bounds the query length; anything longer is recruiter copy-paste
// noise and would blow up the prompt.
const MaxRunes = 2000

// Query is a validated recruiter query. Zero value is invalid; use New.
type Query struct {
	text string
}

// New validates and creates a Query. Leading/trailing whitespace is trimmed.
func New(text string) (Query, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Query{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if utf8.RuneCountInString(trimmed) > MaxRunes {
		return Query{}, fmt.Errorf("%w: query exceeds %d characters", domain.ErrInvalidQuery, MaxRunes)
	}
	return Query{text: trimmed}, nil
}

// Text returns the trimmed query text as sent to the model.
func (q Query) Text() string { return q.text }

// Normalized returns a lowercased, whitespace-collapsed form used for cache
// keying, so trivially different phrasings of the same query share an entry.
func (q Query) Normalized() string {
	return NormalizeText(q.text)
}

// NormalizeText lowercases and collapses whitespace. Exposed for cache-key
// construction outside the value object.
func NormalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
