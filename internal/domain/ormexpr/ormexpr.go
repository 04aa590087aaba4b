// Package ormexpr sanitizes and validates the ORM expression returned by the
// chat model before it is handed back to the caller.
package ormexpr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/talentdex/ormgen/internal/domain"
)

// callPrefix is the only queryset the service is allowed to emit.
const callPrefix = "CandidateProfile.objects.filter("

var (
	fenceRegex      = regexp.MustCompile("(?m)^```(?:python)?\\s*|\\s*```$")
	whitespaceRegex = regexp.MustCompile(`\s+`)
	tailRegex       = regexp.MustCompile(`^(\.count\(\)|\.all\(\)\[:\d+\])?$`)
)

// Sanitize strips markdown code fences the model tends to wrap its answer in
// and collapses the result to a single line.
func Sanitize(raw string) string {
	s := fenceRegex.ReplaceAllString(strings.TrimSpace(raw), "")
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Validate checks that expr is a well-formed single-line
// CandidateProfile.objects.filter(...) call, optionally suffixed with
// .count() or .all()[:N]. The returned error wraps
// domain.ErrMalformedModelOutput.
func Validate(expr string) error {
	if !strings.HasPrefix(expr, callPrefix) {
		return fmt.Errorf("%w: expected %s... call, got %q",
			domain.ErrMalformedModelOutput, callPrefix, truncate(expr, 80))
	}
	if strings.ContainsAny(expr, "\n\r") {
		return fmt.Errorf("%w: expression is not a single line", domain.ErrMalformedModelOutput)
	}

	end, err := matchFilterCall(expr)
	if err != nil {
		return err
	}

	if tail := expr[end:]; !tailRegex.MatchString(tail) {
		return fmt.Errorf("%w: unexpected trailing %q", domain.ErrMalformedModelOutput, truncate(tail, 40))
	}
	return nil
}

// matchFilterCall scans the filter(...) argument list and returns the offset
// just past its closing paren. Parens inside quoted strings are ignored.
func matchFilterCall(expr string) (int, error) {
	depth := 0
	var quote byte
	for i := len(callPrefix) - 1; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	if quote != 0 {
		return 0, fmt.Errorf("%w: unterminated string literal", domain.ErrMalformedModelOutput)
	}
	return 0, fmt.Errorf("%w: unbalanced parentheses", domain.ErrMalformedModelOutput)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
