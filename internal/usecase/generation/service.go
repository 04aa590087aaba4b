package generation

import (
	"context"
	"fmt"

	"github.com/talentdex/ormgen/internal/domain"
	"github.com/talentdex/ormgen/internal/domain/ormexpr"
	"github.com/talentdex/ormgen/internal/domain/query"
)

// Service turns recruiter queries into validated ORM expressions.
type Service struct {
	gen domain.Generator
}

// New creates a generation service. gen is the fully composed decorator
// chain (transport -> cache -> instrumented).
func New(gen domain.Generator) *Service {
	return &Service{gen: gen}
}

// Generate validates the query, runs the model, sanitizes the output and
// verifies it is a well-formed CandidateProfile filter call. Token usage is
// recorded into the request context collector when one is attached.
func (s *Service) Generate(ctx context.Context, text string) (string, error) {
	q, err := query.New(text)
	if err != nil {
		return "", err
	}

	result, err := s.gen.Generate(ctx, q.Text())
	if err != nil {
		return "", fmt.Errorf("generate orm: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(result.TotalTokens)

	orm := ormexpr.Sanitize(result.ORM)
	if err := ormexpr.Validate(orm); err != nil {
		return "", err
	}

	return orm, nil
}
