package domain

import "errors"

var (
	// ErrInvalidQuery signals a missing or malformed input query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrGenerationQuotaExceeded signals an exhausted generation token budget.
	ErrGenerationQuotaExceeded = errors.New("generation quota exceeded")
	// ErrModelProviderError signals a chat model provider failure.
	ErrModelProviderError = errors.New("model provider error")
	// ErrMalformedModelOutput signals model output that is not a valid ORM call.
	ErrMalformedModelOutput = errors.New("malformed model output")
)
