package domain

import "context"

// KeyPrefix namespaces all keys this service writes to the store.
const KeyPrefix = "ormgen:"

// Generator is the shared text-to-ORM generation contract between layers.
type Generator interface {
	Generate(ctx context.Context, query string) (GenerationResult, error)
}

// HealthChecker verifies model provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// GenerationResult carries the raw model output and token usage through the
// decorator chain. ORM holds the model text before sanitization.
type GenerationResult struct {
	ORM              string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
