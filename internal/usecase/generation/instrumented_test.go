package generation

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/talentdex/ormgen/internal/domain"
)

func TestInstrumented_BudgetRejected(t *testing.T) {
	inner := &mockGenerator{result: domain.GenerationResult{ORM: validORM}}
	budget := &mockBudget{checkErr: domain.ErrGenerationQuotaExceeded}
	ig := NewInstrumentedGenerator(inner, "test-model", budget, zap.NewNop())

	_, err := ig.Generate(context.Background(), "q")
	if !errors.Is(err, domain.ErrGenerationQuotaExceeded) {
		t.Fatalf("expected ErrGenerationQuotaExceeded, got %v", err)
	}
	if inner.calls != 0 {
		t.Error("inner generator must not run when budget rejects")
	}
}

func TestInstrumented_RecordsTokens(t *testing.T) {
	inner := &mockGenerator{result: domain.GenerationResult{ORM: validORM, TotalTokens: 500}}
	budget := &mockBudget{remaining: 100}
	ig := NewInstrumentedGenerator(inner, "test-model", budget, zap.NewNop())

	if _, err := ig.Generate(context.Background(), "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(budget.recorded) != 1 || budget.recorded[0] != 500 {
		t.Errorf("expected one Record(500), got %v", budget.recorded)
	}
}

func TestInstrumented_ZeroTokensNotRecorded(t *testing.T) {
	// Cache hits surface with TotalTokens=0; they must not touch the budget.
	inner := &mockGenerator{result: domain.GenerationResult{ORM: validORM}}
	budget := &mockBudget{}
	ig := NewInstrumentedGenerator(inner, "test-model", budget, zap.NewNop())

	if _, err := ig.Generate(context.Background(), "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(budget.recorded) != 0 {
		t.Errorf("expected no Record calls, got %v", budget.recorded)
	}
}

func TestInstrumented_NilBudget(t *testing.T) {
	inner := &mockGenerator{result: domain.GenerationResult{ORM: validORM, TotalTokens: 10}}
	ig := NewInstrumentedGenerator(inner, "test-model", nil, zap.NewNop())

	if _, err := ig.Generate(context.Background(), "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInstrumented_InnerError(t *testing.T) {
	inner := &mockGenerator{err: errors.New("boom")}
	budget := &mockBudget{}
	ig := NewInstrumentedGenerator(inner, "test-model", budget, zap.NewNop())

	_, err := ig.Generate(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(budget.recorded) != 0 {
		t.Error("failed requests must not record tokens")
	}
}
