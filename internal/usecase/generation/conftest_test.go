package generation

import (
	"context"

	"github.com/talentdex/ormgen/internal/domain"
)

type mockGenerator struct {
	result    domain.GenerationResult
	err       error
	calls     int
	lastQuery string
}

func (m *mockGenerator) Generate(_ context.Context, q string) (domain.GenerationResult, error) {
	m.calls++
	m.lastQuery = q
	return m.result, m.err
}

type mockBudget struct {
	checkErr  error
	recorded  []int64
	remaining int64
}

func (m *mockBudget) Check(_ context.Context) error { return m.checkErr }
func (m *mockBudget) Record(tokens int64)           { m.recorded = append(m.recorded, tokens) }
func (m *mockBudget) RemainingDaily() int64         { return m.remaining }
func (m *mockBudget) RemainingMonthly() int64       { return m.remaining }
