package generation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/talentdex/ormgen/internal/domain"
)

func nowUTC() time.Time { return time.Now().UTC() }

type mockBudgetStore struct {
	mu     sync.Mutex
	values map[string]int64
	getErr error
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{values: make(map[string]int64)}
}

func (m *mockBudgetStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] += val
	return nil
}

func (m *mockBudgetStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.values[key], nil
}

func TestBudget_UnlimitedAllowsEverything(t *testing.T) {
	b := NewBudgetTracker(0, 0, BudgetActionReject, zap.NewNop())

	b.Record(1_000_000_000)
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.RemainingDaily() != -1 {
		t.Errorf("expected -1 (unlimited), got %d", b.RemainingDaily())
	}
}

func TestBudget_RejectWhenDailyExhausted(t *testing.T) {
	b := NewBudgetTracker(100, 0, BudgetActionReject, zap.NewNop())

	b.Record(100)
	err := b.Check(context.Background())
	if !errors.Is(err, domain.ErrGenerationQuotaExceeded) {
		t.Fatalf("expected ErrGenerationQuotaExceeded, got %v", err)
	}
}

func TestBudget_WarnAllowsWhenExhausted(t *testing.T) {
	b := NewBudgetTracker(100, 0, BudgetActionWarn, zap.NewNop())

	b.Record(150)
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("warn action must allow the request: %v", err)
	}
	if b.RemainingDaily() != 0 {
		t.Errorf("expected 0 remaining, got %d", b.RemainingDaily())
	}
}

func TestBudget_MonthlyLimit(t *testing.T) {
	b := NewBudgetTracker(0, 200, BudgetActionReject, zap.NewNop())

	b.Record(150)
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.RemainingMonthly() != 50 {
		t.Errorf("expected 50 remaining, got %d", b.RemainingMonthly())
	}

	b.Record(50)
	if err := b.Check(context.Background()); !errors.Is(err, domain.ErrGenerationQuotaExceeded) {
		t.Fatalf("expected ErrGenerationQuotaExceeded, got %v", err)
	}
}

func TestBudget_WithStoreLoadsCounters(t *testing.T) {
	store := newMockBudgetStore()
	ctx := context.Background()
	_ = store.IncrBy(ctx, dailyKey(nowUTC()), 40)
	_ = store.IncrBy(ctx, monthlyKey(nowUTC()), 70)

	b := NewBudgetTracker(100, 1000, BudgetActionReject, zap.NewNop()).WithStore(ctx, store)

	if b.DailyUsed() != 40 {
		t.Errorf("expected daily_used=40, got %d", b.DailyUsed())
	}
	if b.MonthlyUsed() != 70 {
		t.Errorf("expected monthly_used=70, got %d", b.MonthlyUsed())
	}
}

func TestBudget_RecordWritesBehind(t *testing.T) {
	store := newMockBudgetStore()
	ctx := context.Background()
	b := NewBudgetTracker(1000, 10000, BudgetActionReject, zap.NewNop()).WithStore(ctx, store)

	b.Record(25)

	if got := store.values[dailyKey(nowUTC())]; got != 25 {
		t.Errorf("expected daily key incremented by 25, got %d", got)
	}
	if got := store.values[monthlyKey(nowUTC())]; got != 25 {
		t.Errorf("expected monthly key incremented by 25, got %d", got)
	}
}

func TestBudget_StoreLoadFailureIsNonFatal(t *testing.T) {
	store := newMockBudgetStore()
	store.getErr = errors.New("connection refused")

	b := NewBudgetTracker(100, 1000, BudgetActionReject, zap.NewNop()).
		WithStore(context.Background(), store)

	if b.DailyUsed() != 0 {
		t.Errorf("expected 0 after failed load, got %d", b.DailyUsed())
	}
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
