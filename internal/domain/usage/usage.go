// Package usage defines the token usage report returned by the usage endpoint.
package usage

// Period selects the reporting window.
type Period string

const (
	// PeriodDay reports usage for the current UTC day.
	PeriodDay Period = "day"
	// PeriodMonth reports usage for the current UTC month.
	PeriodMonth Period = "month"
	// PeriodTotal reports usage without period boundaries.
	PeriodTotal Period = "total"
)

// Metrics holds consumption counters for a period.
type Metrics struct {
	requests         int
	tokens           int
	costMillidollars int
}

// NewMetrics creates usage metrics.
func NewMetrics(requests, tokens, costMillidollars int) Metrics {
	return Metrics{requests: requests, tokens: tokens, costMillidollars: costMillidollars}
}

// Requests returns the number of generation requests in the period.
func (m Metrics) Requests() int { return m.requests }

// Tokens returns tokens consumed in the period.
func (m Metrics) Tokens() int { return m.tokens }

// CostMillidollars returns the estimated spend in thousandths of a dollar.
func (m Metrics) CostMillidollars() int { return m.costMillidollars }

// Budget holds the budget state for a period.
type Budget struct {
	tokensLimit     int
	tokensRemaining int
	exhausted       bool
	resetsAt        int64
}

// NewBudget creates a budget snapshot. resetsAt is unix millis, 0 when unknown.
func NewBudget(tokensLimit, tokensRemaining int, exhausted bool, resetsAt int64) Budget {
	return Budget{
		tokensLimit:     tokensLimit,
		tokensRemaining: tokensRemaining,
		exhausted:       exhausted,
		resetsAt:        resetsAt,
	}
}

// TokensLimit returns the token cap for the period (0 = unlimited).
func (b Budget) TokensLimit() int { return b.tokensLimit }

// TokensRemaining returns tokens left in the period budget.
func (b Budget) TokensRemaining() int { return b.tokensRemaining }

// IsExhausted reports whether the budget is spent.
func (b Budget) IsExhausted() bool { return b.exhausted }

// ResetsAt returns when the budget window rolls over (unix millis).
func (b Budget) ResetsAt() int64 { return b.resetsAt }

// Report aggregates metrics and budget for one period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	metrics     Metrics
	budget      Budget
}

// NewReport creates a usage report. Start/end are unix millis, 0 for total.
func NewReport(period Period, periodStart, periodEnd int64, m Metrics, b Budget) Report {
	return Report{
		period:      period,
		periodStart: periodStart,
		periodEnd:   periodEnd,
		metrics:     m,
		budget:      b,
	}
}

// Period returns the reporting window.
func (r Report) Period() Period { return r.period }

// PeriodStart returns the window start (unix millis).
func (r Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the window end (unix millis).
func (r Report) PeriodEnd() int64 { return r.periodEnd }

// Metrics returns consumption counters.
func (r Report) Metrics() Metrics { return r.metrics }

// Budget returns the budget state.
func (r Report) Budget() Budget { return r.budget }
