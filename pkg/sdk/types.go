package ormgen

import "fmt"

type generateRequest struct {
	Query string `json:"query"`
}

type generateResponse struct {
	Orm string `json:"orm"`
}

// GenerateResult is the outcome of a generation call.
type GenerateResult struct {
	// ORM is the generated Django ORM expression.
	ORM string
	// TokensUsed is the number of model tokens consumed, 0 on a cache hit.
	TokensUsed int
}

// UsageMetrics holds consumption counters for a period.
type UsageMetrics struct {
	Requests         int  `json:"requests"`
	Tokens           int  `json:"tokens"`
	CostMillidollars *int `json:"cost_millidollars,omitempty"`
}

// BudgetStatus holds the token budget state for a period.
type BudgetStatus struct {
	TokensLimit     int    `json:"tokens_limit"`
	TokensRemaining int    `json:"tokens_remaining"`
	IsExhausted     bool   `json:"is_exhausted"`
	ResetsAt        string `json:"resets_at,omitempty"`
}

// UsageReport is the token usage report for one period.
type UsageReport struct {
	Period        string       `json:"period"`
	PeriodStartAt string       `json:"period_start_at,omitempty"`
	PeriodEndAt   string       `json:"period_end_at,omitempty"`
	Usage         UsageMetrics `json:"usage"`
	Budget        BudgetStatus `json:"budget"`
}

// HealthReport is the service health snapshot.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// APIError is returned for non-2xx API responses.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ormgen: api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("ormgen: api error %d", e.StatusCode)
}
