package chi

// ErrorCode identifies an API error class in responses.
type ErrorCode string

const (
	// ErrorCodeBadRequest indicates a malformed request body or parameters.
	ErrorCodeBadRequest ErrorCode = "bad_request"
	// ErrorCodeValidationFailed indicates request content failed validation.
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	// ErrorCodeInvalidCredentials indicates a missing or wrong backend secret.
	ErrorCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrorCodeRateLimited indicates the request rate cap was hit.
	ErrorCodeRateLimited ErrorCode = "rate_limited"
	// ErrorCodeQuotaExceeded indicates the token budget is spent.
	ErrorCodeQuotaExceeded ErrorCode = "generation_quota_exceeded"
	// ErrorCodeModelProviderError indicates the upstream model call failed.
	ErrorCodeModelProviderError ErrorCode = "model_provider_error"
	// ErrorCodeMalformedModelOutput indicates the model returned an unusable completion.
	ErrorCodeMalformedModelOutput ErrorCode = "malformed_model_output"
	// ErrorCodeInternalError indicates an unexpected server failure.
	ErrorCodeInternalError ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body for all error statuses.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// GenerateRequest is the body for POST /api/generate.
type GenerateRequest struct {
	Query string `json:"query"`
}

// GenerateResponse is the body for a successful generation.
type GenerateResponse struct {
	Orm string `json:"orm"`
}

// UsageMetrics holds consumption counters in the usage response.
type UsageMetrics struct {
	Requests         int  `json:"requests"`
	Tokens           int  `json:"tokens"`
	CostMillidollars *int `json:"cost_millidollars,omitempty"`
}

// BudgetStatus holds budget state in the usage response.
type BudgetStatus struct {
	TokensLimit     int    `json:"tokens_limit"`
	TokensRemaining int    `json:"tokens_remaining"`
	IsExhausted     bool   `json:"is_exhausted"`
	ResetsAt        string `json:"resets_at,omitempty"`
}

// UsageResponse is the body for GET /api/usage.
type UsageResponse struct {
	Period        string       `json:"period"`
	PeriodStartAt string       `json:"period_start_at,omitempty"`
	PeriodEndAt   string       `json:"period_end_at,omitempty"`
	Usage         UsageMetrics `json:"usage"`
	Budget        BudgetStatus `json:"budget"`
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
