package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/talentdex/ormgen/internal/domain"
	generationuc "github.com/talentdex/ormgen/internal/usecase/generation"
	healthuc "github.com/talentdex/ormgen/internal/usecase/health"
	usageuc "github.com/talentdex/ormgen/internal/usecase/usage"
)

// --- Mocks ---

type stubGenerator struct {
	result domain.GenerationResult
	err    error
}

func (g *stubGenerator) Generate(_ context.Context, _ string) (domain.GenerationResult, error) {
	return g.result, g.err
}

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(_ context.Context) error { return p.err }

func newTestServer(gen *stubGenerator, pingErr error) *Server {
	return NewServer(
		generationuc.New(gen),
		usageuc.New(nil),
		healthuc.New(&stubPinger{err: pingErr}, nil),
		zap.NewNop(),
	)
}

func postGenerate(s *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Generate(rr, req)
	return rr
}

// --- Tests ---

func TestGenerate_Success(t *testing.T) {
	orm := "CandidateProfile.objects.filter(city__iexact='chennai')"
	s := newTestServer(&stubGenerator{result: domain.GenerationResult{
		ORM:         orm,
		TotalTokens: 42,
	}}, nil)

	rr := postGenerate(s, `{"query": "candidates from chennai"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp GenerateResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Orm != orm {
		t.Errorf("orm: got %q, want %q", resp.Orm, orm)
	}
	if got := rr.Header().Get("X-Generation-Tokens"); got != "42" {
		t.Errorf("X-Generation-Tokens: got %q, want %q", got, "42")
	}
}

func TestGenerate_StripsMarkdownFences(t *testing.T) {
	s := newTestServer(&stubGenerator{result: domain.GenerationResult{
		ORM: "```python\nCandidateProfile.objects.filter(degree__icontains='mba')\n```",
	}}, nil)

	rr := postGenerate(s, `{"query": "MBA candidates"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp GenerateResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := "CandidateProfile.objects.filter(degree__icontains='mba')"
	if resp.Orm != want {
		t.Errorf("orm: got %q, want %q", resp.Orm, want)
	}
}

func TestGenerate_InvalidBody_400(t *testing.T) {
	s := newTestServer(&stubGenerator{}, nil)

	rr := postGenerate(s, `{not json`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != ErrorCodeBadRequest {
		t.Errorf("code: got %s, want %s", errResp.Code, ErrorCodeBadRequest)
	}
}

func TestGenerate_EmptyQuery_400(t *testing.T) {
	s := newTestServer(&stubGenerator{}, nil)

	rr := postGenerate(s, `{"query": "   "}`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != ErrorCodeValidationFailed {
		t.Errorf("code: got %s, want %s", errResp.Code, ErrorCodeValidationFailed)
	}
}

func TestGenerate_ProviderError_502(t *testing.T) {
	s := newTestServer(&stubGenerator{
		err: fmt.Errorf("chat completion: %w", domain.ErrModelProviderError),
	}, nil)

	rr := postGenerate(s, `{"query": "java developers"}`)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != ErrorCodeModelProviderError {
		t.Errorf("code: got %s, want %s", errResp.Code, ErrorCodeModelProviderError)
	}
}

func TestGenerate_MalformedOutput_502(t *testing.T) {
	s := newTestServer(&stubGenerator{result: domain.GenerationResult{
		ORM: "SELECT * FROM candidates",
	}}, nil)

	rr := postGenerate(s, `{"query": "all candidates"}`)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != ErrorCodeMalformedModelOutput {
		t.Errorf("code: got %s, want %s", errResp.Code, ErrorCodeMalformedModelOutput)
	}
}

func TestGenerate_QuotaExceeded_402(t *testing.T) {
	s := newTestServer(&stubGenerator{
		err: fmt.Errorf("budget: %w", domain.ErrGenerationQuotaExceeded),
	}, nil)

	rr := postGenerate(s, `{"query": "python developers"}`)

	if rr.Code != http.StatusPaymentRequired {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusPaymentRequired)
	}
}

func TestGenerate_UnknownError_500(t *testing.T) {
	s := newTestServer(&stubGenerator{err: errors.New("boom")}, nil)

	rr := postGenerate(s, `{"query": "python developers"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Message != "internal error" {
		t.Errorf("message should not leak internals, got %q", errResp.Message)
	}
}

func TestGetUsage_DefaultPeriodMonth(t *testing.T) {
	s := newTestServer(&stubGenerator{}, nil)

	req := httptest.NewRequest("GET", "/api/usage", http.NoBody)
	rr := httptest.NewRecorder()
	s.GetUsage(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp UsageResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Period != "month" {
		t.Errorf("period: got %q, want %q", resp.Period, "month")
	}
	if resp.PeriodStartAt == "" || resp.PeriodEndAt == "" {
		t.Error("month period should carry start/end timestamps")
	}
}

func TestGetUsage_DayPeriod(t *testing.T) {
	s := newTestServer(&stubGenerator{}, nil)

	req := httptest.NewRequest("GET", "/api/usage?period=day", http.NoBody)
	rr := httptest.NewRecorder()
	s.GetUsage(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp UsageResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Period != "day" {
		t.Errorf("period: got %q, want %q", resp.Period, "day")
	}
}

func TestGetUsage_InvalidPeriod_400(t *testing.T) {
	s := newTestServer(&stubGenerator{}, nil)

	req := httptest.NewRequest("GET", "/api/usage?period=year", http.NoBody)
	rr := httptest.NewRecorder()
	s.GetUsage(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestHealthCheck_Healthy_200(t *testing.T) {
	s := newTestServer(&stubGenerator{}, nil)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	s.HealthCheck(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status: got %q, want %q", resp.Status, "ok")
	}
	if resp.Checks["database"] != "ok" {
		t.Errorf("database check: got %q, want %q", resp.Checks["database"], "ok")
	}
}

func TestHealthCheck_DBDown_503(t *testing.T) {
	s := newTestServer(&stubGenerator{}, errors.New("conn refused"))

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	s.HealthCheck(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
