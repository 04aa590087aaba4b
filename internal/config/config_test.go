package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8000},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Model: ModelConfig{
			APIKey: "test-key",
			Name:   "Qwen/Qwen2.5-72B-Instruct",
		},
	}
}

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := validConfig()
	cfg.Model.Budget = BudgetConfig{
		DailyTokenLimit: 1000000,
		Action:          "invalid_action",
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `model.budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	for _, action := range []string{"", "warn", "reject"} {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.Model.Budget.Action = action

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingModelName(t *testing.T) {
	cfg := validConfig()
	cfg.Model.Name = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing model name")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8000 {
		t.Errorf("expected Port=8000, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Model.MaxTokens != 1024 {
		t.Errorf("expected MaxTokens=1024, got %d", cfg.Model.MaxTokens)
	}
	if cfg.Cache.TTLHours != 24 {
		t.Errorf("expected TTLHours=24, got %d", cfg.Cache.TTLHours)
	}
}

func TestApplyDefaults_RateLimitBurst(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{RateLimitRPS: 2.5}}
	cfg.ApplyDefaults()

	if cfg.HTTP.RateLimitBurst != 3 {
		t.Errorf("expected RateLimitBurst=3, got %d", cfg.HTTP.RateLimitBurst)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}

	yaml := `
http:
  port: 8000
database:
  addrs: ["localhost:6379"]
model:
  api_key: ${ORMGEN_TEST_API_KEY}
  base_url: ${ORMGEN_TEST_BASE_URL:-https://api.example.com/v1}
  name: test-model
`
	if err := os.WriteFile(filepath.Join(cfgDir, "test.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ORMGEN_TEST_API_KEY", "sekret")
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatal(err)
		}
	})

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.APIKey != "sekret" {
		t.Errorf("expected api key from env, got %q", cfg.Model.APIKey)
	}
	if cfg.Model.BaseURL != "https://api.example.com/v1" {
		t.Errorf("expected default base url, got %q", cfg.Model.BaseURL)
	}
}
