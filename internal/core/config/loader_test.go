package config

import (
	"os"
	"testing"
	"time"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad_EnvSubstitution(t *testing.T) {
	os.Setenv("TEST_API_URL", "https://api.example.com")
	defer os.Unsetenv("TEST_API_URL")

	path := writeTemp(t, `
api:
  base_url: ${TEST_API_URL}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("Expected base URL https://api.example.com, got %s", cfg.API.BaseURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeTemp(t, `
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Mode != "mock" {
		t.Errorf("Mode = %q, want mock", cfg.Mode)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BackoffMultiplier != 2.0 {
		t.Errorf("Retry defaults = %+v", cfg.Retry)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("API timeout = %v, want 15s", cfg.API.Timeout)
	}
	if cfg.Mock.FailureRate != 0.05 {
		t.Errorf("Mock failure rate = %v, want 0.05", cfg.Mock.FailureRate)
	}
}

func TestLoad_Durations(t *testing.T) {
	path := writeTemp(t, `
retry:
  max_attempts: 5
  base_delay: 250ms
  max_delay: 1m
mock:
  latency: 10ms
  failure_rate: 0.5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Retry.BaseDelay != 250*time.Millisecond || cfg.Retry.MaxDelay != time.Minute {
		t.Errorf("Retry delays = %+v", cfg.Retry)
	}
	if cfg.Mock.Latency != 10*time.Millisecond || cfg.Mock.FailureRate != 0.5 {
		t.Errorf("Mock = %+v", cfg.Mock)
	}
}
