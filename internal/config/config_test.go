package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("expected default redis addr, got %q", cfg.RedisAddr)
	}
	if cfg.GeminiModel != "gemini-1.5-pro" {
		t.Errorf("expected default model, got %q", cfg.GeminiModel)
	}
	if cfg.GenerateTimeout != 90*time.Second {
		t.Errorf("expected default timeout 90s, got %v", cfg.GenerateTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ADMIN_SECRET_KEY", "hunter2")
	t.Setenv("GENERATE_TIMEOUT", "30s")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.ServerPort)
	}
	if cfg.AdminSecret != "hunter2" {
		t.Errorf("expected admin secret from env, got %q", cfg.AdminSecret)
	}
	if cfg.GenerateTimeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.GenerateTimeout)
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("GENERATE_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.GenerateTimeout != 90*time.Second {
		t.Errorf("expected fallback timeout, got %v", cfg.GenerateTimeout)
	}
}
