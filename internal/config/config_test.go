package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q; want 8080", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("GinMode = %q; want release", cfg.GinMode)
	}
	if cfg.DefaultTimezone != "UTC" {
		t.Fatalf("DefaultTimezone = %q; want UTC", cfg.DefaultTimezone)
	}
	if cfg.DefaultClosureHour != 0 {
		t.Fatalf("DefaultClosureHour = %d; want 0", cfg.DefaultClosureHour)
	}
	if cfg.FreeTierHabitLimit != 1 {
		t.Fatalf("FreeTierHabitLimit = %d; want 1", cfg.FreeTierHabitLimit)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("APIBasePath = %q; want /api/v1", cfg.APIBasePath)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("ReadTimeout = %v; want 15s", cfg.ReadTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_TIMEZONE", "America/Lima")
	t.Setenv("DEFAULT_CLOSURE_HOUR", "4")
	t.Setenv("LOG_LEVEL", "warning") // normalized to warn
	t.Setenv("GIN_MODE", "weird")    // coerced to release
	t.Setenv("API_BASE_PATH", "api/v2/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.DefaultTimezone != "America/Lima" {
		t.Fatalf("DefaultTimezone = %q", cfg.DefaultTimezone)
	}
	if cfg.DefaultClosureHour != 4 {
		t.Fatalf("DefaultClosureHour = %d", cfg.DefaultClosureHour)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q; want warn", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("GinMode = %q; want release", cfg.GinMode)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("APIBasePath = %q; want /api/v2", cfg.APIBasePath)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		key string
		val string
	}{
		{"LOG_LEVEL", "verbose"},
		{"DEFAULT_CLOSURE_HOUR", "24"},
		{"DEFAULT_CLOSURE_HOUR", "-1"},
		{"RATE_BURST", "0"},
		{"OTEL_TRACES_SAMPLER_ARG", "1.5"},
		{"FREE_TIER_HABIT_LIMIT", "-3"},
	}
	for _, c := range cases {
		t.Run(c.key+"="+c.val, func(t *testing.T) {
			t.Setenv(c.key, c.val)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%s: expected error", c.key, c.val)
			}
		})
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api/":   "/api",
		"/api/v1": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q; want %q", in, got, want)
		}
	}
}
