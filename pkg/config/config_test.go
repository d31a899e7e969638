package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: test
upstream:
  base_url: http://upstream:9000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Upstream.BaseURL != "http://upstream:9000" {
		t.Fatalf("base_url = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.RetryCount != 30 {
		t.Fatalf("retry_count = %d, want default 30", cfg.Upstream.RetryCount)
	}
	if cfg.Upstream.RetryDelay != 2*time.Second {
		t.Fatalf("retry_delay = %v, want default 2s", cfg.Upstream.RetryDelay)
	}
	if cfg.Intelligence.PriceSanityCeiling != 1_000_000 {
		t.Fatalf("ceiling = %f", cfg.Intelligence.PriceSanityCeiling)
	}
	if _, ok := cfg.Intelligence.StaticFallback["NVDA"]; !ok {
		t.Fatal("default static fallback table missing")
	}
	if len(cfg.Intelligence.FailsafeTickers) == 0 {
		t.Fatal("default failsafe tickers missing")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: test
`)

	t.Setenv("UPSTREAM_BASE_URL", "http://env-upstream:8001")
	t.Setenv("UPSTREAM_RETRY_COUNT", "5")
	t.Setenv("UPSTREAM_RETRY_DELAY_MS", "250")
	t.Setenv("PRICE_SANITY_CEILING", "500000")
	t.Setenv("REDIS_ADDR", "redis-host:6390")
	t.Setenv("PORT", "9999")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Upstream.BaseURL != "http://env-upstream:8001" {
		t.Fatalf("base_url = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.RetryCount != 5 {
		t.Fatalf("retry_count = %d", cfg.Upstream.RetryCount)
	}
	if cfg.Upstream.RetryDelay != 250*time.Millisecond {
		t.Fatalf("retry_delay = %v", cfg.Upstream.RetryDelay)
	}
	if cfg.Intelligence.PriceSanityCeiling != 500_000 {
		t.Fatalf("ceiling = %f", cfg.Intelligence.PriceSanityCeiling)
	}
	if cfg.Redis.Host != "redis-host" || cfg.Redis.Port != 6390 {
		t.Fatalf("redis = %s:%d", cfg.Redis.Host, cfg.Redis.Port)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []string{
		"environment: test\nupstream:\n  base_url: \"\"\n",
		"environment: test\nupstream:\n  retry_count: -1\n",
		"environment: test\nintelligence:\n  price_sanity_ceiling: 0\n",
	}
	for i, content := range cases {
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
