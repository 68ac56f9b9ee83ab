package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envOf(values map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := fromLookup(envOf(map[string]string{}))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.ListenAddress != ":8080" || cfg.DebugAddress != ":8081" {
		t.Errorf("Expected default addresses, got %s %s", cfg.ListenAddress, cfg.DebugAddress)
	}
	if cfg.RefreshInterval != 300*time.Second {
		t.Errorf("Expected 300s refresh, got %v", cfg.RefreshInterval)
	}
	if cfg.Country != "se" || cfg.SessionLimit != 10000 {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
}

func TestFromEnvironment(t *testing.T) {
	cfg, err := fromLookup(envOf(map[string]string{
		"UPSTREAM_URL":     "http://catalog.local",
		"UPSTREAM_TIMEOUT": "3",
		"CACHE_TTL":        "30",
		"ADMIN_EMAILS":     "anna@example.com, bo@example.com,",
		"SESSION_LIMIT":    "50",
		"COUNTRY":          "no",
	}))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.UpstreamTimeout != 3*time.Second {
		t.Errorf("Expected 3s timeout, got %v", cfg.UpstreamTimeout)
	}
	if cfg.CacheTtl != 30*time.Second {
		t.Errorf("Expected cache ttl 30s, got %v", cfg.CacheTtl)
	}
	if len(cfg.AdminEmails) != 2 || cfg.AdminEmails[1] != "bo@example.com" {
		t.Errorf("Expected two admin emails, got %v", cfg.AdminEmails)
	}
	if cfg.SessionLimit != 50 || cfg.Country != "no" {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestInvalidNumber(t *testing.T) {
	_, err := fromLookup(envOf(map[string]string{"SESSION_LIMIT": "many"}))
	if err == nil || !strings.Contains(err.Error(), "SESSION_LIMIT") {
		t.Errorf("Expected SESSION_LIMIT error, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "missing upstream", mutate: func(c *Config) { c.UpstreamUrl = "" }, wantErr: "UPSTREAM_URL"},
		{name: "upstream without host", mutate: func(c *Config) { c.UpstreamUrl = "/products" }, wantErr: "host"},
		{name: "zero timeout", mutate: func(c *Config) { c.UpstreamTimeout = 0 }, wantErr: "timeout"},
		{name: "zero sessions", mutate: func(c *Config) { c.SessionLimit = 0 }, wantErr: "session"},
		{name: "zero cache ttl", mutate: func(c *Config) { c.CacheTtl = 0 }, wantErr: "cache ttl"},
		{name: "google without admins", mutate: func(c *Config) {
			c.GoogleClientId = "id"
			c.GoogleClientSecret = "secret"
			c.CallbackUrl = "http://localhost/admin/auth_callback"
			c.TokenSecret = "token"
		}, wantErr: "ADMIN_EMAILS"},
		{name: "google without secret", mutate: func(c *Config) {
			c.GoogleClientId = "id"
			c.GoogleClientSecret = "secret"
			c.CallbackUrl = "http://localhost/admin/auth_callback"
		}, wantErr: "TOKEN_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.UpstreamUrl = "http://catalog.local"
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("BOUTIQUE_TEST_VALUE=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOUTIQUE_TEST_VALUE", "")
	os.Unsetenv("BOUTIQUE_TEST_VALUE")
	if _, err := Load(path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := os.Getenv("BOUTIQUE_TEST_VALUE"); got != "from-file" {
		t.Errorf("Expected from-file, got %q", got)
	}
}

func TestParsePriceBands(t *testing.T) {
	bands, err := ParsePriceBands([]byte("bands:\n  - 0-500\n  - 500-1500\n  - 1500-\n"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(bands) != 3 {
		t.Fatalf("Expected 3 bands, got %d", len(bands))
	}
	if bands[2].Max != nil || bands[2].Min != 1500 {
		t.Errorf("Expected open band from 1500, got %v", bands[2])
	}
	if _, err := ParsePriceBands([]byte("bands:\n  - cheap\n")); err == nil {
		t.Error("Expected error for invalid band")
	}
	if _, err := ParsePriceBands([]byte("bands: []\n")); err == nil {
		t.Error("Expected error for empty band list")
	}
}

func TestLoadPriceBandsDefault(t *testing.T) {
	bands, err := LoadPriceBands("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(bands) != len(DefaultPriceBands()) {
		t.Errorf("Expected default bands, got %v", bands)
	}
}
