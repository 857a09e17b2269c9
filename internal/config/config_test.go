package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TOKEN_SECRET", "test-secret")
}

func TestParseDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Port != 5000 {
		t.Fatalf("expected default port 5000, got %d", cfg.Port)
	}
	if cfg.AccessTokenExpiry != 15*time.Minute {
		t.Fatalf("unexpected access token expiry %v", cfg.AccessTokenExpiry)
	}
	if cfg.Production() {
		t.Fatal("default environment must not be production")
	}
	if cfg.Database() != "farmbit_test" {
		t.Fatalf("expected test database, got %q", cfg.Database())
	}
	if cfg.MaxFileSizeBytes() != 5*1024*1024 {
		t.Fatalf("unexpected size ceiling %d", cfg.MaxFileSizeBytes())
	}
}

func TestParseRequiresTokenSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")

	if _, err := Parse(); err == nil {
		t.Fatal("expected an error without TOKEN_SECRET")
	}
}

func TestParseRejectsInvertedExpiries(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_EXPIRY", "48h")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "1h")

	if _, err := Parse(); err == nil {
		t.Fatal("expected an error when the access token outlives the refresh token")
	}
}

func TestProductionSelectsLiveSettings(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_NAME_LIVE", "farmbit_prod")
	t.Setenv("ORIGINS_WHITELIST", "http://localhost:3000")
	t.Setenv("ORIGINS_WHITELIST_LIVE", "https://farmbit.app, https://admin.farmbit.app")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Database() != "farmbit_prod" {
		t.Fatalf("expected live database, got %q", cfg.Database())
	}

	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[0] != "https://farmbit.app" || origins[1] != "https://admin.farmbit.app" {
		t.Fatalf("unexpected origins %v", origins)
	}
}

func TestAllowedOriginsEmpty(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if origins := cfg.AllowedOrigins(); origins != nil {
		t.Fatalf("expected no origins, got %v", origins)
	}
}
