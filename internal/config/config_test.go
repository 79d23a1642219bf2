package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("WITHDRAWAL_MIN_AMOUNT", "not-a-number")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.LedgerDriver != LedgerDriverKV {
		t.Fatalf("expected kv ledger by default, got %q", cfg.LedgerDriver)
	}
	if !cfg.LedgerPersistOnRead {
		t.Fatal("expected persist-on-read to default to true")
	}
	if cfg.PostbackDedupeEnabled {
		t.Fatal("expected postback dedupe to be off by default")
	}
	if !cfg.MockConversionsEnabled {
		t.Fatal("expected mock conversions on in development")
	}
	if !cfg.WithdrawalMinAmount.Equal(decimal.RequireFromString("0.50")) {
		t.Fatalf("expected fallback minimum 0.50, got %s", cfg.WithdrawalMinAmount)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("STORAGE_DRIVER", StorageDriverRedis)
	t.Setenv("LEDGER_DRIVER", LedgerDriverPostgres)
	t.Setenv("POSTBACK_DEDUPE_ENABLED", "true")
	t.Setenv("POSTBACK_DEDUPE_TTL", "1h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("WITHDRAWAL_MIN_AMOUNT", "5")
	t.Setenv("MOCK_CONVERSIONS_ENABLED", "")

	cfg := Load()

	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Fatalf("expected production env, got %q", cfg.Env)
	}
	if cfg.StorageDriver != StorageDriverRedis || cfg.LedgerDriver != LedgerDriverPostgres {
		t.Fatalf("unexpected drivers: %q %q", cfg.StorageDriver, cfg.LedgerDriver)
	}
	if !cfg.PostbackDedupeEnabled || cfg.PostbackDedupeTTL != time.Hour {
		t.Fatalf("unexpected dedupe settings: %v %v", cfg.PostbackDedupeEnabled, cfg.PostbackDedupeTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if !cfg.WithdrawalMinAmount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected minimum 5, got %s", cfg.WithdrawalMinAmount)
	}
	if cfg.MockConversionsEnabled {
		t.Fatal("expected mock conversions off when unset outside development")
	}
}

func TestParseStringSliceSkipsEmptyItems(t *testing.T) {
	got := parseStringSlice("a,,b,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected slice: %v", got)
	}
	if len(parseStringSlice("")) != 0 {
		t.Fatal("expected empty slice")
	}
}
