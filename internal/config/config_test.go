package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.Database.SSLMode != "disable" || cfg.Database.MaxConnections != 10 {
		t.Fatalf("database defaults = %q/%d", cfg.Database.SSLMode, cfg.Database.MaxConnections)
	}
	if cfg.Payments.Payload != "DIETBOT-DONATE" || cfg.Payments.Currency != "XTR" || cfg.Payments.Amount != 100 {
		t.Fatalf("payments defaults = %+v", cfg.Payments)
	}
	if cfg.Dialog.FoodsWindowSeconds != 60 {
		t.Fatalf("foods window default = %d", cfg.Dialog.FoodsWindowSeconds)
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	err := Normalize(&Config{})
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestNormalizeWebhookValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("webhook mode without url should fail")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatal(err)
	}
}

func TestNormalizeRateLimitExcludes(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"Message", "callback"}
	if err := Normalize(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != "message" {
		t.Fatalf("exclude not normalized: %v", cfg.RateLimit.ExcludeUpdates)
	}

	cfg = validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown exclude kind should fail")
	}
}
