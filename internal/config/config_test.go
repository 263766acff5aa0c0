package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionTTL != 1200*time.Second {
		t.Fatalf("expected default TTL 1200s, got %v", cfg.SessionTTL)
	}
	if cfg.WizardVersion != "1.0" {
		t.Fatalf("unexpected version %q", cfg.WizardVersion)
	}
	if cfg.ShopperCookieName != "wizard_shopper" {
		t.Fatalf("unexpected cookie name %q", cfg.ShopperCookieName)
	}
	if len(cfg.RequiredFields) != 2 || cfg.RequiredFields[0] != "field_1" || cfg.RequiredFields[1] != "field_2" {
		t.Fatalf("unexpected required fields %v", cfg.RequiredFields)
	}
	if cfg.CheckoutURL == "" || cfg.CartURL == "" {
		t.Fatalf("checkout and cart URLs must default from the page base")
	}
}

func TestSessionTTLClamped(t *testing.T) {
	cases := []struct {
		env  string
		want time.Duration
	}{
		{"60", 300 * time.Second},
		{"300", 300 * time.Second},
		{"1800", 1800 * time.Second},
		{"3600", 3600 * time.Second},
		{"7200", 3600 * time.Second},
		{"garbage", 1200 * time.Second},
		{"", 1200 * time.Second},
	}
	for _, c := range cases {
		t.Setenv("SESSION_TTL", c.env)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load with SESSION_TTL=%q: %v", c.env, err)
		}
		if cfg.SessionTTL != c.want {
			t.Fatalf("SESSION_TTL=%q: expected %v, got %v", c.env, c.want, cfg.SessionTTL)
		}
	}
}

func TestStepRules(t *testing.T) {
	t.Setenv("STEP_RULE_2", "quantity > 0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StepRules[2] != "quantity > 0" {
		t.Fatalf("unexpected step rules %v", cfg.StepRules)
	}
	if _, ok := cfg.StepRules[3]; ok {
		t.Fatalf("unset rules must be absent, got %v", cfg.StepRules)
	}
}
