package server

import (
	"context"
	"flag"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 55555 {
		t.Fatalf("expected default port 55555, got %d", cfg.Port)
	}
	if cfg.Addr != "" {
		t.Fatalf("expected empty default addr, got %q", cfg.Addr)
	}
}

func TestParseConfigEnvOverride(t *testing.T) {
	t.Setenv("BMI_BRIDGE_PORT", "6000")
	t.Setenv("BMI_BRIDGE_ADDR", "127.0.0.1:6001")
	t.Setenv("BMI_BRIDGE_MODEL_CONFIG", "heat.yaml")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 6000 {
		t.Fatalf("expected port 6000, got %d", cfg.Port)
	}
	if cfg.Addr != "127.0.0.1:6001" {
		t.Fatalf("expected addr override, got %q", cfg.Addr)
	}
	if cfg.ModelConfig != "heat.yaml" {
		t.Fatalf("expected model config override, got %q", cfg.ModelConfig)
	}
}

func TestParseConfigFlagBeatsEnv(t *testing.T) {
	t.Setenv("BMI_BRIDGE_PORT", "6000")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "7000"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 7000 {
		t.Fatalf("expected flag to win with port 7000, got %d", cfg.Port)
	}
}

func TestParseConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("BMI_BRIDGE_PORT", "not-a-port")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-bogus"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestRunFailsOnBadModelConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := Config{
		Addr:        "127.0.0.1:0",
		ModelConfig: filepath.Join(t.TempDir(), "missing.yaml"),
	}
	if err := Run(ctx, cfg); err == nil {
		t.Fatal("expected error for missing model config")
	}
}
