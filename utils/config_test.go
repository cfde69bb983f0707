package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Grid.Rows != 50 || cfg.Grid.Cols != 50 {
		t.Fatalf("default grid = %dx%d, want 50x50", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.Loop.Interval != 100*time.Millisecond {
		t.Fatalf("default interval = %v, want 100ms", cfg.Loop.Interval)
	}
	if cfg.Telemetry.BatchSize != 100 || cfg.Telemetry.EWMAAlpha != 0.1 {
		t.Fatalf("default telemetry = %+v", cfg.Telemetry)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "grid:\n  rows: 20\nloop:\n  interval: 250ms\ncompute:\n  mode: inline\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Grid.Rows != 20 || cfg.Grid.Cols != 50 {
		t.Fatalf("grid = %dx%d, want 20x50", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.Loop.Interval != 250*time.Millisecond {
		t.Fatalf("interval = %v, want 250ms", cfg.Loop.Interval)
	}
	if cfg.Compute.Mode != "inline" {
		t.Fatalf("mode = %q, want inline", cfg.Compute.Mode)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  rows: -3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("negative rows accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cols", func(c *Config) { c.Grid.Cols = 0 }},
		{"density above one", func(c *Config) { c.Grid.RandomDensity = 1.5 }},
		{"zero interval", func(c *Config) { c.Loop.Interval = 0 }},
		{"unknown mode", func(c *Config) { c.Compute.Mode = "gpu" }},
		{"zero batch", func(c *Config) { c.Telemetry.BatchSize = 0 }},
		{"alpha above one", func(c *Config) { c.Telemetry.EWMAAlpha = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate accepted invalid config")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Grid.Pattern = "glider"
	cfg.Loop.Interval = 40 * time.Millisecond
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded != cfg {
		t.Fatalf("loaded %+v, want %+v", loaded, cfg)
	}
}
