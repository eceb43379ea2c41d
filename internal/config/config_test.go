package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Scheduler.PollInterval != 60*time.Second {
		t.Fatalf("poll interval default: %v", cfg.Scheduler.PollInterval)
	}
	if cfg.Scheduler.TriggerHour != 2 || cfg.Scheduler.TriggerMinute != 0 {
		t.Fatalf("trigger defaults: %d:%d", cfg.Scheduler.TriggerHour, cfg.Scheduler.TriggerMinute)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("server port default: %d", cfg.Server.Port)
	}
	if cfg.Similarity.EmbeddingDims != 64 {
		t.Fatalf("embedding dims default: %d", cfg.Similarity.EmbeddingDims)
	}
	if cfg.Simulation.DefaultRounds != 500 || cfg.Simulation.DefaultEpisodes != 500 {
		t.Fatalf("simulation defaults: %+v", cfg.Simulation)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
app:
  environment: production
scheduler:
  poll_interval: 30s
  trigger_hour: 4
server:
  port: 9090
similarity:
  embedding_dims: 128
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.App.Environment != "production" {
		t.Fatalf("environment: %q", cfg.App.Environment)
	}
	if cfg.Scheduler.PollInterval != 30*time.Second {
		t.Fatalf("poll interval: %v", cfg.Scheduler.PollInterval)
	}
	if cfg.Scheduler.TriggerHour != 4 {
		t.Fatalf("trigger hour: %d", cfg.Scheduler.TriggerHour)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("server port: %d", cfg.Server.Port)
	}
	if cfg.Similarity.EmbeddingDims != 128 {
		t.Fatalf("embedding dims: %d", cfg.Similarity.EmbeddingDims)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("read timeout default lost: %v", cfg.Server.ReadTimeout)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero poll interval", func(c *Config) { c.Scheduler.PollInterval = 0 }},
		{"trigger hour out of range", func(c *Config) { c.Scheduler.TriggerHour = 24 }},
		{"trigger minute out of range", func(c *Config) { c.Scheduler.TriggerMinute = 60 }},
		{"invalid port", func(c *Config) { c.Server.Port = 0 }},
		{"zero embedding dims", func(c *Config) { c.Similarity.EmbeddingDims = 0 }},
	}

	for _, tc := range cases {
		cfg := base()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestResolveMaxPoints(t *testing.T) {
	cfg := &Config{Export: ExportConfig{MaxDataPoints: 1000}}

	if got := cfg.ResolveMaxPoints(0); got != 1000 {
		t.Fatalf("expected config default, got %d", got)
	}
	if got := cfg.ResolveMaxPoints(50); got != 50 {
		t.Fatalf("expected override, got %d", got)
	}
}
