package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_FullConfig(t *testing.T) {
	yaml := `server:
  host: files.example.com
  port: 8889

root: /srv/outbox

transfer:
  chunk_size: 8192
  write_timeout: 30s

retry:
  max_attempts: 5
  delay: 2s
  dial_timeout: 10s

journal: /var/lib/courier/journal.bin
progress: tui
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "server.host", cfg.Server.Host, "files.example.com")
	if cfg.Server.Port != 8889 {
		t.Errorf("server.port: got %d, want 8889", cfg.Server.Port)
	}
	assertEqual(t, "root", cfg.Root, "/srv/outbox")

	if cfg.Transfer.ChunkSize != 8192 {
		t.Errorf("transfer.chunk_size: got %d, want 8192", cfg.Transfer.ChunkSize)
	}
	if cfg.Transfer.WriteTimeout.Duration != 30*time.Second {
		t.Errorf("transfer.write_timeout: got %v, want 30s", cfg.Transfer.WriteTimeout.Duration)
	}

	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("retry.max_attempts: got %d, want 5", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.Delay.Duration != 2*time.Second {
		t.Errorf("retry.delay: got %v, want 2s", cfg.Retry.Delay.Duration)
	}
	if cfg.Retry.DialTimeout.Duration != 10*time.Second {
		t.Errorf("retry.dial_timeout: got %v, want 10s", cfg.Retry.DialTimeout.Duration)
	}

	assertEqual(t, "journal", cfg.Journal, "/var/lib/courier/journal.bin")
	assertEqual(t, "progress", cfg.Progress, "tui")
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Host != "" {
		t.Errorf("expected empty host, got %q", cfg.Server.Host)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/courier.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_HOST", "expanded.example.com")

	yaml := `server:
  host: ${TEST_HOST}
  port: ${TEST_PORT:-8889}
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "server.host", cfg.Server.Host, "expanded.example.com")
	if cfg.Server.Port != 8889 {
		t.Errorf("server.port: got %d, want 8889 from default", cfg.Server.Port)
	}
}

func TestDuration_InvalidFormat(t *testing.T) {
	yaml := `retry:
  delay: not-a-duration
`
	path := writeTemp(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error should mention invalid duration, got: %v", err)
	}
}

func TestDuration_EmptyIsZero(t *testing.T) {
	yaml := `retry:
  delay: ""
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Retry.Delay.Duration != 0 {
		t.Errorf("expected zero duration, got %v", cfg.Retry.Delay.Duration)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Transfer.ChunkSize != 4096 {
		t.Errorf("chunk_size default: got %d, want 4096", cfg.Transfer.ChunkSize)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("max_attempts default: got %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.Delay.Duration != 5*time.Second {
		t.Errorf("retry delay default: got %v, want 5s", cfg.Retry.Delay.Duration)
	}
	if cfg.Progress != ProgressConsole {
		t.Errorf("progress default: got %q, want console", cfg.Progress)
	}
	if cfg.Transfer.WriteTimeout.Duration != 0 {
		t.Errorf("write_timeout should stay disabled, got %v", cfg.Transfer.WriteTimeout.Duration)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Transfer.ChunkSize = 1024
	cfg.Retry.MaxAttempts = 7
	cfg.ApplyDefaults()

	if cfg.Transfer.ChunkSize != 1024 {
		t.Errorf("chunk_size overwritten: got %d", cfg.Transfer.ChunkSize)
	}
	if cfg.Retry.MaxAttempts != 7 {
		t.Errorf("max_attempts overwritten: got %d", cfg.Retry.MaxAttempts)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Server.Host = "files.example.com"
		cfg.Server.Port = 8889
		cfg.Root = "/srv/outbox"
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing host", func(c *Config) { c.Server.Host = "" }, "host"},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "port"},
		{"missing root", func(c *Config) { c.Root = "" }, "root"},
		{"negative chunk", func(c *Config) { c.Transfer.ChunkSize = -1 }, "chunk"},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = -1 }, "attempts"},
		{"bad progress mode", func(c *Config) { c.Progress = "fancy" }, "progress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

// writeTemp writes content to a temp file and returns the path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "courier.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}
