package config

import (
	"fmt"
	"time"

	"github.com/pithecene-io/courier/deliver"
	"github.com/pithecene-io/courier/wire"
)

// Config represents a courier.yaml configuration file.
// All values act as defaults for courier send flags; CLI flags always
// override config values. Host, port, and root have no built-in defaults:
// they are externally supplied, never embedded in core logic.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Root     string         `yaml:"root"`
	Transfer TransferConfig `yaml:"transfer"`
	Retry    RetryConfig    `yaml:"retry"`
	Journal  string         `yaml:"journal"`
	Progress string         `yaml:"progress"`
}

// ServerConfig locates the remote endpoint.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransferConfig tunes the per-file protocol.
type TransferConfig struct {
	ChunkSize    int      `yaml:"chunk_size"`
	WriteTimeout Duration `yaml:"write_timeout"`
}

// RetryConfig tunes the connection retry state machine.
type RetryConfig struct {
	MaxAttempts int      `yaml:"max_attempts"`
	Delay       Duration `yaml:"delay"`
	DialTimeout Duration `yaml:"dial_timeout"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Progress modes accepted in config and flags.
const (
	ProgressConsole = "console"
	ProgressTUI     = "tui"
	ProgressNone    = "none"
)

// ApplyDefaults fills unset tuning values. Endpoint and root are left
// untouched; Validate rejects them when missing.
func (c *Config) ApplyDefaults() {
	if c.Transfer.ChunkSize == 0 {
		c.Transfer.ChunkSize = wire.DefaultChunkSize
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = deliver.DefaultMaxAttempts
	}
	if c.Retry.Delay.Duration == 0 {
		c.Retry.Delay.Duration = deliver.DefaultRetryDelay
	}
	if c.Progress == "" {
		c.Progress = ProgressConsole
	}
}

// Validate checks that the configuration can drive a batch.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server host is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Root == "" {
		return fmt.Errorf("root directory is required")
	}
	if c.Transfer.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive")
	}
	switch c.Progress {
	case ProgressConsole, ProgressTUI, ProgressNone:
	default:
		return fmt.Errorf("invalid progress mode %q (must be console, tui, or none)", c.Progress)
	}
	return nil
}
