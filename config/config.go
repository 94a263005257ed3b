// Package config holds readalong's runtime configuration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Engine names.
const (
	EngineMock    = "mock"
	EngineCommand = "command"
	EnginePiper   = "piper"
)

// Engines lists every selectable speech engine.
var Engines = []string{EngineMock, EngineCommand, EnginePiper}

// Config contains all readalong configuration options.
type Config struct {
	// Speech engine used by the playback scheduler
	Engine string `yaml:"engine" env:"READALONG_ENGINE" envDefault:"mock"`

	// Log level: debug, info, warn or error
	LogLevel string `yaml:"log_level" env:"READALONG_LOG_LEVEL" envDefault:"info"`

	// Engine-specific configurations
	Mock    MockConfig    `yaml:"mock"`
	Command CommandConfig `yaml:"command"`
	Piper   PiperConfig   `yaml:"piper"`

	// Synthesized audio cache
	Cache CacheConfig `yaml:"cache"`
}

// MockConfig contains settings for the simulated engine. The mock engine
// completes each utterance after Latency plus a random amount up to Jitter.
type MockConfig struct {
	Latency     time.Duration `yaml:"latency" env:"READALONG_MOCK_LATENCY" envDefault:"250ms"`
	Jitter      time.Duration `yaml:"jitter" env:"READALONG_MOCK_JITTER" envDefault:"150ms"`
	FailureRate float64       `yaml:"failure_rate" env:"READALONG_MOCK_FAILURE_RATE" envDefault:"0.0"`
}

// CommandConfig contains settings for the system speech command engine.
// An empty Binary selects "say" on macOS and espeak-ng elsewhere.
type CommandConfig struct {
	Binary string   `yaml:"binary" env:"READALONG_COMMAND_BINARY"`
	Args   []string `yaml:"args" env:"READALONG_COMMAND_ARGS"`
}

// PiperConfig contains Piper engine settings.
type PiperConfig struct {
	Binary  string        `yaml:"binary" env:"READALONG_PIPER_BINARY" envDefault:"piper"`
	Model   string        `yaml:"model" env:"READALONG_PIPER_MODEL"`
	Speaker int           `yaml:"speaker" env:"READALONG_PIPER_SPEAKER" envDefault:"0"`
	Timeout time.Duration `yaml:"timeout" env:"READALONG_PIPER_TIMEOUT" envDefault:"30s"`
}

// CacheConfig contains settings for the synthesized audio cache.
type CacheConfig struct {
	Enabled          bool   `yaml:"enabled" env:"READALONG_CACHE_ENABLED" envDefault:"true"`
	Dir              string `yaml:"dir" env:"READALONG_CACHE_DIR"`
	MemoryMB         int    `yaml:"memory_mb" env:"READALONG_CACHE_MEMORY_MB" envDefault:"16"`
	DiskMB           int    `yaml:"disk_mb" env:"READALONG_CACHE_DISK_MB" envDefault:"256"`
	CompressionLevel int    `yaml:"compression_level" env:"READALONG_CACHE_COMPRESSION_LEVEL" envDefault:"3"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine:   EngineMock,
		LogLevel: "info",
		Mock:     DefaultMockConfig(),
		Piper:    DefaultPiperConfig(),
		Cache:    DefaultCacheConfig(),
	}
}

// DefaultMockConfig returns default mock engine configuration.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		Latency: 250 * time.Millisecond,
		Jitter:  150 * time.Millisecond,
	}
}

// DefaultPiperConfig returns default Piper configuration.
func DefaultPiperConfig() PiperConfig {
	return PiperConfig{
		Binary:  "piper",
		Timeout: 30 * time.Second,
	}
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:          true,
		MemoryMB:         16,
		DiskMB:           256,
		CompressionLevel: 3,
	}
}

// Validate checks the configuration and normalizes case-insensitive values.
func (c *Config) Validate() error {
	engineValid := false
	for _, e := range Engines {
		if strings.EqualFold(c.Engine, e) {
			engineValid = true
			c.Engine = e
			break
		}
	}
	if !engineValid {
		return fmt.Errorf("invalid engine '%s': must be one of %v", c.Engine, Engines)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		return fmt.Errorf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.Engine {
	case EngineMock:
		if err := c.Mock.Validate(); err != nil {
			return fmt.Errorf("mock config: %w", err)
		}
	case EnginePiper:
		if err := c.Piper.Validate(); err != nil {
			return fmt.Errorf("piper config: %w", err)
		}
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	return nil
}

// Validate checks if the mock configuration is valid.
func (c *MockConfig) Validate() error {
	if c.Latency < 0 || c.Jitter < 0 {
		return fmt.Errorf("latency and jitter must not be negative, got %v and %v", c.Latency, c.Jitter)
	}
	if c.FailureRate < 0.0 || c.FailureRate > 1.0 {
		return fmt.Errorf("failure_rate must be between 0.0 and 1.0, got %f", c.FailureRate)
	}
	return nil
}

// Validate checks if the Piper configuration is valid.
func (c *PiperConfig) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("piper binary path cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("piper model cannot be empty")
	}
	if c.Speaker < 0 {
		return fmt.Errorf("speaker must not be negative, got %d", c.Speaker)
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1 second, got %v", c.Timeout)
	}
	return nil
}

// Validate checks if the cache configuration is valid.
func (c *CacheConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.MemoryMB < 1 || c.MemoryMB > 1024 {
		return fmt.Errorf("memory_mb must be between 1 and 1024, got %d", c.MemoryMB)
	}
	if c.DiskMB < 0 || c.DiskMB > 10000 {
		return fmt.Errorf("disk_mb must be between 0 and 10000, got %d", c.DiskMB)
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 22 {
		return fmt.Errorf("compression_level must be between 0 and 22, got %d", c.CompressionLevel)
	}
	return nil
}
