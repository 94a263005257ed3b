package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.Engine != EngineMock {
		t.Errorf("default engine = %q, want %q", cfg.Engine, EngineMock)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"unknown engine", func(c *Config) { c.Engine = "google" }, "invalid engine"},
		{"engine case", func(c *Config) { c.Engine = "MOCK" }, ""},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"negative latency", func(c *Config) { c.Mock.Latency = -time.Second }, "latency"},
		{"failure rate", func(c *Config) { c.Mock.FailureRate = 1.5 }, "failure_rate"},
		{"piper without model", func(c *Config) { c.Engine = EnginePiper }, "model"},
		{"piper timeout", func(c *Config) {
			c.Engine = EnginePiper
			c.Piper.Model = "voice.onnx"
			c.Piper.Timeout = time.Millisecond
		}, "timeout"},
		{"cache memory", func(c *Config) { c.Cache.MemoryMB = 0 }, "memory_mb"},
		{"cache disabled skips checks", func(c *Config) {
			c.Cache.Enabled = false
			c.Cache.MemoryMB = 0
		}, ""},
		{"compression level", func(c *Config) { c.Cache.CompressionLevel = 30 }, "compression_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromDefaultFile(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(DefaultFile)); err != nil {
		t.Fatalf("default file does not parse: %v", err)
	}

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Mock.Latency != 250*time.Millisecond {
		t.Errorf("mock latency = %v", cfg.Mock.Latency)
	}
	if cfg.Cache.DiskMB != 256 {
		t.Errorf("cache disk = %d", cfg.Cache.DiskMB)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	v := viper.New()
	v.Set("engine", "command")
	v.Set("command.binary", "espeak")
	v.Set("command.args", []string{"-s", "160"})
	v.Set("debug", true)

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Engine != EngineCommand {
		t.Errorf("engine = %q", cfg.Engine)
	}
	if cfg.Command.Binary != "espeak" || len(cfg.Command.Args) != 2 {
		t.Errorf("command config = %+v", cfg.Command)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("debug flag should force log level, got %q", cfg.LogLevel)
	}
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	v := viper.New()
	v.Set("engine", "piper")

	if _, err := LoadFrom(v); err == nil {
		t.Error("expected error for piper without a model")
	}
}

func TestLoadFromExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	v := viper.New()
	v.Set("piper.model", "~/voices/en_US.onnx")
	v.Set("cache.dir", "/var/cache/readalong")

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if want := filepath.Join(home, "voices", "en_US.onnx"); cfg.Piper.Model != want {
		t.Errorf("model = %q, want %q", cfg.Piper.Model, want)
	}
	if cfg.Cache.Dir != "/var/cache/readalong" {
		t.Errorf("absolute dir changed to %q", cfg.Cache.Dir)
	}
}
