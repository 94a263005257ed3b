package config

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// LoadFromViper builds a Config from the global Viper instance, falling
// back to defaults for every key that is not set.
func LoadFromViper() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom builds a Config from v.
func LoadFrom(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if v.IsSet("engine") {
		cfg.Engine = v.GetString("engine")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.GetBool("debug") {
		cfg.LogLevel = "debug"
	}

	cfg.Mock = loadMockConfig(v)
	cfg.Command = loadCommandConfig(v)
	cfg.Piper = loadPiperConfig(v)
	cfg.Cache = loadCacheConfig(v)

	if err := expandPaths(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// expandPaths resolves a leading ~ in every path setting.
func expandPaths(cfg *Config) error {
	for _, p := range []*string{&cfg.Piper.Binary, &cfg.Piper.Model, &cfg.Cache.Dir} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

func loadMockConfig(v *viper.Viper) MockConfig {
	cfg := DefaultMockConfig()

	if v.IsSet("mock.latency") {
		cfg.Latency = v.GetDuration("mock.latency")
	}
	if v.IsSet("mock.jitter") {
		cfg.Jitter = v.GetDuration("mock.jitter")
	}
	if v.IsSet("mock.failure_rate") {
		cfg.FailureRate = v.GetFloat64("mock.failure_rate")
	}
	return cfg
}

func loadCommandConfig(v *viper.Viper) CommandConfig {
	var cfg CommandConfig

	if v.IsSet("command.binary") {
		cfg.Binary = v.GetString("command.binary")
	}
	if v.IsSet("command.args") {
		cfg.Args = v.GetStringSlice("command.args")
	}
	return cfg
}

func loadPiperConfig(v *viper.Viper) PiperConfig {
	cfg := DefaultPiperConfig()

	if v.IsSet("piper.binary") {
		cfg.Binary = v.GetString("piper.binary")
	}
	if v.IsSet("piper.model") {
		cfg.Model = v.GetString("piper.model")
	}
	if v.IsSet("piper.speaker") {
		cfg.Speaker = v.GetInt("piper.speaker")
	}
	if v.IsSet("piper.timeout") {
		cfg.Timeout = v.GetDuration("piper.timeout")
	}
	return cfg
}

func loadCacheConfig(v *viper.Viper) CacheConfig {
	cfg := DefaultCacheConfig()

	if v.IsSet("cache.enabled") {
		cfg.Enabled = v.GetBool("cache.enabled")
	}
	if v.IsSet("cache.dir") {
		cfg.Dir = v.GetString("cache.dir")
	}
	if v.IsSet("cache.memory_mb") {
		cfg.MemoryMB = v.GetInt("cache.memory_mb")
	}
	if v.IsSet("cache.disk_mb") {
		cfg.DiskMB = v.GetInt("cache.disk_mb")
	}
	if v.IsSet("cache.compression_level") {
		cfg.CompressionLevel = v.GetInt("cache.compression_level")
	}
	return cfg
}

// DefaultFile is the configuration written on first run.
const DefaultFile = `# speech engine: mock, command or piper
engine: "mock"
# log level: debug, info, warn or error
log_level: "info"

# simulated engine
mock:
  latency: "250ms"
  jitter: "150ms"
  failure_rate: 0.0

# system speech command (espeak-ng on Linux, say on macOS when binary is empty)
command:
  binary: ""
  args: []

# Piper neural TTS
piper:
  binary: "piper"
  # model: "/path/to/en_US-lessac-medium.onnx"
  speaker: 0
  timeout: "30s"

# synthesized audio cache (piper only)
cache:
  enabled: true
  # dir: "/path/to/cache"
  memory_mb: 16
  disk_mb: 256
  compression_level: 3
`
