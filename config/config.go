// Package config loads engine settings from an optional YAML file plus
// CAMPUSMESH_-prefixed environment variables. Environment values win over the
// file; both win over built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/campusmesh/campusmesh/core"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CAMPUSMESH_"

type Config struct {
	Log      LogConfig      `koanf:"log"`
	Storage  StorageConfig  `koanf:"storage"`
	Executor ExecutorConfig `koanf:"executor"`
	Runner   RunnerConfig   `koanf:"runner"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type StorageConfig struct {
	// Path locates the SQLite database file. Required.
	Path string `koanf:"path"`
	// InstructionsDir optionally overrides built-in agent instructions with
	// per-agent text files.
	InstructionsDir string `koanf:"instructions_dir"`
}

type ExecutorConfig struct {
	Provider string `koanf:"provider"` // openai, anthropic
	Model    string `koanf:"model"`
	APIKey   string `koanf:"api_key"`
}

type RunnerConfig struct {
	MaxTurns int `koanf:"max_turns"`
}

// Load reads configuration from path (skipped when empty) and the
// environment, then validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("storage.path", "")
	k.Set("executor.provider", "openai")
	k.Set("executor.model", "")
	k.Set("runner.max_turns", 10)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: load %s: %v", core.ErrConfiguration, path, err)
		}
	}

	// CAMPUSMESH_STORAGE_PATH -> storage.path
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("%w: load environment: %v", core.ErrConfiguration, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path is required (set CAMPUSMESH_STORAGE_PATH or storage.path in the config file)", core.ErrConfiguration)
	}
	switch c.Executor.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("%w: unknown executor provider %q", core.ErrConfiguration, c.Executor.Provider)
	}
	if c.Runner.MaxTurns < 0 {
		return fmt.Errorf("%w: runner.max_turns must not be negative", core.ErrConfiguration)
	}
	return nil
}
