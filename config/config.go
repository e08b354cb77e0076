// Package config loads agent configuration from defaults, an optional YAML
// file, and COBALT_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the agent's environment variables, e.g.
// COBALT_PROVIDER or COBALT_MAX_TURNS.
const envPrefix = "COBALT_"

// SilencePolicy decides what a response with no tool calls and no completion
// signal means.
type SilencePolicy string

const (
	// SilenceClarify re-prompts the model to ask for an actionable response.
	SilenceClarify SilencePolicy = "clarify"
	// SilenceDone treats silence as implicit completion.
	SilenceDone SilencePolicy = "done"
)

// Config holds every tunable of the agent.
type Config struct {
	Workspace      string   `koanf:"workspace"`
	Provider       string   `koanf:"provider"`
	Endpoint       string   `koanf:"endpoint"`
	Model          string   `koanf:"model"`
	Temperature    float64  `koanf:"temperature"`
	MaxTokens      int      `koanf:"max_tokens"`
	TimeoutSeconds int      `koanf:"timeout_seconds"`
	MaxTurns       int      `koanf:"max_turns"`
	SafeMode       bool     `koanf:"safe_mode"`
	AutoConfirm    bool     `koanf:"auto_confirm"`
	OnSilence      string   `koanf:"on_silence"`
	IgnorePatterns []string `koanf:"ignore_patterns"`
}

// Default returns the baseline configuration before file and environment
// overrides.
func Default() Config {
	return Config{
		Workspace:      ".",
		Provider:       "lmstudio",
		Temperature:    0.7,
		MaxTokens:      4096,
		TimeoutSeconds: 120,
		MaxTurns:       10,
		SafeMode:       false,
		OnSilence:      string(SilenceClarify),
	}
}

// providerDefaults fills endpoint and model when the selected provider left
// them unset.
var providerDefaults = map[string]struct {
	Endpoint string
	Model    string
}{
	"lmstudio": {Endpoint: "http://localhost:1234", Model: "local-model"},
	"ollama":   {Endpoint: "http://localhost:11434", Model: "codellama"},
}

// Load builds the effective configuration. Precedence, highest first:
// environment variables, the YAML file at path (skipped when absent),
// defaults. An explicit path that does not exist is an error; the implicit
// default path is allowed to be missing.
func Load(path string, explicit bool) (*Config, error) {
	k := koanf.New(".")

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Optional file, fall through to env and defaults.
	default:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ApplyProviderDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPath is the conventional per-workspace config file location.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".cobalt", "config.yaml")
}

// ApplyProviderDefaults fills Endpoint and Model from the provider table
// when unset.
func (c *Config) ApplyProviderDefaults() {
	defaults, ok := providerDefaults[c.Provider]
	if !ok {
		return
	}
	if c.Endpoint == "" {
		c.Endpoint = defaults.Endpoint
	}
	if c.Model == "" {
		c.Model = defaults.Model
	}
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate rejects configurations the agent cannot run with.
func (c *Config) Validate() error {
	if _, ok := providerDefaults[c.Provider]; !ok {
		return fmt.Errorf("unknown provider %q (supported: lmstudio, ollama)", c.Provider)
	}
	if c.MaxTurns < 1 {
		return fmt.Errorf("max_turns must be at least 1, got %d", c.MaxTurns)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %g", c.Temperature)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	switch SilencePolicy(c.OnSilence) {
	case SilenceClarify, SilenceDone:
	default:
		return fmt.Errorf("on_silence must be %q or %q, got %q", SilenceClarify, SilenceDone, c.OnSilence)
	}
	return nil
}
