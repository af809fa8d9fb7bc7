// Package guardconfig holds the guard's own ambient configuration: the
// engine tunables (ref-manager history, rate limiting, confirmation
// timeout, planner retries) and the LLM provider selection, loaded from a
// YAML dotfile layered over built-in defaults. Only the provider API key
// is read from the environment; no environment variable or CLI flag
// overrides the other fields.
package guardconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig tunes the policy engine, ref manager, and HTTP filter for
// one guard session.
type EngineConfig struct {
	// RefHistorySize bounds how many past snapshots the ref manager
	// retains for diagnostics (0 -> the ref manager's default of 5).
	RefHistorySize int `yaml:"ref_history_size"`

	// RateLimitPerHostRPS, if non-zero, installs the HTTP filter's
	// per-destination-host token bucket layer.
	RateLimitPerHostRPS float64 `yaml:"rate_limit_per_host_rps"`
	RateLimitBurst      int     `yaml:"rate_limit_burst"`

	// PacerActionsPerSecond, if non-zero, installs the interpreter's
	// adapter-call pacer (distinct from the wall-clock deadline).
	PacerActionsPerSecond float64 `yaml:"pacer_actions_per_second"`
	PacerBurst            int     `yaml:"pacer_burst"`

	// ConfirmTimeoutSeconds bounds how long a terminal confirm gate waits
	// for the user before treating the decision as denied. 0 means no
	// timeout beyond the caller's context.
	ConfirmTimeoutSeconds int `yaml:"confirm_timeout_seconds"`

	// StrictOutcomes makes a required expected-outcome mismatch abort the
	// session (spec.md §4.6); false treats mismatches as advisory.
	StrictOutcomes bool `yaml:"strict_outcomes"`

	// MaxPlanRetries and FallbackToTemplate configure the planner's
	// LLM-backed strategy (spec.md §4.4).
	MaxPlanRetries     int  `yaml:"max_plan_retries"`
	FallbackToTemplate bool `yaml:"fallback_to_template"`
}

// ProviderConfig selects and tunes the LLM provider backing the planner's
// LLM-backed strategy.
type ProviderConfig struct {
	// Name is the provider kind; only "gemini" is wired today, mirroring
	// the teacher's GeminiConfig/OllamaConfig split for future backends.
	Name string `yaml:"name"`
	// APIKeyEnv names the environment variable the API key is read from
	// (never stored in the YAML file itself).
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`

	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the provider request-level timeout, defaulting per
// spec.md §5 (120s for Anthropic-shaped providers; the guard's only wired
// provider, Gemini, uses the same conservative default).
func (p ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// APIKey resolves the provider's API key from its configured environment
// variable.
func (p ProviderConfig) APIKey() string {
	if p.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(p.APIKeyEnv)
}

// Config is the guard's top-level configuration document.
type Config struct {
	// Mode is the mediator's operating mode: "block" or "warn" (compared
	// case-insensitively, see DESIGN.md Open Question resolution 1).
	Mode string `yaml:"mode"`

	Engine   EngineConfig   `yaml:"engine"`
	Provider ProviderConfig `yaml:"provider"`
}

// Default returns the built-in configuration used when no config file is
// present: strict outcomes, template fallback on, no rate limiting or
// pacing, Gemini as the configured (but not mandatory) provider.
func Default() Config {
	return Config{
		Mode: "block",
		Engine: EngineConfig{
			RefHistorySize:        5,
			ConfirmTimeoutSeconds: 30,
			StrictOutcomes:        true,
			MaxPlanRetries:        3,
			FallbackToTemplate:    true,
		},
		Provider: ProviderConfig{
			Name:           "gemini",
			APIKeyEnv:      "GEMINI_API_KEY",
			Model:          "gemini-2.5-flash-lite",
			TimeoutSeconds: 120,
		},
	}
}

// Load reads a YAML config document from path, layering it over Default()
// so a partial file only overrides the fields it sets. A missing file is
// not an error: Default() is returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("guardconfig: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("guardconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}
