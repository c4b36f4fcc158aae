package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all text-generation provider configuration.
type Config struct {
	// Provider selects which backend to use.
	// Values: "ollama", "openai", "mock"
	Provider string

	Ollama OllamaConfig
	OpenAI OpenAIConfig

	// Timeout is the maximum duration for a single generation request.
	// The service is slow and occasionally unresponsive; a timed-out
	// call is abandoned, never retried. Default: 45s.
	Timeout time.Duration
}

// OllamaConfig holds configuration for a local Ollama instance.
type OllamaConfig struct {
	BaseURL string // Default: "http://localhost:11434"
	Model   string // Default: "llama3.2"
}

// OpenAIConfig holds configuration for an OpenAI-compatible gateway.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "ollama",
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
			Model:   "llama3.2",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Timeout: 45 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("POLITICOOL_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if u := os.Getenv("POLITICOOL_OLLAMA_URL"); u != "" {
		cfg.Ollama.BaseURL = u
	}
	if m := os.Getenv("POLITICOOL_OLLAMA_MODEL"); m != "" {
		cfg.Ollama.Model = m
	}
	if k := os.Getenv("POLITICOOL_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("POLITICOOL_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("POLITICOOL_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}
	if t := os.Getenv("POLITICOOL_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}

// Validate checks that the selected provider is usable.
func (c Config) Validate() error {
	switch c.Provider {
	case "ollama":
		if c.Ollama.BaseURL == "" {
			return fmt.Errorf("POLITICOOL_OLLAMA_URL is required for the ollama provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("POLITICOOL_OPENAI_API_KEY is required for the openai provider")
		}
	case "mock":
		// No configuration needed.
	default:
		return fmt.Errorf("unknown generation provider: %q", c.Provider)
	}
	return nil
}
