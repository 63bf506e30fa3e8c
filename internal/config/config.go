package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rassist/rassist-mcp/internal/llm"
	"github.com/rassist/rassist-mcp/internal/prompt"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Environment variables recognized by Load and ApplyEnv.
const (
	EnvConfigPath = "RASSIST_CONFIG"
	EnvProvider   = "RASSIST_LLM_PROVIDER"
	EnvModel      = "RASSIST_LLM_MODEL"
	EnvDBPath     = "RASSIST_DB_PATH"
)

// LLMConfig configures the chat provider.
type LLMConfig struct {
	// Provider is one of openai, ollama, static. Empty means
	// auto-detect from the environment.
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never lives in the config file.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	// Temperature is the sampling temperature for every request. 0 is
	// deterministic and makes responses cacheable.
	Temperature float64 `yaml:"temperature,omitempty"`
	// MaxTokens caps completion length; 0 means the provider default.
	MaxTokens int `yaml:"max_tokens,omitempty"`
	// CacheSize bounds the deterministic-response cache.
	CacheSize int `yaml:"cache_size,omitempty"`
}

// HistoryConfig configures the interaction log.
type HistoryConfig struct {
	// Path is the SQLite database file. Empty means
	// ~/.rassist/history.db. "off" disables history entirely.
	Path string `yaml:"path,omitempty"`
	// MaxAgeDays prunes records older than this on startup. 0 keeps
	// everything.
	MaxAgeDays int `yaml:"max_age_days,omitempty"`
}

// LocatorConfig configures the function locator defaults.
type LocatorConfig struct {
	// Lookback caps the backward scan; 0 scans to the top of the file.
	Lookback int `yaml:"lookback,omitempty"`
}

// Config is the complete rassist configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	History HistoryConfig `yaml:"history"`
	Locator LocatorConfig `yaml:"locator"`
	Prompt  prompt.Config `yaml:"prompt"`
}

// HistoryDisabled reports whether the interaction log is turned off.
func (c *Config) HistoryDisabled() bool {
	return c.History.Path == "off"
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{}
}

// DefaultPath returns the config file location: RASSIST_CONFIG when
// set, otherwise ~/.rassist/config.yaml.
func DefaultPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".rassist", "config.yaml"), nil
}

// DefaultDBPath returns the history database location: RASSIST_DB_PATH
// when set, otherwise ~/.rassist/history.db.
func DefaultDBPath() (string, error) {
	if path := os.Getenv(EnvDBPath); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".rassist", "history.db"), nil
}

// Load reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults; a malformed file
// is an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg.ApplyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overlays environment variables onto the config. Env wins
// over file values so a shell export can redirect a session without
// editing the file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvProvider); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.History.Path = v
	}
}

// Validate checks field-level constraints.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "", llm.ProviderOpenAI, llm.ProviderOllama, llm.ProviderStatic:
	default:
		return fmt.Errorf("%w: unknown llm provider %q", ErrInvalidConfig, c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm.temperature must be between 0 and 2", ErrInvalidConfig)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("%w: llm.max_tokens must be >= 0", ErrInvalidConfig)
	}
	if c.History.MaxAgeDays < 0 {
		return fmt.Errorf("%w: history.max_age_days must be >= 0", ErrInvalidConfig)
	}
	if c.Locator.Lookback < 0 {
		return fmt.Errorf("%w: locator.lookback must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// NewClient builds the chat client described by the config.
func (c *Config) NewClient() (llm.Client, error) {
	if c.LLM.Provider == "" {
		return llm.NewFromEnv()
	}

	apiKey := ""
	if c.LLM.APIKeyEnv != "" {
		apiKey = os.Getenv(c.LLM.APIKeyEnv)
	}
	return llm.New(llm.Config{
		Provider:  c.LLM.Provider,
		Model:     c.LLM.Model,
		BaseURL:   c.LLM.BaseURL,
		APIKey:    apiKey,
		CacheSize: c.LLM.CacheSize,
	})
}
