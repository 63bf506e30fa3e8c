package llm

import (
	"fmt"
	"os"
	"strings"
)

// Config holds chat client configuration.
type Config struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKey    string
	CacheSize int
}

// NewFromEnv creates a chat client based on environment variables.
// Priority:
//  1. RASSIST_LLM_PROVIDER (openai, ollama, static)
//  2. OPENAI_API_KEY present -> openai
//  3. Default to ollama on its local endpoint
func NewFromEnv() (Client, error) {
	provider := os.Getenv("RASSIST_LLM_PROVIDER")
	openaiKey := os.Getenv(EnvOpenAIAPIKey)

	cache := NewCache(defaultCacheSize)

	if provider != "" {
		provider = strings.ToLower(provider)
		switch provider {
		case ProviderOpenAI:
			return NewOpenAIClient(openaiKey, os.Getenv("RASSIST_LLM_MODEL"), "", cache)
		case ProviderOllama:
			return NewOllamaClient(os.Getenv("RASSIST_LLM_MODEL"), "", cache)
		case ProviderStatic:
			return NewStaticClient(""), nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
		}
	}

	if openaiKey != "" {
		return NewOpenAIClient(openaiKey, os.Getenv("RASSIST_LLM_MODEL"), "", cache)
	}

	return NewOllamaClient(os.Getenv("RASSIST_LLM_MODEL"), "", cache)
}

// New creates a chat client with explicit configuration.
func New(cfg Config) (Client, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cache)
	case ProviderOllama:
		return NewOllamaClient(cfg.Model, cfg.BaseURL, cache)
	case ProviderStatic:
		return NewStaticClient(""), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

// DetectProvider returns the provider NewFromEnv would pick for the
// current environment.
func DetectProvider() string {
	if provider := os.Getenv("RASSIST_LLM_PROVIDER"); provider != "" {
		return strings.ToLower(provider)
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	return ProviderOllama
}
