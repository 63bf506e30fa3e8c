package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrEmptyPrompt         = errors.New("prompt cannot be empty")
	ErrProviderFailed      = errors.New("chat provider failed")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrNoProviderEnabled   = errors.New("no chat provider configured")
)

// Request is a single chat-completion request.
type Request struct {
	System string // System prompt; may be empty
	User   string // User prompt; required

	Model       string  // Optional: override the client's default model
	Temperature float64 // 0 means deterministic; cacheable
	MaxTokens   int     // 0 means provider default
}

// Usage reports token accounting for a completion.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Response is the provider's completion.
type Response struct {
	Text     string
	Provider string
	Model    string
	Usage    Usage
	Cached   bool // True when served from the response cache
}

// Client is a chat-completion client. Implementations must be safe for
// concurrent use.
type Client interface {
	// Complete sends one chat request and returns the completion text.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Provider returns the provider name.
	Provider() string

	// Model returns the default model name.
	Model() string

	// Close releases any resources held by the client.
	Close() error
}

// Cache provides in-memory LRU caching of completions by request hash.
// Only deterministic requests (temperature 0) are cached by providers.
type Cache struct {
	cache *lru.Cache[string, *Response]
}

const defaultCacheSize = 1000

// NewCache creates a response cache with LRU eviction.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = defaultCacheSize
	}
	cache, err := lru.New[string, *Response](maxLen)
	if err != nil {
		// Only reachable with a non-positive size, which is already
		// normalized above.
		cache, _ = lru.New[string, *Response](defaultCacheSize)
	}
	return &Cache{cache: cache}
}

// Get retrieves a copy of a cached response, flagged as cached.
func (c *Cache) Get(hash string) (*Response, bool) {
	resp, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}
	out := *resp
	out.Cached = true
	return &out, true
}

// Set stores a response; LRU eviction applies at capacity.
func (c *Cache) Set(hash string, resp *Response) {
	c.cache.Add(hash, resp)
}

// Size returns the current cache population.
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.cache.Purge()
}

// RequestHash computes a SHA-256 cache key over everything that shapes
// the completion text.
func RequestHash(provider, model string, req Request) string {
	h := sha256.New()
	for _, part := range []string{provider, model, req.System, req.User} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ValidateRequest validates a chat request.
func ValidateRequest(req Request) error {
	if strings.TrimSpace(req.User) == "" {
		return ErrEmptyPrompt
	}
	return nil
}
