package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Provider configuration
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderStatic = "static"

	// Default models
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultOllamaModel = "llama3.1"

	// Default endpoints
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOllamaBaseURL = "http://localhost:11434"

	// Environment variables
	EnvOpenAIAPIKey = "OPENAI_API_KEY"

	// Retry configuration
	MaxRetries        = 3
	InitialBackoffMs  = 100
	MaxBackoffMs      = 5000
	BackoffMultiplier = 2.0

	requestTimeout = 60 * time.Second
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messages assembles the wire message list shared by both HTTP providers.
func messages(req Request) []chatMessage {
	var msgs []chatMessage
	if req.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.System})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.User})
	return msgs
}

// OpenAIClient implements Client against the OpenAI chat completions API.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	cache      *Cache
}

// NewOpenAIClient creates an OpenAI chat client. An empty apiKey falls
// back to OPENAI_API_KEY; an empty model or baseURL falls back to the
// package defaults.
func NewOpenAIClient(apiKey, model, baseURL string, cache *Cache) (*OpenAIClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvOpenAIAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNoProviderEnabled, EnvOpenAIAPIKey)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		cache: cache,
	}, nil
}

func (o *OpenAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = o.model
	}

	hash := RequestHash(ProviderOpenAI, model, req)
	if o.cache != nil && req.Temperature == 0 {
		if resp, ok := o.cache.Get(hash); ok {
			return resp, nil
		}
	}

	config := DefaultRetryConfig()
	resp, err := retryWithBackoff(ctx, config, func() (*Response, error) {
		return o.callAPI(ctx, req, model)
	})
	if err != nil {
		return nil, fmt.Errorf("%w after %d retries: %v", ErrProviderFailed, MaxRetries, err)
	}

	if o.cache != nil && req.Temperature == 0 {
		o.cache.Set(hash, resp)
	}
	return resp, nil
}

func (o *OpenAIClient) callAPI(ctx context.Context, req Request, model string) (*Response, error) {
	reqBody := map[string]interface{}{
		"model":       model,
		"messages":    messages(req),
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		reqBody["max_tokens"] = req.MaxTokens
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	return &Response{
		Text:     apiResp.Choices[0].Message.Content,
		Provider: ProviderOpenAI,
		Model:    apiResp.Model,
		Usage: Usage{
			PromptTokens:     apiResp.Usage.PromptTokens,
			CompletionTokens: apiResp.Usage.CompletionTokens,
		},
	}, nil
}

func (o *OpenAIClient) Provider() string { return ProviderOpenAI }
func (o *OpenAIClient) Model() string    { return o.model }
func (o *OpenAIClient) Close() error     { return nil }

// OllamaClient implements Client against a local Ollama server.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
	cache      *Cache
}

// NewOllamaClient creates an Ollama chat client. Empty model and baseURL
// fall back to the package defaults. No API key is required.
func NewOllamaClient(model, baseURL string, cache *Cache) (*OllamaClient, error) {
	if model == "" {
		model = DefaultOllamaModel
	}
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}

	return &OllamaClient{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		cache: cache,
	}, nil
}

func (l *OllamaClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = l.model
	}

	hash := RequestHash(ProviderOllama, model, req)
	if l.cache != nil && req.Temperature == 0 {
		if resp, ok := l.cache.Get(hash); ok {
			return resp, nil
		}
	}

	config := DefaultRetryConfig()
	resp, err := retryWithBackoff(ctx, config, func() (*Response, error) {
		return l.callAPI(ctx, req, model)
	})
	if err != nil {
		return nil, fmt.Errorf("%w after %d retries: %v", ErrProviderFailed, MaxRetries, err)
	}

	if l.cache != nil && req.Temperature == 0 {
		l.cache.Set(hash, resp)
	}
	return resp, nil
}

func (l *OllamaClient) callAPI(ctx context.Context, req Request, model string) (*Response, error) {
	options := map[string]interface{}{
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	reqBody := map[string]interface{}{
		"model":    model,
		"messages": messages(req),
		"stream":   false,
		"options":  options,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", l.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Model   string `json:"model"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		PromptEvalCount int `json:"prompt_eval_count"`
		EvalCount       int `json:"eval_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &Response{
		Text:     apiResp.Message.Content,
		Provider: ProviderOllama,
		Model:    apiResp.Model,
		Usage: Usage{
			PromptTokens:     apiResp.PromptEvalCount,
			CompletionTokens: apiResp.EvalCount,
		},
	}, nil
}

func (l *OllamaClient) Provider() string { return ProviderOllama }
func (l *OllamaClient) Model() string    { return l.model }
func (l *OllamaClient) Close() error     { return nil }

// StaticClient returns a fixed completion for every request. It backs
// tests and offline runs where no provider is reachable.
type StaticClient struct {
	Text string
}

// NewStaticClient creates a static client returning text.
func NewStaticClient(text string) *StaticClient {
	if text == "" {
		text = "no chat provider is configured; set OPENAI_API_KEY or run an Ollama server"
	}
	return &StaticClient{Text: text}
}

func (s *StaticClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Response{
		Text:     s.Text,
		Provider: ProviderStatic,
		Model:    "static",
	}, nil
}

func (s *StaticClient) Provider() string { return ProviderStatic }
func (s *StaticClient) Model() string    { return "static" }
func (s *StaticClient) Close() error     { return nil }
