package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/teilomillet/gollm"
)

// OllamaAdapter talks to a local Ollama server through gollm.
type OllamaAdapter struct {
	llm      gollm.LLM
	endpoint string
	model    string
	http     *http.Client
}

// NewOllamaAdapter builds an adapter against the given endpoint, e.g.
// http://localhost:11434.
func NewOllamaAdapter(endpoint, model string, maxTokens int, temperature float64) (*OllamaAdapter, error) {
	if endpoint == "" {
		return nil, &ConfigurationError{ClientError: ClientError{Message: "ollama endpoint is required"}}
	}
	if model == "" {
		return nil, &ConfigurationError{ClientError: ClientError{Message: "ollama model is required"}}
	}

	llm, err := gollm.NewLLM(
		gollm.SetProvider("ollama"),
		gollm.SetOllamaEndpoint(endpoint),
		gollm.SetModel(model),
		gollm.SetMaxTokens(maxTokens),
		gollm.SetTemperature(temperature),
		gollm.SetMaxRetries(0), // retries are handled by the client
		gollm.SetLogLevel(gollm.LogLevelWarn),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	return &OllamaAdapter{
		llm:      llm,
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		http:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Name returns the provider identifier.
func (a *OllamaAdapter) Name() string { return "ollama" }

// Complete sends a blocking request and returns the full response.
func (a *OllamaAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	prompt := a.translateRequest(req)
	a.applyRequestOptions(req)

	start := time.Now()
	text, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, a.translateError(err)
	}

	model := req.Model
	if model == "" {
		model = a.model
	}
	return &Response{
		Content:      text,
		Model:        model,
		Provider:     a.Name(),
		Latency:      time.Since(start),
		InputTokens:  estimateTokens(req.Messages),
		OutputTokens: len(text) / 4,
	}, nil
}

// ListModels queries the server's tags endpoint for installed models.
func (a *OllamaAdapter) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("create models request: %w", err)
	}

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{ClientError: ClientError{Message: "fetch ollama models", Cause: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, ErrorFromStatusCode(resp.StatusCode, string(body), a.Name(), nil)
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode ollama models: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// translateRequest flattens a chat transcript into a gollm prompt. System
// messages become the system prompt; assistant turns are inlined with a role
// marker so multi-turn context survives the flattening.
func (a *OllamaAdapter) translateRequest(req Request) *gollm.Prompt {
	var systemPrompt string
	var parts []string

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			systemPrompt += msg.Content + "\n"
		case RoleUser:
			parts = append(parts, msg.Content)
		case RoleAssistant:
			if msg.Content != "" {
				parts = append(parts, "[Assistant]: "+msg.Content)
			}
		}
	}

	promptText := strings.Join(parts, "\n")
	if promptText == "" {
		promptText = "Hello"
	}

	var promptOpts []gollm.PromptOption
	if systemPrompt != "" {
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(strings.TrimSpace(systemPrompt), gollm.CacheTypeEphemeral))
	}
	if req.MaxTokens != nil {
		promptOpts = append(promptOpts, gollm.WithMaxLength(*req.MaxTokens))
	}

	return gollm.NewPrompt(promptText, promptOpts...)
}

// applyRequestOptions applies request-level overrides to the gollm instance.
func (a *OllamaAdapter) applyRequestOptions(req Request) {
	if req.Model != "" {
		a.llm.SetOption("model", req.Model)
	}
	if req.Temperature != nil {
		a.llm.SetOption("temperature", *req.Temperature)
	}
	if req.MaxTokens != nil {
		a.llm.SetOption("max_tokens", *req.MaxTokens)
	}
}

// translateError classifies a gollm error into the client error hierarchy
// based on the message content, since gollm does not expose status codes.
func (a *OllamaAdapter) translateError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "404") || strings.Contains(msgLower, "not found"):
		return &NotFoundError{ProviderError: ProviderError{
			ClientError: ClientError{Message: msg, Cause: err}, Provider: a.Name(), StatusCode: 404,
		}}
	case strings.Contains(msgLower, "429") || strings.Contains(msgLower, "rate limit"):
		return &RateLimitError{ProviderError: ProviderError{
			ClientError: ClientError{Message: msg, Cause: err}, Provider: a.Name(), StatusCode: 429, Retryable: true,
		}}
	case strings.Contains(msgLower, "context length") || strings.Contains(msgLower, "too many tokens"):
		return &ContextLengthError{ProviderError: ProviderError{
			ClientError: ClientError{Message: msg, Cause: err}, Provider: a.Name(), StatusCode: 413,
		}}
	case strings.Contains(msgLower, "500") || strings.Contains(msgLower, "internal server"):
		return &ServerError{ProviderError: ProviderError{
			ClientError: ClientError{Message: msg, Cause: err}, Provider: a.Name(), StatusCode: 500, Retryable: true,
		}}
	case strings.Contains(msgLower, "timeout") || strings.Contains(msgLower, "deadline exceeded"):
		return &RequestTimeoutError{ClientError: ClientError{Message: msg, Cause: err}}
	case strings.Contains(msgLower, "connection refused") || strings.Contains(msgLower, "no such host"):
		return &NetworkError{ClientError: ClientError{Message: msg, Cause: err}}
	default:
		return &ProviderError{
			ClientError: ClientError{Message: msg, Cause: err},
			Provider:    a.Name(),
			Retryable:   true,
		}
	}
}
