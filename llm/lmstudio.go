package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LMStudioAdapter talks to LM Studio's OpenAI-compatible server, typically
// http://localhost:1234/v1.
type LMStudioAdapter struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	http        *http.Client
}

// NewLMStudioAdapter builds an adapter against the given base URL. A bare
// host URL gets the /v1 prefix appended.
func NewLMStudioAdapter(baseURL, model string, maxTokens int, temperature float64, timeout time.Duration) (*LMStudioAdapter, error) {
	if baseURL == "" {
		return nil, &ConfigurationError{ClientError: ClientError{Message: "lmstudio endpoint is required"}}
	}
	if model == "" {
		return nil, &ConfigurationError{ClientError: ClientError{Message: "lmstudio model is required"}}
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL += "/v1"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &LMStudioAdapter{
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		http:        &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider identifier.
func (a *LMStudioAdapter) Name() string { return "lmstudio" }

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends a blocking chat completion request.
func (a *LMStudioAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}
	temperature := a.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := a.maxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	payload := map[string]any{
		"model":       model,
		"messages":    req.Messages,
		"temperature": temperature,
		"max_tokens":  maxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &AbortError{ClientError: ClientError{Message: "request cancelled", Cause: ctx.Err()}}
		}
		return nil, &NetworkError{ClientError: ClientError{Message: "send request to lm studio", Cause: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, ErrorFromStatusCode(resp.StatusCode, strings.TrimSpace(string(raw)), a.Name(), nil)
	}

	var chat chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decode lm studio response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, &ProviderError{
			ClientError: ClientError{Message: "lm studio returned no choices"},
			Provider:    a.Name(),
			StatusCode:  resp.StatusCode,
		}
	}

	out := &Response{
		Content:      chat.Choices[0].Message.Content,
		Model:        chat.Model,
		Provider:     a.Name(),
		Latency:      time.Since(start),
		InputTokens:  chat.Usage.PromptTokens,
		OutputTokens: chat.Usage.CompletionTokens,
	}
	if out.Model == "" {
		out.Model = model
	}
	if out.InputTokens == 0 {
		out.InputTokens = estimateTokens(req.Messages)
	}
	if out.OutputTokens == 0 {
		out.OutputTokens = len(out.Content) / 4
	}
	return out, nil
}

// ListModels returns the IDs of models loaded in LM Studio.
func (a *LMStudioAdapter) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create models request: %w", err)
	}

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{ClientError: ClientError{Message: "fetch lm studio models", Cause: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, ErrorFromStatusCode(resp.StatusCode, strings.TrimSpace(string(raw)), a.Name(), nil)
	}

	var models struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return nil, fmt.Errorf("decode lm studio models: %w", err)
	}

	ids := make([]string, 0, len(models.Data))
	for _, m := range models.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
