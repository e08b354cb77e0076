package llm

import (
	"context"
	"fmt"
	"time"
)

// ProviderAdapter is the interface each backend implements.
type ProviderAdapter interface {
	// Name returns the provider identifier, e.g. "ollama".
	Name() string
	// Complete sends a blocking request and returns the full response.
	Complete(ctx context.Context, req Request) (*Response, error)
	// ListModels returns the models the backend currently serves.
	ListModels(ctx context.Context) ([]string, error)
}

// Options selects and configures a backend adapter.
type Options struct {
	Provider    string
	Endpoint    string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// RetryPolicy overrides the default backoff policy when non-nil.
	RetryPolicy *RetryPolicy
}

// Client wraps a provider adapter with retry handling.
type Client struct {
	adapter ProviderAdapter
	policy  RetryPolicy
}

// New builds a client for the named provider.
func New(opts Options) (*Client, error) {
	var adapter ProviderAdapter
	var err error

	switch opts.Provider {
	case "ollama":
		adapter, err = NewOllamaAdapter(opts.Endpoint, opts.Model, opts.MaxTokens, opts.Temperature)
	case "lmstudio":
		adapter, err = NewLMStudioAdapter(opts.Endpoint, opts.Model, opts.MaxTokens, opts.Temperature, opts.Timeout)
	default:
		return nil, &ConfigurationError{ClientError: ClientError{
			Message: fmt.Sprintf("unknown provider %q (supported: ollama, lmstudio)", opts.Provider),
		}}
	}
	if err != nil {
		return nil, err
	}

	policy := DefaultRetryPolicy()
	if opts.RetryPolicy != nil {
		policy = *opts.RetryPolicy
	}
	return &Client{adapter: adapter, policy: policy}, nil
}

// NewWithAdapter wraps an existing adapter, mainly for tests.
func NewWithAdapter(adapter ProviderAdapter, policy RetryPolicy) *Client {
	return &Client{adapter: adapter, policy: policy}
}

// Provider returns the name of the underlying adapter.
func (c *Client) Provider() string {
	return c.adapter.Name()
}

// Complete sends the request, retrying retryable failures per the policy.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	return Retry(ctx, c.policy, func(ctx context.Context) (*Response, error) {
		return c.adapter.Complete(ctx, req)
	})
}

// ListModels returns the models the backend currently serves.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	return Retry(ctx, c.policy, func(ctx context.Context) ([]string, error) {
		return c.adapter.ListModels(ctx)
	})
}
