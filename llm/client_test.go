package llm

import (
	"context"
	"testing"
)

// scriptedAdapter returns canned results in sequence.
type scriptedAdapter struct {
	name      string
	responses []*Response
	errs      []error
	calls     int
}

func (s *scriptedAdapter) Name() string { return s.name }

func (s *scriptedAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return &Response{Content: "default"}, nil
}

func (s *scriptedAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"m1"}, nil
}

func TestClientRetriesThroughAdapter(t *testing.T) {
	adapter := &scriptedAdapter{
		name: "fake",
		errs: []error{
			&ServerError{ProviderError: ProviderError{ClientError: ClientError{Message: "overloaded"}, Retryable: true}},
			nil,
		},
		responses: []*Response{nil, {Content: "second try"}},
	}
	client := NewWithAdapter(adapter, fastPolicy(2))

	resp, err := client.Complete(context.Background(), Request{Messages: []Message{UserMessage("hi")}})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Content != "second try" || adapter.calls != 2 {
		t.Errorf("expected retry then success, got %+v calls=%d", resp, adapter.calls)
	}
}

func TestClientSurfacesNonRetryable(t *testing.T) {
	adapter := &scriptedAdapter{
		name: "fake",
		errs: []error{&InvalidRequestError{ProviderError: ProviderError{ClientError: ClientError{Message: "bad"}}}},
	}
	client := NewWithAdapter(adapter, fastPolicy(3))

	_, err := client.Complete(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if adapter.calls != 1 {
		t.Errorf("non-retryable must not retry, got %d calls", adapter.calls)
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(Options{Provider: "openai"})
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}

func TestNewLMStudioClient(t *testing.T) {
	client, err := New(Options{
		Provider: "lmstudio",
		Endpoint: "http://localhost:1234",
		Model:    "local-model",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.Provider() != "lmstudio" {
		t.Errorf("unexpected provider %q", client.Provider())
	}
}
