package llm

import "testing"

func TestErrorFromStatusCode(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{400, false},
		{401, false},
		{403, false},
		{404, false},
		{408, true},
		{413, false},
		{422, false},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{504, true},
		{599, true},
	}

	for _, tt := range tests {
		err := ErrorFromStatusCode(tt.status, "message", "lmstudio", nil)
		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		if got := IsRetryable(err); got != tt.retryable {
			t.Errorf("status %d: IsRetryable=%v, want %v", tt.status, got, tt.retryable)
		}
	}
}

func TestErrorTypesFromStatusCode(t *testing.T) {
	if _, ok := ErrorFromStatusCode(401, "m", "p", nil).(*AuthenticationError); !ok {
		t.Error("401 should map to AuthenticationError")
	}
	if _, ok := ErrorFromStatusCode(404, "m", "p", nil).(*NotFoundError); !ok {
		t.Error("404 should map to NotFoundError")
	}
	if _, ok := ErrorFromStatusCode(429, "m", "p", nil).(*RateLimitError); !ok {
		t.Error("429 should map to RateLimitError")
	}
	if _, ok := ErrorFromStatusCode(503, "m", "p", nil).(*ServerError); !ok {
		t.Error("503 should map to ServerError")
	}
}

func TestIsRetryableNilAndUnknown(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil error is not retryable")
	}
	if !IsRetryable(errNotClassified) {
		t.Error("unknown errors default to retryable")
	}
	if IsRetryable(&AbortError{ClientError: ClientError{Message: "cancelled"}}) {
		t.Error("aborts must not be retried")
	}
}

var errNotClassified = &ClientError{Message: "something odd"}

func TestProviderErrorString(t *testing.T) {
	err := &ProviderError{
		ClientError: ClientError{Message: "model overloaded"},
		Provider:    "ollama",
		StatusCode:  503,
		Retryable:   true,
	}
	want := "[ollama] model overloaded (status=503, retryable=true)"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
