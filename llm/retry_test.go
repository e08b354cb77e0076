package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyDelay(t *testing.T) {
	policy := RetryPolicy{
		BaseDelay:         1.0,
		BackoffMultiplier: 2.0,
		MaxDelay:          60.0,
		Jitter:            false,
	}

	delays := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
	}

	for i, expected := range delays {
		got := policy.Delay(i)
		if got != expected {
			t.Errorf("attempt %d: expected %v, got %v", i, expected, got)
		}
	}
}

func TestRetryPolicyDelayWithMaxCap(t *testing.T) {
	policy := RetryPolicy{
		BaseDelay:         1.0,
		BackoffMultiplier: 2.0,
		MaxDelay:          5.0,
		Jitter:            false,
	}

	// Attempt 10 would be 1024s without the cap.
	got := policy.Delay(10)
	if got != 5*time.Second {
		t.Errorf("expected 5s (capped), got %v", got)
	}
}

func TestRetryPolicyDelayWithJitter(t *testing.T) {
	policy := RetryPolicy{
		BaseDelay:         1.0,
		BackoffMultiplier: 2.0,
		MaxDelay:          60.0,
		Jitter:            true,
	}

	// With jitter the delay stays within +/- 50% of the base.
	for i := 0; i < 100; i++ {
		got := policy.Delay(0)
		if got < 500*time.Millisecond || got > 1500*time.Millisecond {
			t.Fatalf("jittered delay out of range: %v", got)
		}
	}
}

func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:        maxRetries,
		BaseDelay:         0.001,
		MaxDelay:          0.01,
		BackoffMultiplier: 2.0,
	}
}

func TestRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), fastPolicy(2), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" || calls != 1 {
		t.Errorf("expected single successful call, got result=%q calls=%d", result, calls)
	}
}

func TestRetryRecoversFromRetryableError(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), fastPolicy(3), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &ServerError{ProviderError: ProviderError{
				ClientError: ClientError{Message: "boom"}, Retryable: true,
			}}
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "recovered" || calls != 3 {
		t.Errorf("expected recovery on third call, got result=%q calls=%d", result, calls)
	}
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(5), func(ctx context.Context) (string, error) {
		calls++
		return "", &AuthenticationError{ProviderError: ProviderError{
			ClientError: ClientError{Message: "bad key"},
		}}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("non-retryable error must not be retried, got %d calls", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := &NetworkError{ClientError: ClientError{Message: "refused"}}
	_, err := Retry(context.Background(), fastPolicy(2), func(ctx context.Context) (string, error) {
		calls++
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected final error to surface, got %v", err)
	}
	// Initial call plus two retries.
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Retry(ctx, fastPolicy(2), func(ctx context.Context) (string, error) {
		return "", &ServerError{ProviderError: ProviderError{
			ClientError: ClientError{Message: "boom"}, Retryable: true,
		}}
	})
	var abort *AbortError
	if !errors.As(err, &abort) {
		t.Errorf("expected AbortError after cancellation, got %v", err)
	}
}
