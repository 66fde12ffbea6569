package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"goal":"Go"}`)},
	)
	p := WithRetry(mock, retryConfig(), nil)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"goal":"Go"}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_BudgetIsCapped(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	mock := NewMockProvider(down, down, down, down, down)
	cfg := retryConfig()
	cfg.MaxAttempts = 10
	p := WithRetry(mock, cfg, nil)

	_, err := p.Generate(context.Background(), Request{})
	var failed *ErrGenerationFailed
	if !errors.As(err, &failed) {
		t.Fatalf("expected ErrGenerationFailed, got: %T (%v)", err, err)
	}
	if mock.CallCount() != MaxAttempts || failed.Attempts != MaxAttempts {
		t.Fatalf("expected %d attempts, got %d calls / %d attempts", MaxAttempts, mock.CallCount(), failed.Attempts)
	}
}

func TestRetry_FailureThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	p := WithRetry(mock, retryConfig(), nil)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ExhaustsBudget(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("first")}},
		MockResponse{Err: &ErrSafetyBlocked{Reason: "SAFETY"}},
		MockResponse{Err: &ErrAbnormalFinish{Reason: "MAX_TOKENS"}},
		MockResponse{Content: json.RawMessage(`{"never":"reached"}`)},
	)
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected exactly 3 calls, got %d", mock.CallCount())
	}

	var failed *ErrGenerationFailed
	if !errors.As(err, &failed) {
		t.Fatalf("expected ErrGenerationFailed, got %T", err)
	}
	if failed.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", failed.Attempts)
	}
	if failed.Reason() != "abnormal_finish" {
		t.Fatalf("expected last reason abnormal_finish, got %q", failed.Reason())
	}
	if failed.LastMessage() == "" {
		t.Fatal("expected the last failure message to be kept")
	}
}

func TestRetry_ValidatorRejectionIsRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"stages":[]}`)},
		MockResponse{Content: json.RawMessage(`{"goal":"Go","stages":[]}`)},
	)
	p := WithRetry(mock, retryConfig(), nil)

	var seen int
	req := Request{
		Validate: func(content json.RawMessage) error {
			seen++
			var doc map[string]any
			if err := json.Unmarshal(content, &doc); err != nil {
				return err
			}
			if _, ok := doc["goal"]; !ok {
				return errors.New("missing goal")
			}
			return nil
		},
	}

	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != 2 || mock.CallCount() != 2 {
		t.Fatalf("expected 2 validated calls, got validate=%d calls=%d", seen, mock.CallCount())
	}
	if string(resp.Content) != `{"goal":"Go","stages":[]}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
}

func TestRetry_ValidatorFailureReason(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
		MockResponse{Content: json.RawMessage(`{}`)},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(context.Background(), Request{
		Validate: func(json.RawMessage) error { return errors.New("bad shape") },
	})

	var failed *ErrGenerationFailed
	if !errors.As(err, &failed) {
		t.Fatalf("expected ErrGenerationFailed, got %T", err)
	}
	if failed.Reason() != "invalid_response" {
		t.Fatalf("expected invalid_response, got %q", failed.Reason())
	}
}

func TestRetry_CanceledContextStops(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: context.Canceled},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_ContextCanceledDuringBackoff(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	cfg := retryConfig()
	cfg.InitialWait = time.Second
	cfg.MaxWait = time.Second
	p := WithRetry(mock, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call before the deadline, got %d", mock.CallCount())
	}
}

func TestRetry_AttemptNumberInContext(t *testing.T) {
	rec := &attemptRecorder{fail: 2}
	p := WithRetry(rec, retryConfig(), nil)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 2, 3}
	if len(rec.attempts) != len(want) {
		t.Fatalf("expected attempts %v, got %v", want, rec.attempts)
	}
	for i := range want {
		if rec.attempts[i] != want[i] {
			t.Fatalf("expected attempts %v, got %v", want, rec.attempts)
		}
	}
}

func TestRetry_RespectsRetryAfterCap(t *testing.T) {
	r := &RetryProvider{config: retryConfig()}
	wait := r.backoff(0, &ErrRateLimit{RetryAfter: time.Hour})
	if wait != r.config.MaxWait {
		t.Fatalf("expected wait capped at %s, got %s", r.config.MaxWait, wait)
	}
}

func TestRetry_ZeroAttemptsMeansOne(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithRetry(mock, RetryConfig{}, nil)

	_, err := p.Generate(context.Background(), Request{})
	var failed *ErrGenerationFailed
	if !errors.As(err, &failed) || failed.Attempts != 1 {
		t.Fatalf("expected one failed attempt, got %v", err)
	}
}

type attemptRecorder struct {
	fail     int
	attempts []int
}

func (a *attemptRecorder) Generate(ctx context.Context, _ Request) (*Response, error) {
	a.attempts = append(a.attempts, AttemptFrom(ctx))
	if len(a.attempts) <= a.fail {
		return nil, &ErrProviderUnavailable{}
	}
	return &Response{Content: json.RawMessage(`{}`), Model: "rec"}, nil
}

func (a *attemptRecorder) ModelID() string { return "rec" }
