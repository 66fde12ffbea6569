package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/devpath/internal/store"
)

type recordingEventRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsEachAttempt(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Content: json.RawMessage(`{"goal":"Go"}`), Usage: Usage{InputTokens: 12, OutputTokens: 34}},
	)
	repo := &recordingEventRepo{}
	p := WithRetry(WithLogging(mock, "mock", repo, nil), retryConfig(), nil)

	ctx := WithRequestID(WithPurpose(context.Background(), "roadmap"), "req-42")
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "Go"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(repo.events))
	}
	first, second := repo.events[0], repo.events[1]
	if first.Success || first.ErrorMessage == "" || first.Attempt != 1 {
		t.Fatalf("unexpected first event: %+v", first)
	}
	if !second.Success || second.Attempt != 2 || second.OutputTokens != 34 {
		t.Fatalf("unexpected second event: %+v", second)
	}
	for _, ev := range repo.events {
		if ev.RequestID != "req-42" || ev.Purpose != "roadmap" || ev.Provider != "mock" {
			t.Fatalf("expected correlation fields on every attempt, got %+v", ev)
		}
	}
	if second.ResponseBody != `{"goal":"Go"}` {
		t.Fatalf("unexpected response body %q", second.ResponseBody)
	}
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	repo := &recordingEventRepo{err: errors.New("disk full")}
	p := WithLogging(mock, "mock", repo, nil)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSerializeRequest(t *testing.T) {
	out := serializeRequest(Request{
		System:   "mentor",
		Messages: []Message{{Role: RoleUser, Content: "Quero ser SRE"}},
		Schema:   &Schema{Name: "roadmap", Definition: map[string]any{"type": "object"}},
	})
	want := "[system]\nmentor\n\n[user]\nQuero ser SRE\n\n[schema: roadmap]\n{\"type\":\"object\"}\n"
	if out != want {
		t.Fatalf("serializeRequest() = %q, want %q", out, want)
	}
}
