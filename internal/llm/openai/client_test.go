package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"contract-scanner/internal/llm"
)

type capturedRequest struct {
	Auth string
	Body map[string]any
}

func newServer(t *testing.T, status int, body string, captured *capturedRequest, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if captured != nil {
			captured.Auth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&captured.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("   ", ""); !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if !errors.Is(llm.ErrMissingAPIKey, llm.ErrAnalysisRequest) {
		t.Fatalf("missing key must be an analysis request error")
	}
}

func TestCompleteJSONMode(t *testing.T) {
	var captured capturedRequest
	srv := newServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"{\"summary\":\"ok\"}"}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`, &captured, nil)

	client, err := NewClient("test-key", "", WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := client.Complete(context.Background(), llm.Request{User: "Analyze", JSONMode: true})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"summary":"ok"}` {
		t.Fatalf("unexpected content %q", out)
	}
	if captured.Auth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", captured.Auth)
	}
	if captured.Body["model"] != DefaultModel {
		t.Fatalf("unexpected model %v", captured.Body["model"])
	}
	format, ok := captured.Body["response_format"].(map[string]any)
	if !ok || format["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", captured.Body["response_format"])
	}
	messages, _ := captured.Body["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("expected a single user message, got %v", messages)
	}
	if _, has := captured.Body["temperature"]; has {
		t.Fatalf("temperature must not be sent")
	}
}

func TestCompleteProseWithSystemPrompt(t *testing.T) {
	var captured capturedRequest
	srv := newServer(t, http.StatusOK, `{"choices":[{"message":{"content":"SERVICE AGREEMENT"}}]}`, &captured, nil)

	client, err := NewClient("k", "custom/model", WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := client.Complete(context.Background(), llm.BuildDraftingRequest("a lease"))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "SERVICE AGREEMENT" {
		t.Fatalf("unexpected content %q", out)
	}
	if _, has := captured.Body["response_format"]; has {
		t.Fatalf("prose requests must not set response_format")
	}
	messages, _ := captured.Body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(messages))
	}
	first, _ := messages[0].(map[string]any)
	if first["role"] != "system" {
		t.Fatalf("expected system message first, got %v", first)
	}
	if captured.Body["model"] != "custom/model" {
		t.Fatalf("unexpected model %v", captured.Body["model"])
	}
}

func TestCompleteUpstreamErrorMessage(t *testing.T) {
	var calls int32
	srv := newServer(t, http.StatusUnauthorized, `{"error":{"message":"invalid key","code":401}}`, nil, &calls)

	client, _ := NewClient("bad-key", "", WithEndpoint(srv.URL))
	_, err := client.Complete(context.Background(), llm.Request{User: "x", JSONMode: true})

	var reqErr *llm.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Status != http.StatusUnauthorized || err.Error() != "invalid key" {
		t.Fatalf("unexpected error %+v", reqErr)
	}
	if !errors.Is(err, llm.ErrAnalysisRequest) {
		t.Fatalf("expected ErrAnalysisRequest")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestCompleteUpstreamErrorWithoutMessage(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil, nil)

	client, _ := NewClient("k", "", WithEndpoint(srv.URL))
	_, err := client.Complete(context.Background(), llm.Request{User: "x", JSONMode: true})
	var reqErr *llm.RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != "Analysis failed" {
		t.Fatalf("expected generic RequestError, got %v", err)
	}

	_, err = client.Complete(context.Background(), llm.Request{User: "x"})
	if !errors.As(err, &reqErr) || reqErr.Message != "Generation failed" {
		t.Fatalf("expected generic drafting RequestError, got %v", err)
	}
}

func TestCompleteMalformedSuccessBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":   `nope`,
		"no choices": `{"choices":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, body, nil, nil)
			client, _ := NewClient("k", "", WithEndpoint(srv.URL))
			_, err := client.Complete(context.Background(), llm.Request{User: "x"})
			if !errors.Is(err, llm.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestHashPromptDeterministic(t *testing.T) {
	a := hashPrompt(buildMessages(llm.Request{System: "s", User: "u"}))
	b := hashPrompt(buildMessages(llm.Request{System: "s", User: "u"}))
	c := hashPrompt(buildMessages(llm.Request{System: "s", User: "other"}))
	if a != b || a == c {
		t.Fatalf("expected stable, input-sensitive hash")
	}
}
