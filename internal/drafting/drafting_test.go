package drafting

import (
	"context"
	"errors"
	"testing"

	"contract-scanner/internal/llm"
)

type fakeClient struct {
	got  llm.Request
	out  string
	err  error
	hits int
}

func (f *fakeClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.hits++
	f.got = req
	return f.out, f.err
}

func TestDraftSendsProseRequest(t *testing.T) {
	client := &fakeClient{out: "FREELANCE AGREEMENT\n1. Scope"}
	d := NewDrafter(client)

	text, err := d.Draft(context.Background(), "  freelance web design for ABC Corp  ")
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if text != client.out {
		t.Fatalf("expected model text verbatim, got %q", text)
	}
	if client.got.JSONMode {
		t.Fatalf("drafting must not request JSON mode")
	}
	want := "Write a professional contract for: freelance web design for ABC Corp. Include standard clauses for this type of agreement."
	if client.got.User != want {
		t.Fatalf("unexpected user prompt %q", client.got.User)
	}
	if client.got.System == "" {
		t.Fatalf("expected a system prompt")
	}
}

func TestDraftRejectsEmptyDescription(t *testing.T) {
	client := &fakeClient{}
	if _, err := NewDrafter(client).Draft(context.Background(), " \n\t"); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	if client.hits != 0 {
		t.Fatalf("expected no request")
	}
}

func TestDraftPropagatesRequestError(t *testing.T) {
	client := &fakeClient{err: &llm.RequestError{Status: 402, Message: "insufficient credits"}}
	_, err := NewDrafter(client).Draft(context.Background(), "nda")
	if err == nil || err.Error() != "insufficient credits" {
		t.Fatalf("expected upstream message, got %v", err)
	}
	if !errors.Is(err, llm.ErrAnalysisRequest) {
		t.Fatalf("expected ErrAnalysisRequest")
	}
}

func TestDraftWithoutClient(t *testing.T) {
	if _, err := (&Drafter{}).Draft(context.Background(), "nda"); !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
