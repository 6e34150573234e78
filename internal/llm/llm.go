package llm

import (
	"context"
	"errors"
	"fmt"
)

// Request is a single completion prompt. The same transport serves contract
// analysis (JSONMode) and drafting (prose).
type Request struct {
	// Model overrides the client's configured model when set.
	Model    string
	System   string
	User     string
	JSONMode bool
}

// Client sends one completion request and returns the first choice's content.
// Implementations make a single attempt.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

var (
	ErrAnalysisRequest   = errors.New("analysis request failed")
	ErrMissingAPIKey     = fmt.Errorf("%w: API key not configured", ErrAnalysisRequest)
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// RequestError is an upstream non-success response.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return ErrAnalysisRequest
}
