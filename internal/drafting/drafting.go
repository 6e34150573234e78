// Package drafting generates contract drafts from a plain-language description.
package drafting

import (
	"context"
	"errors"
	"strings"
	"time"

	"contract-scanner/internal/llm"
	"contract-scanner/internal/shared/telemetry"
)

var ErrEmptyDescription = errors.New("describe the contract you need")

type Drafter struct {
	Client llm.Client
	Model  string
}

func NewDrafter(client llm.Client) *Drafter {
	return &Drafter{Client: client}
}

// Draft asks the model for a complete contract and returns its text as-is.
func (d *Drafter) Draft(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", ErrEmptyDescription
	}
	if d.Client == nil {
		return "", llm.ErrMissingAPIKey
	}

	req := llm.BuildDraftingRequest(description)
	req.Model = d.Model
	start := time.Now()
	text, err := d.Client.Complete(ctx, req)
	if err != nil {
		telemetry.Error("drafting.failed", map[string]any{"error": err.Error()})
		return "", err
	}
	telemetry.Info("drafting.complete", map[string]any{
		"chars":       len(text),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return text, nil
}
