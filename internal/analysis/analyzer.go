package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"contract-scanner/internal/llm"
	"contract-scanner/internal/shared/telemetry"
)

// ErrNoContract is returned when there is no text to analyze.
var ErrNoContract = errors.New("no contract text to analyze")

// Report is a parsed analysis plus how the contract was fitted into the prompt.
type Report struct {
	Result     Result
	Truncation llm.Truncation
}

// Analyzer sends contract text to a completion client and parses the answer.
type Analyzer struct {
	Client llm.Client
	Budget llm.Budget
	Model  string
}

// NewAnalyzer uses the default budget.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{Client: client, Budget: llm.DefaultBudget}
}

// Prompt renders the analysis prompt without sending it.
func (a *Analyzer) Prompt(text, focus string) llm.AnalysisPrompt {
	return llm.BuildAnalysisPrompt(text, focus, a.Budget)
}

// Analyze makes a single completion attempt. Transport failures keep their
// llm error; anything unusable in the answer wraps ErrMalformedResponse.
func (a *Analyzer) Analyze(ctx context.Context, text, focus string) (Report, error) {
	if strings.TrimSpace(text) == "" {
		return Report{}, ErrNoContract
	}
	if a.Client == nil {
		return Report{}, llm.ErrMissingAPIKey
	}

	prompt := a.Prompt(text, focus)
	if prompt.Truncation.Truncated {
		telemetry.Warn("analysis.truncated", map[string]any{
			"original_chars": prompt.Truncation.Original,
			"removed_chars":  prompt.Truncation.Removed,
		})
	}

	req := prompt.Request()
	req.Model = a.Model
	start := time.Now()
	raw, err := a.Client.Complete(ctx, req)
	if err != nil {
		telemetry.Error("analysis.failed", map[string]any{
			"error":       err.Error(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return Report{}, err
	}

	result, err := Parse(raw)
	if err != nil {
		telemetry.Warn("analysis.malformed", map[string]any{"error": err.Error()})
		return Report{}, err
	}

	telemetry.Info("analysis.complete", map[string]any{
		"obligations": len(result.Obligations),
		"risks":       len(result.Risks),
		"timeframes":  len(result.Timeframes),
		"truncated":   prompt.Truncation.Truncated,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return Report{Result: result, Truncation: prompt.Truncation}, nil
}
