package analysis

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"contract-scanner/internal/llm"
)

// ErrMalformedResponse is returned when model output is not a valid analysis.
var ErrMalformedResponse = llm.ErrMalformedResponse

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func resultSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("analysis.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("analysis.json")
	})
	return compiledSchema, schemaErr
}

// Parse turns model output into a Result. Severities are trimmed and
// lower-cased before validation; anything outside high/medium/low is rejected.
// Missing risks or timeframes become empty lists. Every failure wraps
// ErrMalformedResponse.
func Parse(raw string) (Result, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return Result{}, fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}

	var top map[string]any
	if err := json.Unmarshal([]byte(body), &top); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if top == nil {
		return Result{}, fmt.Errorf("%w: expected a JSON object", ErrMalformedResponse)
	}
	normalizeTop(top)

	schema, err := resultSchema()
	if err != nil {
		return Result{}, err
	}
	if err := schema.Validate(top); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	normalized, err := json.Marshal(top)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	var result Result
	if err := json.Unmarshal(normalized, &result); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Obligations == nil {
		result.Obligations = []string{}
	}
	return result, nil
}

func normalizeTop(top map[string]any) {
	for _, key := range []string{"risks", "timeframes"} {
		if v, ok := top[key]; !ok || v == nil {
			top[key] = []any{}
		}
	}
	risks, ok := top["risks"].([]any)
	if !ok {
		return
	}
	for _, item := range risks {
		risk, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if sev, ok := risk["severity"].(string); ok {
			risk["severity"] = strings.ToLower(strings.TrimSpace(sev))
		}
	}
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
