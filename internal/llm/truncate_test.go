package llm

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateContractShortPassThrough(t *testing.T) {
	text := "Tenant shall pay rent by the 1st of each month."
	got := TruncateContract(text, DefaultBudget)
	if got.Truncated || got.Warning != "" || got.Removed != 0 {
		t.Fatalf("expected passthrough, got %+v", got)
	}
	if got.Text != text {
		t.Fatalf("expected text unchanged")
	}
	again := TruncateContract(got.Text, DefaultBudget)
	if again.Text != text {
		t.Fatalf("expected passthrough to be stable")
	}
}

func TestTruncateContractExactBudgetIsNotTruncated(t *testing.T) {
	budget := Budget{MaxTokens: 110, ReservedTokens: 10, CharsPerToken: 4}
	text := strings.Repeat("x", 400)
	if got := TruncateContract(text, budget); got.Truncated {
		t.Fatalf("text at budget must pass through, got %+v", got)
	}
}

func TestTruncateContractKeepsHeadAndTail(t *testing.T) {
	budget := Budget{MaxTokens: 10500, ReservedTokens: 3000, CharsPerToken: 4}
	if budget.AllowedChars() != 30000 {
		t.Fatalf("unexpected budget %d", budget.AllowedChars())
	}

	var sb strings.Builder
	for sb.Len() < 200000 {
		fmt.Fprintf(&sb, "clause-%06d;", sb.Len())
	}
	text := sb.String()[:200000]

	got := TruncateContract(text, budget)
	if !got.Truncated {
		t.Fatalf("expected truncation")
	}
	head := text[:22500]
	tail := text[len(text)-7500:]
	if got.Text != head+ElisionMarker+tail {
		t.Fatalf("expected head + marker + tail")
	}
	if got.Removed != 200000-30000 {
		t.Fatalf("unexpected removed count %d", got.Removed)
	}
	if got.Removed <= 0 || got.Removed >= len(text) {
		t.Fatalf("removed count must be positive and below the original length")
	}
	want := "WARNING: Removed 170000 characters (middle sections truncated). "
	if got.Warning != want {
		t.Fatalf("unexpected warning %q", got.Warning)
	}
}

func TestTruncateContractCountsRunes(t *testing.T) {
	budget := Budget{MaxTokens: 3, ReservedTokens: 1, CharsPerToken: 4}
	text := strings.Repeat("é", 20)
	got := TruncateContract(text, budget)
	if !got.Truncated || !utf8.ValidString(got.Text) {
		t.Fatalf("expected valid UTF-8 truncation, got %+v", got)
	}
	if got.Text != strings.Repeat("é", 6)+ElisionMarker+strings.Repeat("é", 2) {
		t.Fatalf("unexpected split %q", got.Text)
	}
	if got.Removed != 12 {
		t.Fatalf("expected 12 removed runes, got %d", got.Removed)
	}
}

func TestBudgetDefaults(t *testing.T) {
	if got := (Budget{}).AllowedChars(); got != (32768-3000)*4 {
		t.Fatalf("zero budget should use defaults, got %d", got)
	}
	if got := (Budget{MaxTokens: 10, ReservedTokens: 20, CharsPerToken: 4}).AllowedChars(); got != (32768-3000)*4 {
		t.Fatalf("reserve above max should use defaults, got %d", got)
	}
	if got := (Budget{MaxTokens: 3000, ReservedTokens: 3000, CharsPerToken: 0}).AllowedChars(); got != (32768-3000)*4 {
		t.Fatalf("reserve equal to max should use defaults, got %d", got)
	}
}

func TestTruncateContractExhaustedBudgetKeepsText(t *testing.T) {
	text := "Parties: Acme and Beta. " + strings.Repeat("clause ", 30000) + "Signed."
	got := TruncateContract(text, Budget{MaxTokens: 2000, ReservedTokens: 3000, CharsPerToken: 4})
	if !got.Truncated {
		t.Fatalf("expected truncation for %d runes", got.Original)
	}
	if got.Removed >= got.Original {
		t.Fatalf("removed %d of %d characters", got.Removed, got.Original)
	}
	if !strings.HasPrefix(got.Text, "Parties: Acme and Beta.") || !strings.HasSuffix(got.Text, "Signed.") {
		t.Fatalf("head or tail lost: %q...", got.Text[:40])
	}
}
