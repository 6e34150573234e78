package llm

import (
	"fmt"
	"unicode/utf8"
)

// ElisionMarker replaces the dropped middle of an over-budget contract.
const ElisionMarker = "\n\n[...section removed...]\n\n"

// Budget approximates the model context in tokens. Contract text may use
// (MaxTokens-ReservedTokens)*CharsPerToken characters.
type Budget struct {
	MaxTokens      int
	ReservedTokens int
	CharsPerToken  int
}

// DefaultBudget matches a 32k context with room kept for instructions.
var DefaultBudget = Budget{MaxTokens: 32768, ReservedTokens: 3000, CharsPerToken: 4}

// AllowedChars is the contract character budget. A budget that leaves no
// room for contract text falls back to DefaultBudget.
func (b Budget) AllowedChars() int {
	if b.MaxTokens <= b.ReservedTokens || b.ReservedTokens < 0 {
		b = DefaultBudget
	}
	perToken := b.CharsPerToken
	if perToken <= 0 {
		perToken = DefaultBudget.CharsPerToken
	}
	return (b.MaxTokens - b.ReservedTokens) * perToken
}

// Truncation is the outcome of fitting contract text into a Budget.
type Truncation struct {
	Text      string
	Truncated bool
	// Removed counts dropped characters (runes).
	Removed  int
	Original int
	Warning  string
}

// TruncateContract keeps the first 75% and the last 25% of the allowed
// character budget when text exceeds it. Shorter text passes through
// untouched with no warning. Counting is by rune.
func TruncateContract(text string, budget Budget) Truncation {
	total := utf8.RuneCountInString(text)
	allowed := budget.AllowedChars()
	if total <= allowed {
		return Truncation{Text: text, Original: total}
	}

	keepFirst := allowed * 3 / 4
	keepLast := allowed - keepFirst
	runes := []rune(text)
	head := string(runes[:keepFirst])
	tail := string(runes[total-keepLast:])
	removed := total - keepFirst - keepLast

	return Truncation{
		Text:      head + ElisionMarker + tail,
		Truncated: true,
		Removed:   removed,
		Original:  total,
		Warning:   fmt.Sprintf("WARNING: Removed %d characters (middle sections truncated). ", removed),
	}
}
