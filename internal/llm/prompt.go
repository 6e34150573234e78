package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/analysis.txt
	analysisTemplate string
	//go:embed prompts/drafting_system.txt
	draftingSystemTemplate string
	//go:embed prompts/drafting_user.txt
	draftingUserTemplate string
)

// AnalysisPrompt is a ready-to-send analysis prompt plus how the contract
// text was fitted into it.
type AnalysisPrompt struct {
	Prompt       string
	ContractText string
	Focus        string
	Truncation   Truncation
}

// Request wraps the prompt for the completion transport in JSON mode.
func (p AnalysisPrompt) Request() Request {
	return Request{User: p.Prompt, JSONMode: true}
}

// BuildAnalysisPrompt truncates text to budget and renders the analysis
// prompt. An empty focus omits the focus sentence.
func BuildAnalysisPrompt(text, focus string, budget Budget) AnalysisPrompt {
	t := TruncateContract(text, budget)
	focus = strings.TrimSpace(focus)
	focusLine := ""
	if focus != "" {
		focusLine = "Focus on: " + focus + "."
	}

	prompt := strings.NewReplacer(
		"{{WARNING}}", t.Warning,
		"{{FOCUS}}", focusLine,
		"{{CONTRACT}}", t.Text,
	).Replace(trimTemplate(analysisTemplate))

	return AnalysisPrompt{
		Prompt:       prompt,
		ContractText: t.Text,
		Focus:        focus,
		Truncation:   t,
	}
}

// BuildDraftingRequest renders the contract drafting prompts.
func BuildDraftingRequest(description string) Request {
	user := strings.NewReplacer("{{DESCRIPTION}}", strings.TrimSpace(description)).
		Replace(trimTemplate(draftingUserTemplate))
	return Request{
		System: trimTemplate(draftingSystemTemplate),
		User:   user,
	}
}

// ContractTextSection returns what follows the "Contract text: " label of a
// rendered analysis prompt.
func ContractTextSection(prompt string) (string, bool) {
	const label = "\n\nContract text: "
	idx := strings.Index(prompt, label)
	if idx < 0 {
		return "", false
	}
	return prompt[idx+len(label):], true
}

func trimTemplate(s string) string {
	return strings.TrimRight(s, "\r\n")
}
