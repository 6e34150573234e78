package presentation

import (
	"strings"

	"contract-scanner/internal/analysis"
)

const (
	summaryObligations = 3
	summaryRisks       = 2
	summaryTimeframes  = 2
)

const (
	NoTimeframesMessage = "No specific timeframes or deadlines identified in this contract."
	NoResultsMessage    = "No analysis results yet. Upload a contract or paste text to get started."
	Disclaimer          = "this is not professional advice - just an ai powered summary of common redflags. consult a lawyer for additional guidance"
)

// BadgeColor is a named severity colour.
type BadgeColor string

const (
	BadgeRed    BadgeColor = "red"
	BadgeOrange BadgeColor = "orange"
	BadgeYellow BadgeColor = "yellow"
)

type SeverityBadge struct {
	Label string
	Color BadgeColor
}

// Badge maps a severity to its label and colour. Anything that is not high or
// medium renders as low.
func Badge(s analysis.Severity) SeverityBadge {
	switch s {
	case analysis.SeverityHigh:
		return SeverityBadge{Label: "High", Color: BadgeRed}
	case analysis.SeverityMedium:
		return SeverityBadge{Label: "Medium", Color: BadgeOrange}
	}
	label := string(s)
	if label == "" {
		label = string(analysis.SeverityLow)
	}
	return SeverityBadge{Label: strings.ToUpper(label[:1]) + label[1:], Color: BadgeYellow}
}

// RiskItem is a risk as displayed, numbered from 1.
type RiskItem struct {
	Index int
	Badge SeverityBadge
	analysis.Risk
}

type SummaryView struct {
	Summary     string
	Obligations []string
	Risks       []RiskItem
	Timeframes  []analysis.Timeframe
	MoreRisks   bool
	MoreTime    bool
}

type RisksView struct {
	Risks []RiskItem
}

type TimeView struct {
	Timeframes []analysis.Timeframe
	Empty      bool
}

type ImpactView struct {
	Summary     string
	Obligations []string
}

// Summary is the overview tab: the summary plus the head of every list.
func Summary(r analysis.Result) SummaryView {
	return SummaryView{
		Summary:     r.Summary,
		Obligations: head(r.Obligations, summaryObligations),
		Risks:       riskItems(head(r.Risks, summaryRisks)),
		Timeframes:  head(r.Timeframes, summaryTimeframes),
		MoreRisks:   len(r.Risks) > summaryRisks,
		MoreTime:    len(r.Timeframes) > summaryTimeframes,
	}
}

func Risks(r analysis.Result) RisksView {
	return RisksView{Risks: riskItems(r.Risks)}
}

func Time(r analysis.Result) TimeView {
	return TimeView{Timeframes: r.Timeframes, Empty: len(r.Timeframes) == 0}
}

func Impact(r analysis.Result) ImpactView {
	return ImpactView{Summary: r.Summary, Obligations: r.Obligations}
}

func riskItems(risks []analysis.Risk) []RiskItem {
	items := make([]RiskItem, 0, len(risks))
	for i, risk := range risks {
		items = append(items, RiskItem{Index: i + 1, Badge: Badge(risk.Severity), Risk: risk})
	}
	return items
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
