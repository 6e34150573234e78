package presentation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"contract-scanner/internal/analysis"
)

var badgeColors = map[BadgeColor]lipgloss.Color{
	BadgeRed:    lipgloss.Color("#e53935"),
	BadgeOrange: lipgloss.Color("#fb8c00"),
	BadgeYellow: lipgloss.Color("#fdd835"),
}

var (
	headingStyle    = lipgloss.NewStyle().Bold(true)
	titleStyle      = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a")).Italic(true)
	mitigationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#43a047"))
	deadlineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196f3"))
	tabStyle        = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#6b6b6b"))
	activeTabStyle  = tabStyle.Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#000000"))
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b6b6b")).MarginTop(1)
)

// TabBar renders the tab strip with active highlighted.
func TabBar(active Tab) string {
	cells := make([]string, 0, len(Tabs))
	for _, tab := range Tabs {
		if tab == active {
			cells = append(cells, activeTabStyle.Render(tab.Label()))
			continue
		}
		cells = append(cells, tabStyle.Render(tab.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// Render draws one tab of a result followed by the disclaimer.
func Render(r analysis.Result, tab Tab) string {
	var b strings.Builder
	switch tab {
	case TabRisks:
		renderRisks(&b, Risks(r))
	case TabTime:
		renderTime(&b, Time(r))
	case TabImpact:
		renderImpact(&b, Impact(r))
	default:
		renderSummary(&b, Summary(r))
	}
	b.WriteString(footerStyle.Render(Disclaimer))
	b.WriteString("\n")
	return b.String()
}

// RenderEmpty is shown before any scan has succeeded.
func RenderEmpty() string {
	return mutedStyle.Render(NoResultsMessage) + "\n" + footerStyle.Render(Disclaimer) + "\n"
}

func wrapStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width)
}

// RenderBadge draws a severity pill in its colour.
func RenderBadge(badge SeverityBadge) string {
	return lipgloss.NewStyle().Foreground(badgeColors[badge.Color]).Render("[" + badge.Label + "]")
}

func renderSummary(b *strings.Builder, v SummaryView) {
	section(b, "Business Impact")
	b.WriteString(v.Summary + "\n\n")

	section(b, "Key Obligations")
	bullets(b, v.Obligations)
	b.WriteString("\n")

	if len(v.Risks) > 0 {
		section(b, "Top Risks")
		for _, item := range v.Risks {
			renderRisk(b, item)
		}
		if v.MoreRisks {
			b.WriteString(mutedStyle.Render("see more (r)") + "\n")
		}
		b.WriteString("\n")
	}

	section(b, "Time")
	if len(v.Timeframes) == 0 {
		b.WriteString(mutedStyle.Render(NoTimeframesMessage) + "\n")
		return
	}
	for _, tf := range v.Timeframes {
		renderTimeframe(b, tf)
	}
	if v.MoreTime {
		b.WriteString(mutedStyle.Render("see more (t)") + "\n")
	}
}

func renderRisks(b *strings.Builder, v RisksView) {
	b.WriteString(titleStyle.Render("All Risks") + "\n\n")
	for _, item := range v.Risks {
		renderRisk(b, item)
	}
}

func renderTime(b *strings.Builder, v TimeView) {
	b.WriteString(titleStyle.Render("Time-Bound Obligations") + "\n\n")
	if v.Empty {
		b.WriteString(mutedStyle.Render(NoTimeframesMessage) + "\n")
		return
	}
	for _, tf := range v.Timeframes {
		renderTimeframe(b, tf)
	}
}

func renderImpact(b *strings.Builder, v ImpactView) {
	section(b, "Business Impact")
	b.WriteString(v.Summary + "\n\n")
	section(b, "All Obligations")
	bullets(b, v.Obligations)
}

func renderRisk(b *strings.Builder, item RiskItem) {
	fmt.Fprintf(b, "%s\n", headingStyle.Render(item.Title))
	fmt.Fprintf(b, "  Risk %d %s\n", item.Index, RenderBadge(item.Badge))
	fmt.Fprintf(b, "  %s\n", item.Explanation)
	if item.Mitigation != "" {
		fmt.Fprintf(b, "  %s %s\n", mitigationStyle.Render("Mitigation:"), item.Mitigation)
	}
	b.WriteString("\n")
}

func renderTimeframe(b *strings.Builder, tf analysis.Timeframe) {
	fmt.Fprintf(b, "%s\n", headingStyle.Render(tf.Title))
	fmt.Fprintf(b, "  %s\n", tf.Description)
	if tf.Deadline != "" {
		fmt.Fprintf(b, "  %s\n", deadlineStyle.Render("⏱ "+tf.Deadline))
	}
	b.WriteString("\n")
}

func section(b *strings.Builder, title string) {
	b.WriteString(titleStyle.Render(title) + "\n")
}

func bullets(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteString("  • " + item + "\n")
	}
}
