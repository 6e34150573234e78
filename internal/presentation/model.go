package presentation

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"contract-scanner/internal/analysis"
)

const helpLine = "tab/→ next • shift+tab/← prev • 1-4 jump • r risks • t time • q quit"

// Model is the interactive result viewer. A nil result shows the empty state.
type Model struct {
	result *analysis.Result
	nav    Navigator
	width  int
}

// NewModel starts on the given tab.
func NewModel(result *analysis.Result, start Tab) Model {
	m := Model{result: result}
	m.nav.Select(start)
	return m
}

func (m Model) Active() Tab { return m.nav.Active() }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			m.nav.Next()
		case "shift+tab", "left", "h":
			m.nav.Prev()
		case "1", "2", "3", "4":
			m.nav.Select(Tabs[int(msg.String()[0]-'1')])
		case "r":
			m.nav.SeeAllRisks()
		case "t":
			m.nav.SeeAllTime()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(TabBar(m.nav.Active()))
	b.WriteString("\n\n")
	if m.result == nil {
		b.WriteString(RenderEmpty())
	} else {
		body := Render(*m.result, m.nav.Active())
		if m.width > 0 {
			body = wrapStyle(m.width).Render(body)
		}
		b.WriteString(body)
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(helpLine))
	b.WriteString("\n")
	return b.String()
}
