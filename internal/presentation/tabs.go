// Package presentation projects an analysis result into the scanner's tabbed
// views and renders them for the terminal.
package presentation

import (
	"fmt"
	"strings"
)

type Tab string

const (
	TabSummary Tab = "summary"
	TabRisks   Tab = "risks"
	TabTime    Tab = "time"
	TabImpact  Tab = "impact"
)

// Tabs lists the result tabs in display order.
var Tabs = []Tab{TabSummary, TabRisks, TabTime, TabImpact}

func (t Tab) Label() string {
	switch t {
	case TabSummary:
		return "Summary"
	case TabRisks:
		return "Risks"
	case TabTime:
		return "Time"
	case TabImpact:
		return "Impact"
	}
	return string(t)
}

func (t Tab) index() int {
	for i, tab := range Tabs {
		if tab == t {
			return i
		}
	}
	return -1
}

// ParseTab accepts a tab id or label, case-insensitively.
func ParseTab(s string) (Tab, error) {
	tab := Tab(strings.ToLower(strings.TrimSpace(s)))
	if tab.index() < 0 {
		return "", fmt.Errorf("unknown tab %q (want summary, risks, time or impact)", s)
	}
	return tab, nil
}

// Navigator tracks the active result tab. Every tab can be reached from every
// other and none is terminal. The zero value starts on the summary.
type Navigator struct {
	active Tab
}

func (n *Navigator) Active() Tab {
	if n.active == "" {
		return TabSummary
	}
	return n.active
}

// Select switches to tab. Unknown tabs are ignored.
func (n *Navigator) Select(tab Tab) {
	if tab.index() >= 0 {
		n.active = tab
	}
}

func (n *Navigator) Next() {
	i := n.Active().index()
	n.active = Tabs[(i+1)%len(Tabs)]
}

func (n *Navigator) Prev() {
	i := n.Active().index()
	n.active = Tabs[(i+len(Tabs)-1)%len(Tabs)]
}

// SeeAllRisks follows the summary's "see more" link under Top Risks.
func (n *Navigator) SeeAllRisks() { n.active = TabRisks }

// SeeAllTime follows the summary's "see more" link under Time.
func (n *Navigator) SeeAllTime() { n.active = TabTime }
