package presentation

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"contract-scanner/internal/analysis"
)

func sampleResult() analysis.Result {
	return analysis.Result{
		Summary:     "Commercial lease for retail space.",
		Obligations: []string{"Pay rent", "Insure premises", "Maintain HVAC", "Allow inspections"},
		Risks: []analysis.Risk{
			{Title: "Uncapped indemnity", Severity: analysis.SeverityHigh, Explanation: "Tenant indemnifies everything.", Mitigation: "Add a cap."},
			{Title: "Rent escalation", Severity: analysis.SeverityMedium, Explanation: "5% yearly."},
			{Title: "Signage rules", Severity: analysis.SeverityLow, Explanation: "Landlord approval needed."},
		},
		Timeframes: []analysis.Timeframe{
			{Title: "Rent", Description: "Monthly rent", Deadline: "1st of month"},
			{Title: "Renewal notice", Description: "Notice to renew", Deadline: "90 days before expiry"},
			{Title: "Inspection", Description: "Annual inspection"},
		},
	}
}

func TestNavigatorReachesEveryTab(t *testing.T) {
	var nav Navigator
	assert.Equal(t, TabSummary, nav.Active())

	for _, from := range Tabs {
		for _, to := range Tabs {
			nav.Select(from)
			nav.Select(to)
			assert.Equal(t, to, nav.Active())
		}
	}

	nav.Select(TabImpact)
	nav.Next()
	assert.Equal(t, TabSummary, nav.Active())
	nav.Prev()
	assert.Equal(t, TabImpact, nav.Active())

	nav.SeeAllRisks()
	assert.Equal(t, TabRisks, nav.Active())
	nav.SeeAllTime()
	assert.Equal(t, TabTime, nav.Active())

	nav.Select(Tab("settings"))
	assert.Equal(t, TabTime, nav.Active())
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab(" Risks ")
	require.NoError(t, err)
	assert.Equal(t, TabRisks, tab)
	_, err = ParseTab("details")
	assert.Error(t, err)
}

func TestSummaryProjection(t *testing.T) {
	v := Summary(sampleResult())
	assert.Equal(t, []string{"Pay rent", "Insure premises", "Maintain HVAC"}, v.Obligations)
	require.Len(t, v.Risks, 2)
	assert.Equal(t, 1, v.Risks[0].Index)
	assert.Equal(t, 2, v.Risks[1].Index)
	assert.Len(t, v.Timeframes, 2)
	assert.True(t, v.MoreRisks)
	assert.True(t, v.MoreTime)

	short := Summary(analysis.Result{Summary: "s", Obligations: []string{"a"}})
	assert.False(t, short.MoreRisks)
	assert.False(t, short.MoreTime)
	assert.Empty(t, short.Risks)
}

func TestRisksTimeImpactProjections(t *testing.T) {
	r := sampleResult()
	risks := Risks(r).Risks
	require.Len(t, risks, 3)
	assert.Equal(t, 3, risks[2].Index)
	assert.Equal(t, SeverityBadge{Label: "Low", Color: BadgeYellow}, risks[2].Badge)

	assert.False(t, Time(r).Empty)
	assert.True(t, Time(analysis.Result{}).Empty)

	impact := Impact(r)
	assert.Len(t, impact.Obligations, 4)
	assert.Equal(t, r.Summary, impact.Summary)
}

func TestBadgeColours(t *testing.T) {
	assert.Equal(t, SeverityBadge{Label: "High", Color: BadgeRed}, Badge(analysis.SeverityHigh))
	assert.Equal(t, SeverityBadge{Label: "Medium", Color: BadgeOrange}, Badge(analysis.SeverityMedium))
	assert.Equal(t, SeverityBadge{Label: "Low", Color: BadgeYellow}, Badge(analysis.SeverityLow))
}

func TestRenderTabs(t *testing.T) {
	r := sampleResult()

	summary := Render(r, TabSummary)
	assert.Contains(t, summary, "Business Impact")
	assert.Contains(t, summary, "Maintain HVAC")
	assert.NotContains(t, summary, "Allow inspections")
	assert.Contains(t, summary, "Risk 2")
	assert.NotContains(t, summary, "Signage rules")
	assert.Contains(t, summary, "see more")
	assert.Contains(t, summary, Disclaimer)

	risks := Render(r, TabRisks)
	assert.Contains(t, risks, "All Risks")
	assert.Contains(t, risks, "Risk 3")
	assert.Contains(t, risks, "[Medium]")
	assert.Contains(t, risks, "Mitigation:")

	time := Render(analysis.Result{Summary: "s"}, TabTime)
	assert.Contains(t, time, NoTimeframesMessage)

	impact := Render(r, TabImpact)
	assert.Contains(t, impact, "All Obligations")
	assert.Contains(t, impact, "Allow inspections")

	assert.Contains(t, RenderEmpty(), NoResultsMessage)
}

func TestModelKeys(t *testing.T) {
	r := sampleResult()
	var m tea.Model = NewModel(&r, TabSummary)

	press := func(key tea.KeyMsg) {
		m, _ = m.Update(key)
	}

	press(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabRisks, m.(Model).Active())
	press(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabSummary, m.(Model).Active())
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	assert.Equal(t, TabImpact, m.(Model).Active())
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	assert.Equal(t, TabTime, m.(Model).Active())
	assert.Contains(t, m.View(), "Time-Bound Obligations")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModelWithoutResult(t *testing.T) {
	m := NewModel(nil, TabRisks)
	assert.Contains(t, m.View(), NoResultsMessage)
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(sampleResult(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Risks", "Time"}, f.GetSheetList())

	summary, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Commercial lease for retail space.", summary)

	rows, err := f.GetRows("Risks")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"1", "Uncapped indemnity", "High", "Tenant indemnifies everything.", "Add a cap."}, rows[1])

	rows, err = f.GetRows("Time")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.True(t, strings.HasPrefix(rows[3][0], "Inspection"))
}
