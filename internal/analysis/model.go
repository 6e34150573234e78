package analysis

// Severity grades a risk. Only the three constants below are valid.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

type Risk struct {
	Title       string   `json:"title"`
	Severity    Severity `json:"severity"`
	Explanation string   `json:"explanation"`
	Mitigation  string   `json:"mitigation,omitempty"`
}

type Timeframe struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline,omitempty"`
}

// Result is a validated contract analysis. It is only built by Parse.
type Result struct {
	Summary     string      `json:"summary"`
	Obligations []string    `json:"obligations"`
	Risks       []Risk      `json:"risks"`
	Timeframes  []Timeframe `json:"timeframes"`
}
