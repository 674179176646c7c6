// Package scanner inspects a fetched page against a fixed vulnerability
// ruleset and scores the resulting findings.
package scanner

// Severity ranks how serious a finding is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// FindingType categorizes what class of issue a finding reports.
type FindingType string

const (
	TypeMissingHeaders FindingType = "missing_headers"
	TypeXSS            FindingType = "xss"
	TypeCSRF           FindingType = "csrf"
	TypeOther          FindingType = "other"
)

// Finding is one detected issue. Findings are immutable once produced and
// their order carries no meaning for scoring.
type Finding struct {
	Type           FindingType `json:"type"`
	Severity       Severity    `json:"severity"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Location       string      `json:"location,omitempty"`
	Evidence       string      `json:"evidence,omitempty"`
	Recommendation string      `json:"recommendation"`
}
