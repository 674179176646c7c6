package scanner

// severityWeights are the fixed per-finding deductions applied during scoring.
var severityWeights = map[Severity]int{
	SeverityCritical: 25,
	SeverityHigh:     15,
	SeverityMedium:   10,
	SeverityLow:      5,
}

// Score derives a security score in [0,100] from a finding set. The score
// starts at 100, subtracts the severity weight of every finding, and clamps at
// zero. The result does not depend on finding order.
func Score(findings []Finding) int {
	score := 100
	for _, f := range findings {
		score -= severityWeights[f.Severity]
	}
	if score < 0 {
		return 0
	}
	return score
}
