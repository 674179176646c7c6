package scanner

import "testing"

func TestScoreEmpty(t *testing.T) {
	if got := Score(nil); got != 100 {
		t.Errorf("Score(nil) = %d, want 100", got)
	}
	if got := Score([]Finding{}); got != 100 {
		t.Errorf("Score(empty) = %d, want 100", got)
	}
}

func TestScoreWeights(t *testing.T) {
	critical := Finding{Severity: SeverityCritical}
	medium := Finding{Severity: SeverityMedium}
	low := Finding{Severity: SeverityLow}

	if got := Score([]Finding{critical}); got != 75 {
		t.Errorf("one critical = %d, want 75", got)
	}
	if got := Score([]Finding{critical, medium, medium}); got != 55 {
		t.Errorf("critical + 2 medium = %d, want 55", got)
	}

	sixteenLow := make([]Finding, 16)
	for i := range sixteenLow {
		sixteenLow[i] = low
	}
	if got := Score(sixteenLow); got != 20 {
		t.Errorf("16 low = %d, want 20", got)
	}
}

func TestScoreClampsAtZero(t *testing.T) {
	findings := make([]Finding, 10)
	for i := range findings {
		findings[i] = Finding{Severity: SeverityCritical}
	}
	if got := Score(findings); got != 0 {
		t.Errorf("10 critical = %d, want 0", got)
	}
}

func TestScoreOrderIndependent(t *testing.T) {
	a := []Finding{
		{Severity: SeverityCritical},
		{Severity: SeverityHigh},
		{Severity: SeverityMedium},
		{Severity: SeverityLow},
	}
	b := []Finding{a[3], a[1], a[0], a[2]}
	if Score(a) != Score(b) {
		t.Errorf("score changed with ordering: %d vs %d", Score(a), Score(b))
	}
	if got := Score(a); got != 45 {
		t.Errorf("mixed set = %d, want 45", got)
	}
}
