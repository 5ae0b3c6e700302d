package dashboard

import "math"

// Compliance holds the two weighted sub-scores and the final
// 0-100 integer score. Recomputed from current counts on every
// request; nothing is memoized.
type Compliance struct {
	AssessmentScore float64 `json:"assessment_score"`
	RiskScore       float64 `json:"risk_score"`
	ComplianceScore int     `json:"compliance_score"`
}

// AssessmentScore is the assessment-coverage half of the compliance
// score: completed / activeMembers weighted to 50 points. A company
// with no active members contributes 0, not an error.
func AssessmentScore(completed, activeMembers int64) float64 {
	if activeMembers == 0 {
		return 0
	}
	return float64(completed) / float64(activeMembers) * 50
}

// RiskScore is the risk-resolution half: resolved / total weighted to
// 50 points. A company with no identified risks at all is treated as
// neutral-compliant and gets the full 50.
func RiskScore(resolved, total int64) float64 {
	if total == 0 {
		return 50
	}
	return float64(resolved) / float64(total) * 50
}

// ComplianceScore combines the two sub-scores into an integer in
// [0, 100], capped before rounding.
func ComplianceScore(assessmentScore, riskScore float64) int {
	return int(math.Round(math.Min(100, assessmentScore+riskScore)))
}
