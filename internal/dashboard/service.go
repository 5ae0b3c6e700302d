package dashboard

import (
	"errors"
	"fmt"
	"math"

	"wellbeing-service/internal/model"
)

// ErrAggregationFailure wraps any storage read error inside the
// composite aggregation. The aggregation never returns a partial
// result: the first failed sub-query fails the whole call.
var ErrAggregationFailure = errors.New("dashboard aggregation failed")

// Severity tiers surfaced on the dashboard. Only the exact severities
// 5, 3 and 1 are bucketed; rows with severity 2 or 4 appear in no
// bucket.
const (
	SeverityHigh   = 5
	SeverityMedium = 3
	SeverityLow    = 1
)

// RiskBreakdown holds per-tier risk counts.
type RiskBreakdown struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

// Metrics is the composite dashboard view for one company.
// Deterministic for a given storage state.
type Metrics struct {
	ActiveMemberCount        int64            `json:"active_member_count"`
	CompletedAssessmentCount int64            `json:"completed_assessment_count"`
	WellbeingScore           float64          `json:"wellbeing_score"`
	RiskBreakdown            RiskBreakdown    `json:"risk_breakdown"`
	ProfileDistribution      map[string]int64 `json:"profile_distribution"`
}

// Service computes dashboard metrics and the compliance score for an
// authorized company scope.
type Service struct {
	store Store
}

// NewService returns a Service reading through the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Metrics assembles the five independent sub-queries into one
// composite view. The sub-queries are all reads with no ordering
// dependency; they run sequentially here and any failure aborts the
// whole aggregation.
func (s *Service) Metrics(scope CompanyScope) (*Metrics, error) {
	companyID := scope.CompanyID()

	activeMembers, err := s.store.CountActiveMembers(companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: active members: %v", ErrAggregationFailure, err)
	}

	completed, err := s.store.CountDiscAssessments(companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: completed assessments: %v", ErrAggregationFailure, err)
	}

	wellbeing, err := s.store.AverageWellbeingScore(companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: wellbeing score: %v", ErrAggregationFailure, err)
	}

	var breakdown RiskBreakdown
	for _, tier := range []struct {
		severity int
		count    *int64
	}{
		{SeverityHigh, &breakdown.High},
		{SeverityMedium, &breakdown.Medium},
		{SeverityLow, &breakdown.Low},
	} {
		n, err := s.store.CountRisksBySeverity(companyID, tier.severity)
		if err != nil {
			return nil, fmt.Errorf("%w: risk breakdown: %v", ErrAggregationFailure, err)
		}
		*tier.count = n
	}

	distribution, err := s.store.ProfileDistribution(companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: profile distribution: %v", ErrAggregationFailure, err)
	}

	return &Metrics{
		ActiveMemberCount:        activeMembers,
		CompletedAssessmentCount: completed,
		WellbeingScore:           math.Round(wellbeing*10) / 10,
		RiskBreakdown:            breakdown,
		ProfileDistribution:      distribution,
	}, nil
}

// Compliance computes the bounded 0-100 compliance score from current
// counts. Pure function of storage state; no caching.
func (s *Service) Compliance(scope CompanyScope) (*Compliance, error) {
	companyID := scope.CompanyID()

	activeMembers, err := s.store.CountActiveMembers(companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: active members: %v", ErrAggregationFailure, err)
	}

	completed, err := s.store.CountDiscAssessments(companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: completed assessments: %v", ErrAggregationFailure, err)
	}

	totalRisks, err := s.store.CountRisks(companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: total risks: %v", ErrAggregationFailure, err)
	}

	resolvedRisks, err := s.store.CountRisksByStatus(companyID, model.RiskStatusResolved)
	if err != nil {
		return nil, fmt.Errorf("%w: resolved risks: %v", ErrAggregationFailure, err)
	}

	assessmentScore := AssessmentScore(completed, activeMembers)
	riskScore := RiskScore(resolvedRisks, totalRisks)

	return &Compliance{
		AssessmentScore: assessmentScore,
		RiskScore:       riskScore,
		ComplianceScore: ComplianceScore(assessmentScore, riskScore),
	}, nil
}
