package dashboard

import (
	"errors"
	"testing"

	"wellbeing-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	activeMembers int64
	discCount     int64
	wellbeingAvg  float64
	severities    map[int]int64
	totalRisks    int64
	resolved      int64
	distribution  map[string]int64

	queriedSeverities []int

	activeMembersErr error
	discCountErr     error
	wellbeingErr     error
	severityErr      error
	totalRisksErr    error
	resolvedErr      error
	distributionErr  error
}

func (f *fakeStore) CountActiveMembers(companyID uint) (int64, error) {
	return f.activeMembers, f.activeMembersErr
}

func (f *fakeStore) CountDiscAssessments(companyID uint) (int64, error) {
	return f.discCount, f.discCountErr
}

func (f *fakeStore) AverageWellbeingScore(companyID uint) (float64, error) {
	return f.wellbeingAvg, f.wellbeingErr
}

func (f *fakeStore) CountRisksBySeverity(companyID uint, severity int) (int64, error) {
	f.queriedSeverities = append(f.queriedSeverities, severity)
	return f.severities[severity], f.severityErr
}

func (f *fakeStore) CountRisks(companyID uint) (int64, error) {
	return f.totalRisks, f.totalRisksErr
}

func (f *fakeStore) CountRisksByStatus(companyID uint, status string) (int64, error) {
	return f.resolved, f.resolvedErr
}

func (f *fakeStore) ProfileDistribution(companyID uint) (map[string]int64, error) {
	return f.distribution, f.distributionErr
}

func adminScope(t *testing.T, companyID uint) CompanyScope {
	t.Helper()
	scope, err := Authorize(&model.User{CompanyID: companyID, Role: model.RoleAdmin}, companyID)
	require.NoError(t, err)
	return scope
}

func TestServiceMetrics(t *testing.T) {
	store := &fakeStore{
		activeMembers: 10,
		discCount:     4,
		wellbeingAvg:  71.25,
		severities:    map[int]int64{5: 2, 4: 9, 3: 3, 2: 9, 1: 1},
		distribution:  map[string]int64{"D": 2, "C": 1},
	}
	svc := NewService(store)

	metrics, err := svc.Metrics(adminScope(t, 7))
	require.NoError(t, err)

	assert.Equal(t, int64(10), metrics.ActiveMemberCount)
	assert.Equal(t, int64(4), metrics.CompletedAssessmentCount)
	assert.InDelta(t, 71.3, metrics.WellbeingScore, 1e-9)
	assert.Equal(t, RiskBreakdown{High: 2, Medium: 3, Low: 1}, metrics.RiskBreakdown)
	assert.Equal(t, map[string]int64{"D": 2, "C": 1}, metrics.ProfileDistribution)
}

// The tiers bucket only the exact severities 5, 3 and 1; rows with
// severity 2 or 4 are excluded from every bucket.
func TestServiceMetrics_SeverityExactMatch(t *testing.T) {
	store := &fakeStore{severities: map[int]int64{2: 100, 4: 100}}
	svc := NewService(store)

	metrics, err := svc.Metrics(adminScope(t, 7))
	require.NoError(t, err)

	assert.Equal(t, RiskBreakdown{}, metrics.RiskBreakdown)
	assert.ElementsMatch(t, []int{5, 3, 1}, store.queriedSeverities)
}

func TestServiceMetrics_EmptyCompany(t *testing.T) {
	svc := NewService(&fakeStore{})

	metrics, err := svc.Metrics(adminScope(t, 7))
	require.NoError(t, err)

	// Zero rows yields the literal 0.0, not NaN or null
	assert.Equal(t, 0.0, metrics.WellbeingScore)
	assert.Equal(t, int64(0), metrics.ActiveMemberCount)
	assert.Equal(t, int64(0), metrics.CompletedAssessmentCount)
}

func TestServiceMetrics_FirstErrorAbortsWhole(t *testing.T) {
	boom := errors.New("connection reset")
	tests := []struct {
		name  string
		store *fakeStore
	}{
		{"active members query fails", &fakeStore{activeMembersErr: boom}},
		{"assessment count query fails", &fakeStore{discCountErr: boom}},
		{"wellbeing average query fails", &fakeStore{wellbeingErr: boom}},
		{"severity count query fails", &fakeStore{severityErr: boom}},
		{"profile distribution query fails", &fakeStore{distributionErr: boom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics, err := NewService(tt.store).Metrics(adminScope(t, 7))
			assert.Nil(t, metrics)
			assert.ErrorIs(t, err, ErrAggregationFailure)
		})
	}
}

func TestServiceCompliance(t *testing.T) {
	// 10 active members, 4 completed assessments, 3 of 6 risks
	// resolved: 20 + 25 = 45
	store := &fakeStore{
		activeMembers: 10,
		discCount:     4,
		totalRisks:    6,
		resolved:      3,
	}

	compliance, err := NewService(store).Compliance(adminScope(t, 7))
	require.NoError(t, err)

	assert.InDelta(t, 20, compliance.AssessmentScore, 1e-9)
	assert.InDelta(t, 25, compliance.RiskScore, 1e-9)
	assert.Equal(t, 45, compliance.ComplianceScore)
}

func TestServiceCompliance_EmptyCompany(t *testing.T) {
	compliance, err := NewService(&fakeStore{}).Compliance(adminScope(t, 7))
	require.NoError(t, err)

	assert.Equal(t, 0.0, compliance.AssessmentScore)
	assert.Equal(t, 50.0, compliance.RiskScore)
	assert.Equal(t, 50, compliance.ComplianceScore)
}

func TestServiceCompliance_StoreFailure(t *testing.T) {
	boom := errors.New("connection reset")
	compliance, err := NewService(&fakeStore{resolvedErr: boom}).Compliance(adminScope(t, 7))
	assert.Nil(t, compliance)
	assert.ErrorIs(t, err, ErrAggregationFailure)
}

func TestAuthorize(t *testing.T) {
	admin := &model.User{ID: 1, CompanyID: 7, Role: model.RoleAdmin}
	member := &model.User{ID: 2, CompanyID: 7, Role: model.RoleMember}

	t.Run("admin of the requested company", func(t *testing.T) {
		scope, err := Authorize(admin, 7)
		require.NoError(t, err)
		assert.Equal(t, uint(7), scope.CompanyID())
	})

	t.Run("admin of another company", func(t *testing.T) {
		_, err := Authorize(admin, 8)
		assert.ErrorIs(t, err, ErrCompanyMismatch)
	})

	t.Run("member of the requested company", func(t *testing.T) {
		_, err := Authorize(member, 7)
		assert.ErrorIs(t, err, ErrNotAdmin)
	})
}
