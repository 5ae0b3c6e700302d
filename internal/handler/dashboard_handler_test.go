package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"wellbeing-service/internal/dashboard"
	"wellbeing-service/internal/middleware"
	"wellbeing-service/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	activeMembers int64
	discCount     int64
	wellbeingAvg  float64
	severities    map[int]int64
	totalRisks    int64
	resolved      int64
	distribution  map[string]int64
	err           error
}

func (s *stubStore) CountActiveMembers(companyID uint) (int64, error) {
	return s.activeMembers, s.err
}

func (s *stubStore) CountDiscAssessments(companyID uint) (int64, error) {
	return s.discCount, s.err
}

func (s *stubStore) AverageWellbeingScore(companyID uint) (float64, error) {
	return s.wellbeingAvg, s.err
}

func (s *stubStore) CountRisksBySeverity(companyID uint, severity int) (int64, error) {
	return s.severities[severity], s.err
}

func (s *stubStore) CountRisks(companyID uint) (int64, error) {
	return s.totalRisks, s.err
}

func (s *stubStore) CountRisksByStatus(companyID uint, status string) (int64, error) {
	return s.resolved, s.err
}

func (s *stubStore) ProfileDistribution(companyID uint) (map[string]int64, error) {
	return s.distribution, s.err
}

func serveDashboard(t *testing.T, store dashboard.Store, user *model.User, companyID string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewDashboardHandler(dashboard.NewService(store))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/dashboard/metrics/:companyId")
	c.SetParamNames("companyId")
	c.SetParamValues(companyID)
	c.Set(middleware.ContextKeyUser, user)

	require.NoError(t, h.Metrics(c))
	return rec
}

func TestDashboardMetrics(t *testing.T) {
	admin := &model.User{ID: 1, CompanyID: 7, Role: model.RoleAdmin, Status: model.StatusActive}
	store := &stubStore{
		activeMembers: 10,
		discCount:     4,
		wellbeingAvg:  68.4,
		severities:    map[int]int64{5: 2, 3: 1, 1: 3},
		totalRisks:    6,
		resolved:      3,
		distribution:  map[string]int64{"D": 2, "I": 1, "C": 1},
	}

	rec := serveDashboard(t, store, admin, "7")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, float64(10), body["active_member_count"])
	assert.Equal(t, float64(4), body["completed_assessment_count"])
	assert.InDelta(t, 68.4, body["wellbeing_score"], 1e-9)
	assert.Equal(t, float64(45), body["compliance_score"])

	breakdown, ok := body["risk_breakdown"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), breakdown["high"])
	assert.Equal(t, float64(1), breakdown["medium"])
	assert.Equal(t, float64(3), breakdown["low"])
}

func TestDashboardMetrics_CrossCompanyDenied(t *testing.T) {
	admin := &model.User{ID: 1, CompanyID: 7, Role: model.RoleAdmin, Status: model.StatusActive}

	rec := serveDashboard(t, &stubStore{}, admin, "8")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardMetrics_MemberDenied(t *testing.T) {
	member := &model.User{ID: 2, CompanyID: 7, Role: model.RoleMember, Status: model.StatusActive}

	rec := serveDashboard(t, &stubStore{}, member, "7")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardMetrics_StoreFailure(t *testing.T) {
	admin := &model.User{ID: 1, CompanyID: 7, Role: model.RoleAdmin, Status: model.StatusActive}
	store := &stubStore{err: errors.New("connection reset")}

	rec := serveDashboard(t, store, admin, "7")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "aggregation failed")
	// No internal detail leaks to the client
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestDashboardMetrics_Idempotent(t *testing.T) {
	admin := &model.User{ID: 1, CompanyID: 7, Role: model.RoleAdmin, Status: model.StatusActive}
	store := &stubStore{
		activeMembers: 10,
		discCount:     4,
		totalRisks:    6,
		resolved:      3,
		distribution:  map[string]int64{"D": 2},
	}

	first := serveDashboard(t, store, admin, "7")
	second := serveDashboard(t, store, admin, "7")

	assert.Equal(t, first.Code, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}
