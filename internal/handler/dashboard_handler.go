package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"wellbeing-service/internal/dashboard"
	"wellbeing-service/internal/middleware"
	"wellbeing-service/pkg/logger"
	"wellbeing-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DashboardHandler serves the per-company rollup view. It holds the
// dashboard service explicitly instead of reaching for the global
// database so the whole path is testable against a fake store.
type DashboardHandler struct {
	svc *dashboard.Service
}

// NewDashboardHandler returns a handler over the given service.
func NewDashboardHandler(svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

type dashboardResponse struct {
	dashboard.Metrics
	AssessmentScore float64 `json:"assessment_score"`
	RiskScore       float64 `json:"risk_score"`
	ComplianceScore int     `json:"compliance_score"`
}

// Metrics returns the composite metrics plus the compliance score for
// one company. The caller must be an administrator of that company.
func (h *DashboardHandler) Metrics(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.DashboardRequestCounter.Inc()
	defer prometheus.TrackAggregation()(time.Now())

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	companyID, err := strconv.ParseUint(c.Param("companyId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	scope, err := dashboard.Authorize(user, uint(companyID))
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrNotAdmin):
			log.Error("Dashboard access denied: not an administrator", zap.Uint("user_id", user.ID))
			prometheus.RecordDashboardError("not_admin")
		case errors.Is(err, dashboard.ErrCompanyMismatch):
			log.Error("Dashboard access denied: company mismatch",
				zap.Uint("user_company_id", user.CompanyID),
				zap.Uint("requested_company_id", uint(companyID)))
			prometheus.RecordDashboardError("company_mismatch")
		}
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	metrics, err := h.svc.Metrics(scope)
	if err != nil {
		log.Error("Dashboard aggregation failed", zap.Error(err))
		prometheus.RecordDashboardError("aggregation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "aggregation failed"})
	}

	compliance, err := h.svc.Compliance(scope)
	if err != nil {
		log.Error("Compliance scoring failed", zap.Error(err))
		prometheus.RecordDashboardError("aggregation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "aggregation failed"})
	}

	log.Info("Dashboard metrics served",
		zap.Uint("company_id", scope.CompanyID()),
		zap.Int("compliance_score", compliance.ComplianceScore))

	return c.JSON(http.StatusOK, dashboardResponse{
		Metrics:         *metrics,
		AssessmentScore: compliance.AssessmentScore,
		RiskScore:       compliance.RiskScore,
		ComplianceScore: compliance.ComplianceScore,
	})
}
