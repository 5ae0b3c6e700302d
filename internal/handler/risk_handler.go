package handler

import (
	"net/http"
	"strconv"
	"time"

	"wellbeing-service/internal/middleware"
	"wellbeing-service/internal/model"
	"wellbeing-service/pkg/database"
	"wellbeing-service/pkg/logger"
	"wellbeing-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// riskStatusRank orders the lifecycle; transitions only move forward.
var riskStatusRank = map[string]int{
	model.RiskStatusIdentified: 0,
	model.RiskStatusInProgress: 1,
	model.RiskStatusResolved:   2,
}

// CreateRisk records a psychosocial risk for the caller's company
func CreateRisk(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRiskOperation("create")

	caller, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		UserID      *uint  `json:"user_id,omitempty"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Severity    int    `json:"severity"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse risk request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Severity < 1 || req.Severity > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "severity must be between 1 and 5"})
	}

	if req.UserID != nil {
		var target model.User
		if result := database.GetDB().First(&target, *req.UserID); result.Error != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		if !sameCompany(caller, &target) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
	}

	risk := model.PsychosocialRisk{
		CompanyID:   caller.CompanyID,
		UserID:      req.UserID,
		Category:    req.Category,
		Description: req.Description,
		Severity:    req.Severity,
		Status:      model.RiskStatusIdentified,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&risk); result.Error != nil {
		log.Error("Failed to create risk", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "risk creation failed"})
	}

	log.Info("Risk recorded",
		zap.Uint("company_id", risk.CompanyID),
		zap.Int("severity", risk.Severity))

	return c.JSON(http.StatusCreated, echo.Map{"risk": risk, "message": "risk recorded"})
}

// ListRisks lists the caller's company risks, optionally by status
func ListRisks(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRiskOperation("list")

	caller, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	query := database.GetDB().Where("company_id = ?", caller.CompanyID)
	if status := c.QueryParam("status"); status != "" {
		if _, known := riskStatusRank[status]; !known {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		query = query.Where("status = ?", status)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var risks []model.PsychosocialRisk
	if result := query.Order("severity DESC, created_at DESC").Find(&risks); result.Error != nil {
		log.Error("Failed to list risks", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list risks"})
	}

	return c.JSON(http.StatusOK, echo.Map{"risks": risks, "total": len(risks)})
}

// UpdateRiskStatus advances a risk along its lifecycle
func UpdateRiskStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRiskOperation("transition")

	caller, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	riskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid risk id"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	newRank, known := riskStatusRank[req.Status]
	if !known {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	var risk model.PsychosocialRisk
	if result := database.GetDB().First(&risk, uint(riskID)); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "risk not found"})
	}

	if risk.CompanyID != caller.CompanyID {
		log.Error("Cross-company risk update denied",
			zap.Uint("caller_company_id", caller.CompanyID),
			zap.Uint("risk_company_id", risk.CompanyID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	if newRank <= riskStatusRank[risk.Status] {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "risk status can only move forward (identified -> in_progress -> resolved)",
		})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Model(&risk).Update("status", req.Status); result.Error != nil {
		log.Error("Failed to update risk status", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "risk update failed"})
	}

	log.Info("Risk status updated",
		zap.Uint("risk_id", risk.ID),
		zap.String("status", req.Status))

	return c.JSON(http.StatusOK, echo.Map{"risk": risk, "message": "risk status updated"})
}
