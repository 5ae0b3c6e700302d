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

func companyIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

// GetCompany returns the caller's own company record
func GetCompany(c echo.Context) error {
	log := logger.FromContext(c)

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	companyID, err := companyIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	// Tenant isolation: a user only ever reads their own company.
	if user.CompanyID != companyID {
		log.Error("Cross-company access denied",
			zap.Uint("user_company_id", user.CompanyID),
			zap.Uint("requested_company_id", companyID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var company model.Company
	if result := database.GetDB().First(&company, companyID); result.Error != nil {
		log.Error("Company not found", zap.Uint("company_id", companyID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"company": company})
}

// ListCompanyUsers lists the members of the caller's company
func ListCompanyUsers(c echo.Context) error {
	log := logger.FromContext(c)

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	companyID, err := companyIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	if user.CompanyID != companyID {
		log.Error("Cross-company access denied",
			zap.Uint("user_company_id", user.CompanyID),
			zap.Uint("requested_company_id", companyID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var users []model.User
	if result := database.GetDB().Where("company_id = ?", companyID).Order("name").Find(&users); result.Error != nil {
		log.Error("Failed to list company users", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list users"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users": users,
		"total": len(users),
	})
}
