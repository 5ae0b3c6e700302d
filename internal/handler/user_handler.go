package handler

import (
	"net/http"
	"time"

	"wellbeing-service/internal/middleware"
	"wellbeing-service/internal/model"
	"wellbeing-service/pkg/database"
	"wellbeing-service/pkg/logger"
	"wellbeing-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// GetProfile returns the authenticated user's own record
func GetProfile(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// UpdateProfile updates the mutable fields of the authenticated user
func UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse profile update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Model(user).Update("name", req.Name); result.Error != nil {
		log.Error("Failed to update profile", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "profile update failed"})
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"user": user, "message": "profile updated"})
}

// ChangePassword re-verifies the current password before storing a new hash
func ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse password change request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_password is required"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		log.Error("Password change failed: wrong current password", zap.Uint("user_id", user.ID))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password change failed"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Model(user).Update("password", string(hashed)); result.Error != nil {
		log.Error("Failed to store new password", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password change failed"})
	}

	log.Info("Password changed", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// sameCompany reports whether the target user belongs to the caller's company.
func sameCompany(caller *model.User, target *model.User) bool {
	return caller.CompanyID == target.CompanyID
}
