package handler

import (
	"net/http"
	"strings"
	"time"

	"wellbeing-service/internal/model"
	"wellbeing-service/pkg/database"
	"wellbeing-service/pkg/jwtutil"
	"wellbeing-service/pkg/logger"
	"wellbeing-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email does not exist, so an
// unknown email costs the same as a wrong password and the response
// cannot be used to enumerate accounts.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	email := normalizeEmail(req.Email)

	// Find user in database - track DB operation duration
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Where("email = ?", email).First(&user)
	if result.Error != nil {
		// Burn a comparison anyway; unknown email and wrong password
		// must be indistinguishable to the caller.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(req.Password))
		log.Error("Login failed: user not found", zap.String("email", email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Login failed: invalid password", zap.String("email", email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if !user.IsActive() {
		log.Error("Login failed: inactive account", zap.String("email", email))
		prometheus.RecordAuthError("inactive_account")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.CompanyID, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Uint("company_id", user.CompanyID),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"company_id": user.CompanyID,
			"role":       user.Role,
		},
	})
}

func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		CompanyID uint   `json:"company_id"`
		Company   *struct {
			Name         string `json:"name"`
			CNPJ         string `json:"cnpj"`
			ContactEmail string `json:"contact_email"`
		} `json:"company,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		log.Error("Invalid registration data",
			zap.String("email", email),
			zap.Bool("password_provided", req.Password != ""))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	if req.Company == nil && req.CompanyID == 0 {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_id or company is required"})
	}

	// Check if user already exists - track DB query
	defer prometheus.TrackDBOperation("query")(time.Now())
	var existingUser model.User
	if result := database.GetDB().Where("email = ?", email).First(&existingUser); result.Error == nil {
		log.Error("User already exists", zap.String("email", email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		Name:     req.Name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     model.RoleMember,
		Status:   model.StatusActive,
	}

	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		prometheus.RecordAuthError("database_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	if req.Company != nil {
		// Company signup: create the tenant and its first administrator
		if req.Company.Name == "" || req.Company.CNPJ == "" {
			tx.Rollback()
			prometheus.RecordAuthError("incomplete_registration")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "company name and cnpj are required"})
		}

		company := model.Company{
			Name:         req.Company.Name,
			CNPJ:         req.Company.CNPJ,
			ContactEmail: normalizeEmail(req.Company.ContactEmail),
			Active:       true,
		}
		if result := tx.Create(&company); result.Error != nil {
			tx.Rollback()
			log.Error("Failed to create company", zap.Error(result.Error))
			prometheus.RecordAuthError("company_creation_failed")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "company already registered"})
		}

		user.CompanyID = company.ID
		user.Role = model.RoleAdmin
	} else {
		// Joining an existing company
		var company model.Company
		if result := tx.First(&company, req.CompanyID); result.Error != nil {
			tx.Rollback()
			log.Error("Company not found", zap.Uint("company_id", req.CompanyID))
			prometheus.RecordAuthError("company_not_found")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "company not found"})
		}
		user.CompanyID = company.ID
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := tx.Create(&user); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create user", zap.Error(result.Error))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit registration", zap.Error(err))
		prometheus.RecordAuthError("transaction_commit_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.CompanyID, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()

	log.Info("User registered",
		zap.String("email", user.Email),
		zap.Uint("company_id", user.CompanyID),
		zap.String("role", user.Role))

	return c.JSON(http.StatusCreated, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"company_id": user.CompanyID,
			"role":       user.Role,
		},
	})
}
