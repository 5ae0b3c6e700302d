package handler

import (
	"net/http"
	"sort"
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

// Screening thresholds above which a licensed professional must review
// the assessment.
const (
	phq9OversightThreshold    = 15
	gad7OversightThreshold    = 15
	burnoutOversightThreshold = 70
)

// CreateDiscAssessment stores a DISC assessment for a user in the
// caller's company and returns profile-matched insights
func CreateDiscAssessment(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAssessment("disc")

	caller, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		UserID                 uint   `json:"user_id"`
		DominanceScore         int    `json:"dominance_score"`
		InfluenceScore         int    `json:"influence_score"`
		SteadinessScore        int    `json:"steadiness_score"`
		ConscientiousnessScore int    `json:"conscientiousness_score"`
		PrimaryStyle           string `json:"primary_style"`
		SecondaryStyle         string `json:"secondary_style"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse DISC assessment request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	target := caller
	if req.UserID != 0 && req.UserID != caller.ID {
		var other model.User
		if result := database.GetDB().First(&other, req.UserID); result.Error != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		if !sameCompany(caller, &other) {
			log.Error("Cross-company assessment denied",
				zap.Uint("caller_company_id", caller.CompanyID),
				zap.Uint("target_company_id", other.CompanyID))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
		target = &other
	}

	primary, secondary := req.PrimaryStyle, req.SecondaryStyle
	if primary == "" {
		primary, secondary = deriveDiscStyles(
			req.DominanceScore, req.InfluenceScore, req.SteadinessScore, req.ConscientiousnessScore)
	}

	assessment := model.DiscAssessment{
		UserID:                 target.ID,
		CompanyID:              target.CompanyID,
		DominanceScore:         req.DominanceScore,
		InfluenceScore:         req.InfluenceScore,
		SteadinessScore:        req.SteadinessScore,
		ConscientiousnessScore: req.ConscientiousnessScore,
		PrimaryStyle:           primary,
		SecondaryStyle:         secondary,
		AssessedAt:             time.Now(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&assessment); result.Error != nil {
		log.Error("Failed to create DISC assessment", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assessment creation failed"})
	}

	insights := discInsights(primary)

	log.Info("DISC assessment created",
		zap.Uint("user_id", target.ID),
		zap.String("primary_style", primary))

	return c.JSON(http.StatusCreated, echo.Map{
		"assessment": assessment,
		"insights":   insights,
		"message":    "DISC assessment created",
	})
}

// CreateMentalHealthAssessment stores a mental-health screening and
// flags it for professional oversight above the protocol thresholds
func CreateMentalHealthAssessment(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAssessment("mental_health")

	caller, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		UserID       uint   `json:"user_id"`
		Protocol     string `json:"protocol"`
		PHQ9Score    int    `json:"phq9_score"`
		GAD7Score    int    `json:"gad7_score"`
		BurnoutScore int    `json:"burnout_score"`
		TotalScore   int    `json:"total_score"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse mental health assessment request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	target := caller
	if req.UserID != 0 && req.UserID != caller.ID {
		var other model.User
		if result := database.GetDB().First(&other, req.UserID); result.Error != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		if !sameCompany(caller, &other) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
		target = &other
	}

	total := req.TotalScore
	if total == 0 {
		total = req.PHQ9Score + req.GAD7Score + req.BurnoutScore
	}

	requiresOversight := req.PHQ9Score >= phq9OversightThreshold ||
		req.GAD7Score >= gad7OversightThreshold ||
		req.BurnoutScore >= burnoutOversightThreshold

	protocol := req.Protocol
	if protocol == "" {
		protocol = "phq9+gad7"
	}

	assessment := model.MentalHealthAssessment{
		UserID:       target.ID,
		CompanyID:    target.CompanyID,
		Protocol:     protocol,
		PHQ9Score:    req.PHQ9Score,
		GAD7Score:    req.GAD7Score,
		BurnoutScore: req.BurnoutScore,
		TotalScore:   total,
		RiskTier:     mentalHealthRiskTier(req.PHQ9Score, req.GAD7Score, req.BurnoutScore),
		AssessedAt:   time.Now(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&assessment); result.Error != nil {
		log.Error("Failed to create mental health assessment", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assessment creation failed"})
	}

	if requiresOversight {
		log.Warn("Assessment requires professional oversight",
			zap.Uint("user_id", target.ID),
			zap.Uint("assessment_id", assessment.ID))
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"assessment":                      assessment,
		"requires_professional_oversight": requiresOversight,
		"message":                         "mental health assessment created",
	})
}

// GetUserAssessments returns both assessment families for one user of
// the caller's company, newest first
func GetUserAssessments(c echo.Context) error {
	log := logger.FromContext(c)

	caller, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	var target model.User
	if result := database.GetDB().First(&target, uint(userID)); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if !sameCompany(caller, &target) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var disc []model.DiscAssessment
	if result := database.GetDB().
		Where("user_id = ?", target.ID).
		Order("assessed_at DESC").
		Find(&disc); result.Error != nil {
		log.Error("Failed to load DISC assessments", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load assessments"})
	}

	var mentalHealth []model.MentalHealthAssessment
	if result := database.GetDB().
		Where("user_id = ?", target.ID).
		Order("assessed_at DESC").
		Find(&mentalHealth); result.Error != nil {
		log.Error("Failed to load mental health assessments", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load assessments"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user_id":                   target.ID,
		"disc_assessments":          disc,
		"mental_health_assessments": mentalHealth,
		"total_assessments":         len(disc) + len(mentalHealth),
	})
}

// deriveDiscStyles ranks the four sub-scores and returns the primary
// and secondary style letters. Ties resolve in D, I, S, C order.
func deriveDiscStyles(dominance, influence, steadiness, conscientiousness int) (string, string) {
	type styleScore struct {
		style string
		score int
	}
	scores := []styleScore{
		{"D", dominance},
		{"I", influence},
		{"S", steadiness},
		{"C", conscientiousness},
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	return scores[0].style, scores[1].style
}

func mentalHealthRiskTier(phq9, gad7, burnout int) string {
	switch {
	case phq9 >= phq9OversightThreshold || gad7 >= gad7OversightThreshold || burnout >= burnoutOversightThreshold:
		return "high"
	case phq9 >= 10 || gad7 >= 10 || burnout >= 50:
		return "moderate"
	default:
		return "low"
	}
}

// discInsights returns workplace guidance matched to the primary style
func discInsights(primaryStyle string) []echo.Map {
	switch primaryStyle {
	case "D":
		return []echo.Map{{
			"category": "productivity",
			"title":    "Strategies for a Dominant profile",
			"content":  "Dominant profiles are results-driven. Set clear goals and explicit deadlines to channel that drive.",
			"priority": "high",
		}}
	case "I":
		return []echo.Map{{
			"category": "communication",
			"title":    "Making the most of an Influential profile",
			"content":  "Influential profiles thrive on networking and presentations. Use that communicative nature to lead collaborative projects.",
			"priority": "medium",
		}}
	case "S":
		return []echo.Map{{
			"category": "wellness",
			"title":    "Steadiness and wellbeing",
			"content":  "Steady profiles value harmony. Keep consistent routines and collaborative work environments.",
			"priority": "medium",
		}}
	case "C":
		return []echo.Map{{
			"category": "productivity",
			"title":    "Leveraging a Conscientious profile",
			"content":  "Conscientious profiles pursue quality and precision. Define clear processes and reserve enough time for detailed analysis.",
			"priority": "high",
		}}
	default:
		return nil
	}
}
