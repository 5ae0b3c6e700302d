package jwtutil

import (
	"errors"
	"strconv"
	"time"

	"wellbeing-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// devPlaceholderKey is only ever used outside the production posture,
// and only after a loud warning. config.Load refuses to start
// production without an explicit key.
const devPlaceholderKey = "insecure-dev-signing-key"

var (
	secret          []byte
	expirationHours = 24
)

// ErrInvalidToken covers every verification failure: bad signature,
// expired, malformed. Callers must not distinguish them in responses.
var ErrInvalidToken = errors.New("invalid or expired token")

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	CompanyID uint   `json:"company_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Initialize configures signing material from the loaded configuration.
// Must be called before any token is generated or validated.
func Initialize(cfg *config.JWTConfig, log *zap.Logger) {
	if cfg.ExpirationHours > 0 {
		expirationHours = cfg.ExpirationHours
	}

	if cfg.SigningKey == "" {
		log.Warn("JWT_SIGNING_KEY is not set; using a NON-PRODUCTION placeholder key. " +
			"Tokens issued with it are NOT secure. Set JWT_SIGNING_KEY before deploying.")
		secret = []byte(devPlaceholderKey)
		return
	}

	secret = []byte(cfg.SigningKey)
}

// GenerateToken creates a signed token encoding the user and company identity
func GenerateToken(userID uint, email string, companyID uint, role string) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:    userID,
		Email:     email,
		CompanyID: companyID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expirationHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
