package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wellbeing-service/internal/identity"
	"wellbeing-service/internal/model"
	"wellbeing-service/pkg/config"
	"wellbeing-service/pkg/jwtutil"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const testSigningKey = "gate-test-signing-key"

type fakeResolver struct {
	users map[uint]*model.User
	err   error
}

func (r *fakeResolver) ResolveUser(id uint) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return user, nil
}

func setupGate(t *testing.T, resolver identity.Resolver) *echo.Echo {
	t.Helper()
	jwtutil.Initialize(&config.JWTConfig{SigningKey: testSigningKey, ExpirationHours: 24}, zap.NewNop())

	e := echo.New()
	protected := e.Group("/api")
	protected.Use(AuthMiddleware(resolver))
	protected.GET("/whoami", func(c echo.Context) error {
		user, ok := UserFromContext(c)
		if !ok {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no identity attached"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"user_id":    user.ID,
			"email":      user.Email,
			"company_id": user.CompanyID,
		})
	})
	return e
}

func signToken(t *testing.T, key string, userID uint, expiresAt time.Time) string {
	t.Helper()
	claims := jwtutil.UserClaims{
		UserID:    userID,
		Email:     "ana@example.com",
		CompanyID: 7,
		Role:      model.RoleMember,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func doRequest(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	activeUser := &model.User{
		ID:        42,
		CompanyID: 7,
		Email:     "ana@example.com",
		Role:      model.RoleMember,
		Status:    model.StatusActive,
	}
	resolver := &fakeResolver{users: map[uint]*model.User{42: activeUser}}

	t.Run("valid token attaches identity", func(t *testing.T) {
		e := setupGate(t, resolver)
		token := signToken(t, testSigningKey, 42, time.Now().Add(time.Hour))

		rec := doRequest(e, "Bearer "+token)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		var body map[string]interface{}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		if body["email"] != "ana@example.com" {
			t.Errorf("expected attached identity email, got %v", body["email"])
		}
		if body["company_id"] != float64(7) {
			t.Errorf("expected company_id 7, got %v", body["company_id"])
		}
	})

	t.Run("missing authorization header", func(t *testing.T) {
		e := setupGate(t, resolver)

		rec := doRequest(e, "")

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		e := setupGate(t, resolver)

		rec := doRequest(e, "Basic dXNlcjpwYXNz")

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("expired token rejected regardless of signature", func(t *testing.T) {
		e := setupGate(t, resolver)
		token := signToken(t, testSigningKey, 42, time.Now().Add(-time.Minute))

		rec := doRequest(e, "Bearer "+token)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("token signed with a different secret rejected", func(t *testing.T) {
		e := setupGate(t, resolver)
		token := signToken(t, "not-the-server-secret", 42, time.Now().Add(time.Hour))

		rec := doRequest(e, "Bearer "+token)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("subject deleted after issuance rejected", func(t *testing.T) {
		e := setupGate(t, &fakeResolver{users: map[uint]*model.User{}})
		token := signToken(t, testSigningKey, 42, time.Now().Add(time.Hour))

		rec := doRequest(e, "Bearer "+token)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("inactive subject rejected", func(t *testing.T) {
		inactive := &model.User{ID: 42, CompanyID: 7, Email: "ana@example.com", Status: model.StatusInactive}
		e := setupGate(t, &fakeResolver{users: map[uint]*model.User{42: inactive}})
		token := signToken(t, testSigningKey, 42, time.Now().Add(time.Hour))

		rec := doRequest(e, "Bearer "+token)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("expired and tampered failures are indistinguishable to the client", func(t *testing.T) {
		e := setupGate(t, resolver)
		expired := doRequest(e, "Bearer "+signToken(t, testSigningKey, 42, time.Now().Add(-time.Minute)))
		tampered := doRequest(e, "Bearer "+signToken(t, "not-the-server-secret", 42, time.Now().Add(time.Hour)))

		if expired.Code != tampered.Code {
			t.Errorf("status codes differ: %d vs %d", expired.Code, tampered.Code)
		}
		if expired.Body.String() != tampered.Body.String() {
			t.Errorf("response bodies differ: %q vs %q", expired.Body.String(), tampered.Body.String())
		}
	})
}
