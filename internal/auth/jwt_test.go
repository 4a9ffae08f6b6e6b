package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fixline/complaint-api/internal/auth"
	"github.com/fixline/complaint-api/internal/config"
	"github.com/fixline/complaint-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret: "test-signing-secret",
		Issuer:    "complaint-api-test",
		TokenTTL:  3600,
	}
}

func testAccount(role domain.UserRole) *domain.User {
	user := &domain.User{
		Email:       "tech@example.com",
		DisplayName: "Ravi Kumar",
		Role:        role,
	}
	user.ID = uuid.New()
	return user
}

func TestJWTValidator_RoundTrip(t *testing.T) {
	validator := auth.NewJWTValidator(testAuthConfig())
	user := testAccount(domain.RoleTechnician)

	token, err := validator.IssueToken(user)
	require.NoError(t, err)

	userCtx, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, "Ravi Kumar", userCtx.DisplayName)
	assert.Equal(t, "tech@example.com", userCtx.Email)
	assert.Equal(t, domain.RoleTechnician, userCtx.Role)
	assert.True(t, userCtx.IsTechnician())
	assert.True(t, userCtx.IsStaff())
	assert.False(t, userCtx.IsAdmin())
}

func TestJWTValidator_Rejections(t *testing.T) {
	validator := auth.NewJWTValidator(testAuthConfig())

	t.Run("garbage token", func(t *testing.T) {
		_, err := validator.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := auth.NewJWTValidator(&config.AuthConfig{
			JWTSecret: "a-different-secret",
			Issuer:    "complaint-api-test",
			TokenTTL:  3600,
		})
		token, err := other.IssueToken(testAccount(domain.RoleAdmin))
		require.NoError(t, err)

		_, err = validator.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := auth.NewJWTValidator(&config.AuthConfig{
			JWTSecret: "test-signing-secret",
			Issuer:    "someone-else",
			TokenTTL:  3600,
		})
		token, err := other.IssueToken(testAccount(domain.RoleAdmin))
		require.NoError(t, err)

		_, err = validator.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		now := time.Now()
		claims := jwt.MapClaims{
			"sub":  uuid.New().String(),
			"iss":  "complaint-api-test",
			"role": string(domain.RoleUser),
			"iat":  now.Add(-2 * time.Hour).Unix(),
			"exp":  now.Add(-time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-secret"))
		require.NoError(t, err)

		_, err = validator.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := validator.IssueToken(testAccount(domain.UserRole("superuser")))
		require.NoError(t, err)

		_, err = validator.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestMiddleware_Authenticate(t *testing.T) {
	cfg := &config.Config{Auth: *testAuthConfig()}
	middleware := auth.NewMiddleware(cfg, zap.NewNop())
	validator := auth.NewJWTValidator(testAuthConfig())

	var captured *auth.UserContext
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer token passes through", func(t *testing.T) {
		user := testAccount(domain.RoleAdmin)
		token, err := validator.IssueToken(user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/complaints", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, user.ID, captured.UserID)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/complaints", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/complaints", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
