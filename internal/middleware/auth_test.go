package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"english_hub/internal/config"
	"english_hub/internal/middleware"
	"english_hub/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-middleware"

func signToken(t *testing.T, secret string, userID uuid.UUID, role string, expiresAt time.Time) string {
	t.Helper()
	claims := model.JWTCustomClaims{
		Email: "taro@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newProtectedRouter(cfg *config.Config) *chi.Mux {
	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuthMiddleware(cfg))
		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			userID, err := middleware.GetUserIDFromContext(r.Context())
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(userID.String()))
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		})
	})
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: testSecret}}
	router := newProtectedRouter(cfg)
	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "Success - Valid token",
			authHeader:     "Bearer " + signToken(t, testSecret, userID, model.RoleUser, time.Now().Add(time.Hour)),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Fail - Missing Authorization header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Fail - Not a bearer token",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Fail - Expired token",
			authHeader:     "Bearer " + signToken(t, testSecret, userID, model.RoleUser, time.Now().Add(-time.Hour)),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Fail - Token signed with wrong secret",
			authHeader:     "Bearer " + signToken(t, "another-secret", userID, model.RoleUser, time.Now().Add(time.Hour)),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Fail - Garbage token",
			authHeader:     "Bearer not.a.token",
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, userID.String(), rr.Body.String(), "コンテキストからユーザーIDを取り出せる")
			}
		})
	}
}

func TestJWTAuthMiddleware_SubjectValidation(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: testSecret}}
	router := newProtectedRouter(cfg)

	// subject がUUIDでないトークンは拒否される
	claims := jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireAdmin(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: testSecret}}
	router := newProtectedRouter(cfg)
	userID := uuid.New()

	tests := []struct {
		name           string
		role           string
		expectedStatus int
	}{
		{
			name:           "Success - Admin role",
			role:           model.RoleAdmin,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Fail - Regular user role",
			role:           model.RoleUser,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token := signToken(t, testSecret, userID, tc.role, time.Now().Add(time.Hour))
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}
