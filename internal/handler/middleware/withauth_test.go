package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheRmarkable/Common-Component-Backend/internal/config"
	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
)

const testKey = "test-key"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	require.NoError(t, err)

	return token
}

func authHandler(t *testing.T) (http.Handler, *domain.Principal) {
	t.Helper()

	cfg := &config.Config{
		PrivateKey:       testKey,
		AuthDisabledURLs: []string{"/login", "/register"},
	}

	var seen domain.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFrom(r)
		w.WriteHeader(http.StatusOK)
	})

	return WithAuth(cfg)(next), &seen
}

func TestWithAuthPassesPrincipal(t *testing.T) {
	handler, seen := authHandler(t)

	token := signToken(t, jwt.MapClaims{"sub": "user-1", "role": "FINANCE_USER"})

	r := httptest.NewRequest(http.MethodGet, "/api/users/user-1", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", seen.UserID)
	assert.Equal(t, domain.RoleFinanceUser, seen.Role)
}

func TestWithAuthRejectsMissingToken(t *testing.T) {
	handler, _ := authHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/api/users/user-1", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithAuthRejectsBadSignature(t *testing.T) {
	handler, _ := authHandler(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).
		SignedString([]byte("other-key"))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/users/user-1", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithAuthRejectsTokenWithoutSubject(t *testing.T) {
	handler, _ := authHandler(t)

	token := signToken(t, jwt.MapClaims{"role": "STANDARD_USER"})

	r := httptest.NewRequest(http.MethodGet, "/api/users/user-1", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithAuthSkipsPublicPaths(t *testing.T) {
	handler, _ := authHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/api/user/login", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWithAuthIgnoresQueryStringWhenMatchingPublicPaths(t *testing.T) {
	handler, _ := authHandler(t)

	r := httptest.NewRequest(http.MethodPut, "/api/accounts/a1/transactions/t1/approve-reject?x=/login", nil)
	r.Header.Set(UserIDHeader, "attacker")
	r.Header.Set(UserRoleHeader, "FINANCE_USER")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithAuthStripsSpoofedHeadersOnPublicPaths(t *testing.T) {
	handler, seen := authHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/api/user/login", nil)
	r.Header.Set(UserIDHeader, "attacker")
	r.Header.Set(UserRoleHeader, "FINANCE_USER")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, seen.UserID)
	assert.Empty(t, seen.Role)
}

func TestWithAuthStripsSpoofedHeaders(t *testing.T) {
	handler, seen := authHandler(t)

	token := signToken(t, jwt.MapClaims{"sub": "user-1", "role": "STANDARD_USER"})

	r := httptest.NewRequest(http.MethodGet, "/api/users/user-1", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	r.Header.Set(UserIDHeader, "admin")
	r.Header.Set(UserRoleHeader, "FINANCE_USER")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, "user-1", seen.UserID)
	assert.Equal(t, domain.RoleStandardUser, seen.Role)
}
