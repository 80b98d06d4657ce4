package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/Tejayenduri9/biryani-boys-backend/pkg/auth"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/config"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/types"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "biryani-boys",
		ExpirationMinutes: 60,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
}

func mintToken(t *testing.T, cfg config.JWTConfig) string {
	t.Helper()
	token, err := pkgauth.MintIdentityToken(cfg, time.Now(), "u1", "Asha", "asha@example.com")
	require.NoError(t, err)
	return token
}

func identityEcho(t *testing.T, captured *types.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	t.Parallel()

	var captured types.Identity
	handler := Auth(testJWTConfig(), testLogger())(identityEcho(t, &captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, captured.Present())
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	var captured types.Identity
	handler := Auth(testJWTConfig(), testLogger())(identityEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, captured.Present())
}

func TestAuthInjectsIdentity(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	var captured types.Identity
	handler := Auth(cfg, testLogger())(identityEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", captured.UID)
	assert.Equal(t, "Asha", captured.DisplayName)
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	t.Parallel()

	var captured types.Identity
	handler := OptionalAuth(testJWTConfig(), testLogger())(identityEcho(t, &captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, captured.Present())
}

func TestOptionalAuthStillRejectsBadToken(t *testing.T) {
	t.Parallel()

	var captured types.Identity
	handler := OptionalAuth(testJWTConfig(), testLogger())(identityEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.Header.Set("Authorization", "Bearer expired-or-forged")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthInjectsIdentityWhenPresent(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	var captured types.Identity
	handler := OptionalAuth(cfg, testLogger())(identityEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", captured.UID)
}
