package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pragati/pkg/domain"
	"pragati/pkg/requestcontext"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-key", time.Hour)
	userID := domain.NewUserID()

	raw, err := issuer.Issue(userID, RoleExecAdmin, time.Now())
	require.NoError(t, err)

	claims, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleExecAdmin, claims.Role)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-key", time.Minute)

	raw, err := issuer.Issue(domain.NewUserID(), RoleCitizen, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func TestVerifyWrongKey(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-key", time.Hour)
	other := NewTokenIssuer("different-key", time.Hour)

	raw, err := issuer.Issue(domain.NewUserID(), RoleCitizen, time.Now())
	require.NoError(t, err)

	_, err = other.Verify(raw)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-key", time.Hour)
	_, err := issuer.Verify("not.a.token")
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestRequireAuthMiddleware(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-key", time.Hour)
	userID := domain.NewUserID()

	var gotUser domain.UserID
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = requestcontext.UserID(r.Context())
		gotRole = requestcontext.Role(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(issuer)(next)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "No token provided")
	})

	t.Run("expired token", func(t *testing.T) {
		raw, err := issuer.Issue(userID, RoleExecAdmin, time.Now().Add(-2*time.Hour))
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token expired")
	})

	t.Run("valid token", func(t *testing.T) {
		raw, err := issuer.Issue(userID, RoleExecAdmin, time.Now())
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, gotUser)
		assert.Equal(t, RoleExecAdmin, gotRole)
	})
}

func TestRequireRoleMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole(RoleMasterAdmin, RoleExecAdmin)(next)

	t.Run("allowed role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(requestcontext.WithRole(req.Context(), RoleExecAdmin))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("denied role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(requestcontext.WithRole(req.Context(), RoleCitizen))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Access denied")
	})
}
