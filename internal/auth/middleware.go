package auth

import (
	"errors"
	"net/http"
	"strings"

	dErrors "pragati/pkg/domain-errors"
	"pragati/pkg/platform/httputil"
	"pragati/pkg/requestcontext"
)

// Role names, ordered from widest to narrowest authority.
const (
	RoleMasterAdmin = "L1_MASTER_ADMIN"
	RoleExecAdmin   = "L2_EXEC_ADMIN"
	RoleCitizen     = "L3_CITIZEN"
)

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's identity and role on the context.
func RequireAuth(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "No token provided. Authorization required."))
				return
			}

			claims, err := issuer.Verify(raw)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Token expired. Please login again."))
					return
				}
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid token. Authorization failed."))
				return
			}

			ctx := requestcontext.WithUserID(r.Context(), claims.UserID)
			ctx = requestcontext.WithRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated callers whose role is not in the allow
// list. It must sit behind RequireAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed[requestcontext.Role(r.Context())] {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "Access denied. Insufficient permissions."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}
