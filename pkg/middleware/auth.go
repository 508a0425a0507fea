package middleware

import (
	"context"
	"net/http"
	"strings"

	"autobooking/pkg/auth"
	apperrors "autobooking/pkg/errors"
	httputil "autobooking/pkg/http"

	"github.com/julienschmidt/httprouter"
)

const (
	UserIDKey  contextKey = "user_id"
	IsAdminKey contextKey = "is_admin"
)

// RequireAuth wraps a route with bearer-token verification and puts the
// authenticated user ID (and admin flag) on the request context.
func RequireAuth(issuer *auth.TokenIssuer, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := extractClaims(issuer, r)
		if err != nil {
			_ = httputil.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
		ctx = context.WithValue(ctx, IsAdminKey, claims.IsAdmin)
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireAdmin additionally rejects non-admin tokens.
func RequireAdmin(issuer *auth.TokenIssuer, next httprouter.Handle) httprouter.Handle {
	return RequireAuth(issuer, func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !IsAdmin(r.Context()) {
			_ = httputil.WriteError(w, apperrors.Forbidden("Administrator access required"))
			return
		}
		next(w, r, ps)
	})
}

func extractClaims(issuer *auth.TokenIssuer, r *http.Request) (*auth.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, apperrors.Unauthorized("Missing Authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.Unauthorized("Authorization header must be a bearer token")
	}

	claims, err := issuer.Verify(parts[1])
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}

// UserID returns the authenticated user ID from the context, if present.
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(UserIDKey).(string); ok {
		return v
	}
	return ""
}

func IsAdmin(ctx context.Context) bool {
	if v, ok := ctx.Value(IsAdminKey).(bool); ok {
		return v
	}
	return false
}
