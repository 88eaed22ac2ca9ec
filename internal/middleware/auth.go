// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/angelamos/artvia-backend/internal/core"
)

const PrincipalKey contextKey = "principal"

// Principal is the authenticated caller. IsAdmin is the effective admin
// flag: role admin or the legacy isAdmin column.
type Principal struct {
	UserID  string
	Name    string
	Email   string
	Role    string
	IsAdmin bool

	TokenID     string
	TokenExpiry time.Time
}

type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

func Authenticator(authn TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.Unauthorized(w, "")
				return
			}

			principal, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				handleAuthError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches a principal when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(authn TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				principal, err := authn.Authenticate(r.Context(), token)
				if err == nil {
					ctx := context.WithValue(r.Context(), PrincipalKey, principal)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := GetPrincipal(r.Context())
		if principal == nil {
			core.Unauthorized(w, "")
			return
		}

		if !principal.IsAdmin {
			core.Forbidden(w, "Not authorized as admin")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// handleAuthError answers every token failure with one message and code.
// The specific reason only goes to the log.
func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired),
		errors.Is(err, core.ErrTokenRevoked),
		errors.Is(err, core.ErrTokenInvalid),
		errors.Is(err, core.ErrNotFound):
		slog.DebugContext(r.Context(), "token rejected",
			"reason", err.Error(),
			"request_id", GetRequestID(r.Context()),
		)
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.InternalServerError(w, err)
	}
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.UserID
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetPrincipal(ctx) != nil
}

func IsAdmin(ctx context.Context) bool {
	p := GetPrincipal(ctx)
	return p != nil && p.IsAdmin
}
