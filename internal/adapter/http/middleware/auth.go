package middleware

import (
	"context"
	"net/http"

	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/api-sage/core-banking-ledger/internal/logger"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
}

// Principal is the authenticated identity handlers read from the request
// context.
type Principal struct {
	UserID  string
	Email   string
	IsAdmin bool
}

type contextKey struct{}

var principalKey contextKey

// BasicAuth resolves HTTP basic credentials against the user store and
// attaches the resulting Principal to the request context. The rejection
// is identical for unknown users and wrong passwords.
func BasicAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, r, "missing_credentials")
				return
			}

			user, err := auth.Authenticate(r.Context(), email, password)
			if err != nil {
				unauthorized(w, r, "invalid_credentials")
				return
			}

			principal := Principal{
				UserID:  user.ID,
				Email:   user.Email,
				IsAdmin: user.IsAdmin,
			}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects non-admin principals. It assumes BasicAuth runs
// earlier in the chain; an absent principal reads as unauthorized.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFrom(r.Context())
		if !ok {
			unauthorized(w, r, "missing_principal")
			return
		}
		if !principal.IsAdmin {
			logger.Info("auth middleware forbidden request", logger.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"userId": principal.UserID,
			})
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	return principal, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	logger.Info("auth middleware unauthorized request", logger.Fields{
		"method":      r.Method,
		"path":        r.URL.Path,
		"credentials": reason,
	})
	w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
