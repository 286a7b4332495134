package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/siteadmin-backend/api/responses"
	pkgAuth "github.com/angelmondragon/siteadmin-backend/pkg/auth"
	"github.com/angelmondragon/siteadmin-backend/pkg/auth/session"
	"github.com/angelmondragon/siteadmin-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
)

// Auth validates a bearer token, checks its session is still live and seeds
// the request context with the admin principal.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			principal := claims.Principal()
			ctx := pkgAuth.WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithAdminID(ctx, principal.AdminID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header. A bare
// token without the scheme is accepted.
func BearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
