package middleware

import (
	"net/http"
	"strings"

	"github.com/meradukaan/meradukaan-backend/api/responses"
	pkgAuth "github.com/meradukaan/meradukaan-backend/pkg/auth"
	"github.com/meradukaan/meradukaan-backend/pkg/config"
	pkgerrors "github.com/meradukaan/meradukaan-backend/pkg/errors"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
)

const bearerScheme = "bearer"

// Auth validates a bearer token and stores the caller as an Actor on the
// request context. Role checks are left to VendorContext.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, parseErr := pkgAuth.ParseAccessToken(cfg, token)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, parseErr, "invalid token"))
				return
			}

			actor := Actor{VendorID: claims.SubjectID.String(), Role: string(claims.Role)}
			ctx := WithActor(r.Context(), actor)
			if logg != nil {
				ctx = logg.WithVendorID(ctx, actor.VendorID)
				ctx = logg.WithField(ctx, "actor_role", actor.Role)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an Authorization header. A bare token
// without a scheme is accepted; any scheme other than Bearer is rejected.
func bearerToken(header string) (string, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	scheme, rest, found := strings.Cut(raw, " ")
	if !found {
		if strings.EqualFold(raw, bearerScheme) {
			return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
		}
		return raw, nil
	}
	if !strings.EqualFold(scheme, bearerScheme) {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "unsupported authorization scheme")
	}
	token := strings.TrimSpace(rest)
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}
