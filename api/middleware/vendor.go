package middleware

import (
	"net/http"

	"github.com/meradukaan/meradukaan-backend/api/responses"
	pkgAuth "github.com/meradukaan/meradukaan-backend/pkg/auth"
	pkgerrors "github.com/meradukaan/meradukaan-backend/pkg/errors"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
)

// VendorContext rejects callers whose token is not a vendor token.
func VendorContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if VendorIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor context missing"))
				return
			}
			if RoleFromContext(r.Context()) != string(pkgAuth.RoleVendor) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "vendor access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
