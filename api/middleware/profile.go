package middleware

import (
	"net/http"
	"strings"

	"github.com/tokoluma/luma-backend/api/responses"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/logger"
)

const profileIDHeader = "X-Profile-Id"

const maxProfileIDLen = 128

// ProfileContext requires the cart profile header and seeds the context with
// it. The profile identifies the device-local cart slot; guests and signed-in
// users both carry one.
func ProfileContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profileID := strings.TrimSpace(r.Header.Get(profileIDHeader))
			if profileID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing profile header"))
				return
			}
			if len(profileID) > maxProfileIDLen {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "profile header too long"))
				return
			}

			ctx := WithProfileID(r.Context(), profileID)
			if logg != nil {
				ctx = logg.WithProfileID(ctx, profileID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
