package middleware

import (
	"log/slog"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/andrewpaige1/lernkarten-api/utils"
)

// AuthCookie carries the token for browser clients that cannot set headers.
const AuthCookie = "auth_token"

// EnsureValidToken rejects requests without a valid bearer token. The token
// is read from the Authorization header or the auth_token cookie.
func EnsureValidToken(v *validator.Validator, log *slog.Logger) func(http.Handler) http.Handler {
	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Debug("rejected token", "path", r.URL.Path, "err", err)
		utils.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Failed to validate JWT.")
	}

	mw := jwtmiddleware.New(
		v.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithTokenExtractor(jwtmiddleware.MultiTokenExtractor(
			jwtmiddleware.AuthHeaderTokenExtractor,
			jwtmiddleware.CookieTokenExtractor(AuthCookie),
		)),
	)

	return func(next http.Handler) http.Handler {
		return mw.CheckJWT(next)
	}
}
