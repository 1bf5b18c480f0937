package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/instant-voices/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateSessionToken(token string) (string, error)
}

// Auth attaches the guest session carried by a Bearer token to the request
// context. Requests without a token pass through anonymously; a token that
// fails validation is rejected.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			sessionID, err := validator.ValidateSessionToken(token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				writeJSONError(w, http.StatusUnauthorized, "invalid session token")
				return
			}
			ctx := ctxutil.WithSessionID(r.Context(), sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
