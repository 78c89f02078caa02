package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const ctxUserID ctxKey = iota

// AuthMiddleware rejects requests without a valid Bearer token and stores
// the authenticated user id in the request context.
func (s *Service) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or malformed authorization header"})
			return
		}

		userID, err := s.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

// UserIDFromContext returns the authenticated user id, or "" outside an
// authenticated request.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(ctxUserID).(string)
	return userID
}
