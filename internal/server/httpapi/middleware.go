package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/prodshot/prodshot/internal/common"
	"github.com/prodshot/prodshot/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// userIDFromContext returns the authenticated user id placed there by
// authMiddleware.
func userIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// authMiddleware extracts the bearer token from the Authorization header,
// verifies it, and stores the user id in the request context. Missing,
// malformed, and expired tokens all get a 401.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			s.writeError(r.Context(), w, common.ErrorUnauthorized)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(r.Context(), w, common.ErrInvalidToken)
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(r.Context(), w, common.ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
