package middleware

import (
	"context"
	"net/http"
	"strings"

	"store-rating/internal/data/entity"
	"store-rating/pkg/utils"

	"go.uber.org/zap"
)

// SessionRestorer resolves a bearer token to its stored session, or nil
// when the token names no live session.
type SessionRestorer interface {
	Restore(ctx context.Context, token string) (*entity.Session, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. ok is false when the header is missing or malformed.
func BearerToken(r *http.Request) (token string, ok bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(parts[1])
	return token, token != ""
}

// AuthSession rejects requests without a live session and puts the
// session's user, role and token into the request context.
func AuthSession(sessions SessionRestorer, logger *zap.Logger) func(http.Handler) http.Handler {
	return session(sessions, logger, true)
}

// OptionalSession is AuthSession for routes that also serve anonymous
// callers. A request without an Authorization header passes through
// untouched; a bad token is still rejected.
func OptionalSession(sessions SessionRestorer, logger *zap.Logger) func(http.Handler) http.Handler {
	return session(sessions, logger, false)
}

func session(sessions SessionRestorer, logger *zap.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				if required {
					utils.ResponseUnauthorized(w, "Missing authorization token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token, ok := BearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			session, err := sessions.Restore(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetUserContext(r.Context(), session.UserID, string(session.User.Role))
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
