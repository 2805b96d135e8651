package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"playfolio/internal/session"
)

type SessionReader interface {
	FromRequest(r *http.Request) (*session.User, error)
	ClearCookie(w http.ResponseWriter)
}

type AuthMiddleware struct {
	sessions SessionReader
	log      *slog.Logger
}

func NewAuthMiddleware(sessions SessionReader, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, log: log}
}

type contextKey string

const SessionUserKey = contextKey("sessionUser")

func SessionUserFromContext(ctx context.Context) (*session.User, bool) {
	u, ok := ctx.Value(SessionUserKey).(*session.User)
	return u, ok && u != nil
}

func WithSessionUser(ctx context.Context, u *session.User) context.Context {
	return context.WithValue(ctx, SessionUserKey, u)
}

// LoadSession attaches the signed-in user, if any, to the request context.
// A cookie that no longer verifies is cleared and the request continues
// unauthenticated.
func (m *AuthMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.sessions.FromRequest(r)
		switch {
		case err == nil:
			r = r.WithContext(WithSessionUser(r.Context(), user))
		case errors.Is(err, session.ErrNoSession):
		default:
			m.log.Debug("dropping session cookie", slog.String("error", err.Error()))
			m.sessions.ClearCookie(w)
		}

		next.ServeHTTP(w, r)
	})
}
