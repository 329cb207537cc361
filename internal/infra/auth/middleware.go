package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

const sessionIDKey ctxKey = "session_id"

// CookieOptions — параметры cookie сессии.
type CookieOptions struct {
	Name   string
	Secure bool
}

// WithSession кладет идентификатор сессии в контекст (используется и в тестах).
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionFromContext достает идентификатор сессии, установленный middleware.
func SessionFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// NewMiddleware гарантирует каждому браузеру сессию: валидная cookie
// переиспользуется, отсутствующая или битая заменяется новой.
func NewMiddleware(issuer *SessionIssuer, opts CookieOptions, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string

			if c, err := r.Cookie(opts.Name); err == nil {
				claims, err := issuer.VerifyToken(c.Value)
				if err != nil {
					logger.Debug("session rejected, issuing new", zap.Error(err))
				} else {
					sessionID = claims.SessionID
				}
			}

			if sessionID == "" {
				sessionID = uuid.New().String()
				token, expiresAt, err := issuer.Issue(sessionID)
				if err != nil {
					logger.Error("failed to issue session", zap.Error(err))
					http.Error(w, "Session error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     opts.Name,
					Value:    token,
					Path:     "/",
					Expires:  expiresAt,
					MaxAge:   int(time.Until(expiresAt).Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sessionID)))
		})
	}
}
