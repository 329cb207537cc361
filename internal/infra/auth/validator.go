package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xela07ax/intellibridge-console/internal/domain"
)

const issuer = "intellibridge-console"

// SessionIssuer подписывает и проверяет токен сессии браузера (HS256).
// В токене лежит только идентификатор workspace, никаких прав.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionIssuer(secret []byte, ttl time.Duration) (*SessionIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	return &SessionIssuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue выпускает токен для sessionID и возвращает время его истечения.
func (s *SessionIssuer) Issue(sessionID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &domain.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken проверяет подпись, issuer и срок действия токена.
func (s *SessionIssuer) VerifyToken(tokenStr string) (*domain.SessionClaims, error) {
	tokenStr = strings.TrimSpace(strings.TrimPrefix(tokenStr, "Bearer "))

	token, err := jwt.ParseWithClaims(tokenStr, &domain.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session: %w", err)
	}

	claims, ok := token.Claims.(*domain.SessionClaims)
	if !ok || claims.SessionID == "" {
		return nil, errors.New("invalid session claims")
	}
	return claims, nil
}
