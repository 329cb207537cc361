package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims — содержимое подписанной cookie сессии браузера.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// User — фикстурная учетная запись из меню пользователя в шапке.
type User struct {
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Initials string `json:"initials" yaml:"initials"`
}
