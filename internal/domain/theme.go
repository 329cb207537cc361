package domain

import "fmt"

// Theme — предпочтение цветовой схемы пользователя.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// DefaultTheme используется, когда сохраненного предпочтения нет.
const DefaultTheme = ThemeSystem

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// ParseTheme разбирает строку предпочтения.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown theme %q", s)
	}
	return t, nil
}

// Resolve вычисляет фактическую схему (light/dark). Для system используется
// сигнал ОС (osHint), по умолчанию — light.
func (t Theme) Resolve(osHint string) Theme {
	switch t {
	case ThemeLight, ThemeDark:
		return t
	}
	if osHint == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

// ThemeView — то, что получают потребители темы.
type ThemeView struct {
	Preference Theme `json:"preference"`
	Resolved   Theme `json:"resolved"`
}
