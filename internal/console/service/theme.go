package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xela07ax/intellibridge-console/internal/domain"
	"github.com/xela07ax/intellibridge-console/internal/infra"
)

// PreferenceStore описывает требования сервиса к хранилищу предпочтений
type PreferenceStore interface {
	GetTheme(ctx context.Context, sessionID string) (domain.Theme, bool, error)
	SaveTheme(ctx context.Context, sessionID string, theme domain.Theme) error
}

type ThemeService struct {
	store    PreferenceStore
	notifier Notifier
	metrics  *infra.Metrics
	logger   *zap.Logger
}

func NewThemeService(store PreferenceStore, notifier Notifier, metrics *infra.Metrics, logger *zap.Logger) *ThemeService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if metrics == nil {
		metrics = infra.NewMetrics(nil)
	}
	return &ThemeService{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.Named("theme-service"),
	}
}

// Current возвращает сохраненное предпочтение сессии. Отсутствующее (или нечитаемое)
// значение заменяется на system; osHint — сигнал ОС для system.
func (s *ThemeService) Current(ctx context.Context, sessionID, osHint string) domain.ThemeView {
	pref := domain.DefaultTheme

	th, ok, err := s.store.GetTheme(ctx, sessionID)
	switch {
	case err != nil:
		s.logger.Warn("failed to read theme preference", zap.String("session_id", sessionID), zap.Error(err))
	case ok && th.Valid():
		pref = th
	case ok:
		s.logger.Warn("stored theme is invalid, using default", zap.String("theme", string(th)))
	}

	return domain.ThemeView{Preference: pref, Resolved: pref.Resolve(osHint)}
}

// Set сохраняет выбор и оповещает всех потребителей сессии.
func (s *ThemeService) Set(ctx context.Context, sessionID, raw, osHint string) (domain.ThemeView, error) {
	th, err := domain.ParseTheme(raw)
	if err != nil {
		return domain.ThemeView{}, fmt.Errorf("%w: %q", ErrInvalidTheme, raw)
	}

	if err := s.store.SaveTheme(ctx, sessionID, th); err != nil {
		return domain.ThemeView{}, fmt.Errorf("theme_service: failed to save: %w", err)
	}

	s.metrics.ThemeChanges.WithLabelValues(string(th)).Inc()
	s.notifier.Publish(sessionID, EventThemeChanged, ThemeEvent{Preference: th})

	return domain.ThemeView{Preference: th, Resolved: th.Resolve(osHint)}, nil
}
