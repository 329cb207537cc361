package memory

import (
	"context"
	"sync"

	"github.com/xela07ax/intellibridge-console/internal/domain"
)

// PreferenceRepo — хранилище по умолчанию и L1-кэш для удаленных драйверов.
type PreferenceRepo struct {
	mu     sync.RWMutex
	themes map[string]domain.Theme
}

func NewPreferenceRepo() *PreferenceRepo {
	return &PreferenceRepo{themes: make(map[string]domain.Theme)}
}

func (r *PreferenceRepo) Ping(context.Context) error { return nil }

func (r *PreferenceRepo) GetTheme(_ context.Context, sessionID string) (domain.Theme, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[sessionID]
	return t, ok, nil
}

func (r *PreferenceRepo) SaveTheme(_ context.Context, sessionID string, theme domain.Theme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[sessionID] = theme
	return nil
}

func (r *PreferenceRepo) Close() error { return nil }
