// Package repository собирает хранилище предпочтений консоли по конфигу
// и защищает удаленные драйверы предохранителем.
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/xela07ax/intellibridge-console/internal/domain"
	"github.com/xela07ax/intellibridge-console/internal/infra"
	"github.com/xela07ax/intellibridge-console/internal/repository/memory"
	"github.com/xela07ax/intellibridge-console/internal/repository/postgres"
	"github.com/xela07ax/intellibridge-console/internal/repository/redis"
)

// Store — контракт драйвера предпочтений.
type Store interface {
	GetTheme(ctx context.Context, sessionID string) (domain.Theme, bool, error)
	SaveTheme(ctx context.Context, sessionID string, theme domain.Theme) error
	Ping(ctx context.Context) error
	Close() error
}

// ResilientStore оборачивает удаленный драйвер: вызовы идут через Circuit Breaker,
// а при отказе ответы берутся из локального кэша. Тема не теряется, пока жив процесс.
// Записи, не дошедшие до удаленного драйвера, помечаются dirty: они имеют приоритет
// над удаленным чтением и дозаписываются, когда драйвер снова отвечает.
type ResilientStore struct {
	remote Store
	local  *memory.PreferenceRepo
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger

	mu    sync.Mutex
	dirty map[string]domain.Theme
}

// BreakerSettings — параметры предохранителя, взятые из StorageConfig.
type BreakerSettings struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// OnStateChange вызывается при смене состояния (для метрик)
	OnStateChange func(state gobreaker.State)
}

func NewResilientStore(remote Store, s BreakerSettings, logger *zap.Logger) *ResilientStore {
	logger = logger.Named("preference-store")
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "preference-store",
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()), zap.String("to", to.String()))
			if s.OnStateChange != nil {
				s.OnStateChange(to)
			}
		},
	})

	return &ResilientStore{
		remote: remote,
		local:  memory.NewPreferenceRepo(),
		cb:     cb,
		logger: logger,
		dirty:  make(map[string]domain.Theme),
	}
}

type themeResult struct {
	theme domain.Theme
	found bool
}

func (s *ResilientStore) GetTheme(ctx context.Context, sessionID string) (domain.Theme, bool, error) {
	if th, ok := s.pending(sessionID); ok {
		s.writeBack(ctx, sessionID, th)
		return th, true, nil
	}

	res, err := s.cb.Execute(func() (interface{}, error) {
		th, ok, err := s.remote.GetTheme(ctx, sessionID)
		return themeResult{theme: th, found: ok}, err
	})
	if err != nil {
		s.logger.Warn("remote read failed, serving cached preference", zap.Error(err))
		return s.local.GetTheme(ctx, sessionID)
	}

	r := res.(themeResult)
	if r.found {
		_ = s.local.SaveTheme(ctx, sessionID, r.theme)
	}
	return r.theme, r.found, nil
}

func (s *ResilientStore) SaveTheme(ctx context.Context, sessionID string, theme domain.Theme) error {
	// Сначала L1: даже при отказе удаленного драйвера выбор переживет перезагрузку страницы
	_ = s.local.SaveTheme(ctx, sessionID, theme)
	s.markDirty(sessionID, theme)

	s.writeBack(ctx, sessionID, theme)
	return nil
}

// pending возвращает тему, которая еще не записана в удаленный драйвер.
func (s *ResilientStore) pending(sessionID string) (domain.Theme, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	th, ok := s.dirty[sessionID]
	return th, ok
}

func (s *ResilientStore) markDirty(sessionID string, theme domain.Theme) {
	s.mu.Lock()
	s.dirty[sessionID] = theme
	s.mu.Unlock()
}

// writeBack пишет тему в удаленный драйвер и снимает пометку dirty,
// если за это время сессия не сохранила другое значение.
func (s *ResilientStore) writeBack(ctx context.Context, sessionID string, theme domain.Theme) {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.remote.SaveTheme(ctx, sessionID, theme)
	})
	if err != nil {
		s.logger.Warn("remote write failed, preference kept in memory",
			zap.String("session_id", sessionID), zap.Error(err))
		return
	}

	s.mu.Lock()
	if s.dirty[sessionID] == theme {
		delete(s.dirty, sessionID)
	}
	s.mu.Unlock()
}

// Pending — число тем, ожидающих дозаписи.
func (s *ResilientStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirty)
}

func (s *ResilientStore) State() gobreaker.State { return s.cb.State() }

func (s *ResilientStore) Ping(ctx context.Context) error { return s.remote.Ping(ctx) }

func (s *ResilientStore) Close() error { return s.remote.Close() }

// Open создает драйвер по конфигу. Удаленные драйверы проверяются с повторами
// и оборачиваются в ResilientStore.
func Open(ctx context.Context, cfg infra.StorageConfig, onBreaker func(gobreaker.State), logger *zap.Logger) (Store, error) {
	var remote Store
	switch cfg.Driver {
	case infra.StorageMemory:
		return memory.NewPreferenceRepo(), nil
	case infra.StorageRedis:
		remote = redis.NewPreferenceRepo(goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	case infra.StoragePostgres:
		pg, err := postgres.NewPreferenceRepo(cfg.Postgres.URL, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, err
		}
		remote = pg
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	if err := Connect(ctx, remote, cfg.ConnectTries, logger); err != nil {
		_ = remote.Close()
		return nil, err
	}

	return NewResilientStore(remote, BreakerSettings{
		MaxRequests:   uint32(cfg.CBMaxRequests),
		Interval:      cfg.CBInterval,
		Timeout:       cfg.CBTimeout,
		OnStateChange: onBreaker,
	}, logger), nil
}

// Connect пингует хранилище с экспоненциальным бэкоффом.
func Connect(ctx context.Context, s Store, attempts uint, logger *zap.Logger) error {
	if attempts == 0 {
		attempts = 1
	}
	var n int
	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.DelayType(retry.BackOffDelay),
	)
	err := r.Do(func() error {
		n++
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := s.Ping(pctx); err != nil {
			logger.Warn("storage unreachable", zap.Int("attempt", n), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage unreachable after %d attempts: %w", n, err)
	}
	return nil
}
