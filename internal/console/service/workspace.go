package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xela07ax/intellibridge-console/internal/domain"
	"github.com/xela07ax/intellibridge-console/internal/fixtures"
	"github.com/xela07ax/intellibridge-console/internal/infra"
)

// Delays — длительности имитируемых операций.
type Delays struct {
	Scan     time.Duration
	Generate time.Duration
}

// Workspace — состояние страниц одной сессии браузера. Страницы не видят
// чужое состояние; все поля защищены mu.
type Workspace struct {
	mu       sync.Mutex
	lastSeen time.Time
	evicted  bool // выселен Sweep: таймеры завершаются без событий

	scanFiles []string
	scan      domain.Action

	module   domain.Selection
	generate domain.Action

	endpoints domain.Selection
	apiGen    domain.Action

	vulnerability domain.Selection
}

type WorkspaceService struct {
	catalog  *fixtures.Catalog
	delays   Delays
	idleTTL  time.Duration
	notifier Notifier
	metrics  *infra.Metrics
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Workspace

	now       func() time.Time
	afterFunc func(d time.Duration, f func())
}

func NewWorkspaceService(catalog *fixtures.Catalog, delays Delays, idleTTL time.Duration, notifier Notifier, metrics *infra.Metrics, logger *zap.Logger) *WorkspaceService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if metrics == nil {
		metrics = infra.NewMetrics(nil)
	}
	return &WorkspaceService{
		catalog:  catalog,
		delays:   delays,
		idleTTL:  idleTTL,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.Named("workspace"),
		sessions: make(map[string]*Workspace),
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// workspace возвращает (и при необходимости создает) workspace сессии.
func (s *WorkspaceService) workspace(sessionID string) *Workspace {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.sessions[sessionID]
	if !ok {
		ws = &Workspace{}
		s.sessions[sessionID] = ws
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
		s.logger.Debug("workspace created", zap.String("session_id", sessionID))
	}
	ws.mu.Lock()
	ws.lastSeen = now
	ws.mu.Unlock()
	return ws
}

// Sessions — число живых workspace.
func (s *WorkspaceService) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep удаляет workspace, к которым не обращались дольше idleTTL.
// Незавершенный таймер удаленного workspace отрабатывает вхолостую: сессия
// уже работает с новым workspace и не должна получить чужое завершение.
func (s *WorkspaceService) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, ws := range s.sessions {
		ws.mu.Lock()
		idle := ws.lastSeen.Before(cutoff)
		if idle {
			ws.evicted = true
		}
		ws.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
		s.logger.Info("idle workspaces evicted", zap.Int("count", evicted), zap.Int("left", len(s.sessions)))
	}
	return evicted
}

// RunSweeper периодически вызывает Sweep до отмены ctx.
func (s *WorkspaceService) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// trigger запускает имитируемую операцию. Вызывается под ws.mu.
// Завершение выполняется ровно один раз: сразу при delay == 0, иначе по таймеру.
func (s *WorkspaceService) trigger(sessionID string, ws *Workspace, page Page, a *domain.Action, delay time.Duration) error {
	startedAt := s.now()
	run, ok := a.Begin(startedAt)
	if !ok {
		s.metrics.Actions.WithLabelValues(string(page), "rejected").Inc()
		return ErrActionInProgress
	}
	s.metrics.Actions.WithLabelValues(string(page), "started").Inc()
	s.notifier.Publish(sessionID, EventActionChanged, ActionEvent{Page: page, State: domain.ActionInProgress})

	s.logger.Info("simulated action started",
		zap.String("session_id", sessionID),
		zap.String("page", string(page)),
		zap.Uint64("run", run),
		zap.Duration("delay", delay),
	)

	if delay <= 0 {
		s.finish(sessionID, ws, page, a, run, startedAt)
		return nil
	}

	s.afterFunc(delay, func() {
		ws.mu.Lock()
		defer ws.mu.Unlock()
		s.finish(sessionID, ws, page, a, run, startedAt)
	})
	return nil
}

// finish вызывается под ws.mu.
func (s *WorkspaceService) finish(sessionID string, ws *Workspace, page Page, a *domain.Action, run uint64, startedAt time.Time) {
	now := s.now()
	if !a.Finish(run, now) {
		return
	}
	if ws.evicted {
		s.logger.Debug("simulated action finished on evicted workspace",
			zap.String("session_id", sessionID), zap.String("page", string(page)))
		return
	}

	s.metrics.Actions.WithLabelValues(string(page), "completed").Inc()
	s.metrics.ActionDuration.WithLabelValues(string(page)).Observe(now.Sub(startedAt).Seconds())

	s.notifier.Publish(sessionID, EventActionChanged, ActionEvent{Page: page, State: domain.ActionComplete})
	s.notifier.Publish(sessionID, EventNotify, Notice{Level: "success", Message: completionMessages[page]})
}

var completionMessages = map[Page]string{
	PageCodeScanner:   "AI analysis complete",
	PageContainerizer: "Container configuration generated",
	PageAPIGenerator:  "API code generated",
}
