package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/intellibridge-console/internal/domain"
	"github.com/xela07ax/intellibridge-console/internal/fixtures"
	"github.com/xela07ax/intellibridge-console/internal/repository/memory"
)

type published struct {
	session string
	typ     string
	data    interface{}
}

type spyNotifier struct {
	mu     sync.Mutex
	events []published
}

func (n *spyNotifier) Publish(sessionID, eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, published{session: sessionID, typ: eventType, data: data})
}

func (n *spyNotifier) actions(page Page) []domain.ActionState {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.ActionState
	for _, e := range n.events {
		if ev, ok := e.data.(ActionEvent); ok && ev.Page == page {
			out = append(out, ev.State)
		}
	}
	return out
}

// manualTimers копит отложенные функции и запускает их по команде.
type manualTimers struct {
	mu  sync.Mutex
	fns []func()
}

func (m *manualTimers) after(_ time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fns = append(m.fns, f)
}

func (m *manualTimers) fire() {
	m.mu.Lock()
	fns := m.fns
	m.fns = nil
	m.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

func newTestWorkspace(t *testing.T, delays Delays) (*WorkspaceService, *spyNotifier, *manualTimers) {
	t.Helper()
	spy := &spyNotifier{}
	timers := &manualTimers{}
	svc := NewWorkspaceService(fixtures.MustDefault(), delays, time.Hour, spy, nil, zap.NewNop())
	svc.afterFunc = timers.after
	return svc, spy, timers
}

func TestScanLifecycle(t *testing.T) {
	svc, spy, timers := newTestWorkspace(t, Delays{Scan: 3 * time.Second})

	_, err := svc.StartScan("s1")
	require.ErrorIs(t, err, ErrNothingSelected)

	v := svc.SetFiles("s1", []string{"PAYROLL.cbl", "  ", "util.c"})
	assert.Equal(t, []string{"PAYROLL.cbl", "util.c"}, v.Files)
	assert.Nil(t, v.Results)

	v, err = svc.StartScan("s1")
	require.NoError(t, err)
	assert.True(t, v.InProgress())
	assert.False(t, v.Complete())
	assert.Nil(t, v.Results, "results must stay hidden while scanning")

	_, err = svc.StartScan("s1")
	require.ErrorIs(t, err, ErrActionInProgress)

	timers.fire()

	v = svc.Scanner("s1")
	assert.True(t, v.Complete())
	assert.False(t, v.InProgress())
	require.NotNil(t, v.Results)
	assert.Equal(t, fixtures.MustDefault().CodeScanner.Results, *v.Results)

	assert.Equal(t, []domain.ActionState{domain.ActionInProgress, domain.ActionComplete}, spy.actions(PageCodeScanner))
}

func TestScanResultsIgnoreInput(t *testing.T) {
	svc, _, _ := newTestWorkspace(t, Delays{})

	svc.SetFiles("a", []string{"one.java"})
	svc.SetFiles("b", []string{"x.cbl", "y.cbl", "z.cbl"})
	va, err := svc.StartScan("a")
	require.NoError(t, err)
	vb, err := svc.StartScan("b")
	require.NoError(t, err)

	require.NotNil(t, va.Results)
	require.NotNil(t, vb.Results)
	assert.Equal(t, *va.Results, *vb.Results)
}

func TestActionCompletesExactlyOnce(t *testing.T) {
	spy := &spyNotifier{}
	svc := NewWorkspaceService(fixtures.MustDefault(), Delays{Scan: 10 * time.Millisecond}, time.Hour, spy, nil, zap.NewNop())

	svc.SetFiles("s1", []string{"main.cbl"})
	_, err := svc.StartScan("s1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return svc.Scanner("s1").Complete()
	}, 2*time.Second, 5*time.Millisecond)

	// лишний таймер не должен повторно завершить операцию
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, []domain.ActionState{domain.ActionInProgress, domain.ActionComplete}, spy.actions(PageCodeScanner))
}

func TestRetriggerHidesResultsUntilComplete(t *testing.T) {
	svc, spy, timers := newTestWorkspace(t, Delays{Scan: time.Second})

	svc.SetFiles("s1", []string{"a.cbl"})
	_, err := svc.StartScan("s1")
	require.NoError(t, err)
	timers.fire()
	require.True(t, svc.Scanner("s1").Complete())

	v, err := svc.StartScan("s1")
	require.NoError(t, err)
	assert.True(t, v.InProgress())
	assert.Nil(t, v.Results)

	timers.fire()
	assert.True(t, svc.Scanner("s1").Complete())
	assert.Len(t, spy.actions(PageCodeScanner), 4)
}

func TestContainerizer(t *testing.T) {
	svc, spy, _ := newTestWorkspace(t, Delays{})

	_, err := svc.GenerateContainers("s1")
	require.ErrorIs(t, err, ErrNothingSelected)

	_, err = svc.SelectModule("s1", "no-such-module")
	require.ErrorIs(t, err, ErrUnknownItem)

	modules := fixtures.MustDefault().Containerizer.Modules
	require.GreaterOrEqual(t, len(modules), 2)

	_, err = svc.SelectModule("s1", modules[0].Name)
	require.NoError(t, err)
	v, err := svc.SelectModule("s1", modules[1].Name)
	require.NoError(t, err)
	assert.Equal(t, modules[1].Name, v.Selected)

	selected := 0
	for _, m := range v.Modules {
		if m.Selected {
			selected++
		}
	}
	assert.Equal(t, 1, selected, "single pick")
	assert.Empty(t, v.Files)

	v, err = svc.GenerateContainers("s1")
	require.NoError(t, err)
	assert.True(t, v.Complete(), "zero delay completes synchronously")
	require.Len(t, v.Files, 2)
	assert.Equal(t, "Dockerfile", v.Files[0].Filename)
	assert.NotEmpty(t, v.Files[0].Content)
	assert.NotEmpty(t, v.NextSteps)

	assert.Equal(t, []domain.ActionState{domain.ActionInProgress, domain.ActionComplete}, spy.actions(PageContainerizer))
}

func TestEndpointToggleIsIdempotent(t *testing.T) {
	svc, _, _ := newTestWorkspace(t, Delays{})
	eps := fixtures.MustDefault().APIGenerator.Endpoints
	key := eps[0].Key()

	before := svc.APIGenerator("s1")
	assert.Equal(t, 0, before.SelectedCount)

	v, err := svc.ToggleEndpoint("s1", key)
	require.NoError(t, err)
	assert.Equal(t, 1, v.SelectedCount)
	assert.True(t, v.Endpoints[0].Selected)
	assert.Equal(t, "1 of 5 endpoints selected", v.SelectionSummary())

	v, err = svc.ToggleEndpoint("s1", key)
	require.NoError(t, err)
	assert.Equal(t, before, v)

	_, err = svc.ToggleEndpoint("s1", "GET /nope")
	require.ErrorIs(t, err, ErrUnknownItem)
}

func TestGenerateAPI(t *testing.T) {
	svc, _, _ := newTestWorkspace(t, Delays{})

	_, err := svc.GenerateAPI("s1")
	require.ErrorIs(t, err, ErrNothingSelected)

	eps := fixtures.MustDefault().APIGenerator.Endpoints
	_, err = svc.ToggleEndpoint("s1", eps[0].Key())
	require.NoError(t, err)

	v, err := svc.GenerateAPI("s1")
	require.NoError(t, err)
	require.True(t, v.Complete())
	require.Len(t, v.Tabs, 2)
	assert.Equal(t, "rest", v.Tabs[0].ID)
	assert.Equal(t, "UserController.java", v.Tabs[0].Snippets[0].Filename)
	assert.Len(t, v.Tabs[1].Snippets, 2)
}

func TestSelectVulnerability(t *testing.T) {
	svc, _, _ := newTestWorkspace(t, Delays{})
	vulns := fixtures.MustDefault().SecurityAnalyzer.Vulnerabilities

	v := svc.Security("s1")
	assert.Nil(t, v.Selected)

	v, err := svc.SelectVulnerability("s1", vulns[1].ID)
	require.NoError(t, err)
	require.NotNil(t, v.Selected)
	assert.Equal(t, vulns[1].Remediation, v.Selected.Remediation)

	v, err = svc.SelectVulnerability("s1", vulns[0].ID)
	require.NoError(t, err)
	assert.Equal(t, vulns[0].ID, v.Selected.ID)
	assert.True(t, v.Vulnerabilities[0].Selected)
	assert.False(t, v.Vulnerabilities[1].Selected)

	_, err = svc.SelectVulnerability("s1", "CVE-0000-0000")
	require.ErrorIs(t, err, ErrUnknownItem)
}

func TestPagesAreIsolated(t *testing.T) {
	svc, _, _ := newTestWorkspace(t, Delays{})
	eps := fixtures.MustDefault().APIGenerator.Endpoints

	svc.SetFiles("s1", []string{"a.cbl"})
	_, err := svc.StartScan("s1")
	require.NoError(t, err)
	_, err = svc.ToggleEndpoint("s2", eps[0].Key())
	require.NoError(t, err)

	assert.Equal(t, domain.ActionIdle, svc.Containerizer("s1").State)
	assert.Equal(t, 0, svc.APIGenerator("s1").SelectedCount)
	assert.Empty(t, svc.Scanner("s2").Files)
}

func TestSweepEvictsIdleWorkspaces(t *testing.T) {
	svc, _, _ := newTestWorkspace(t, Delays{})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.Scanner("old")
	now = now.Add(90 * time.Minute)
	svc.Scanner("fresh")
	now = now.Add(31 * time.Minute)

	assert.Equal(t, 1, svc.Sweep())
	assert.Equal(t, 1, svc.Sessions())

	// evicted workspace начинается заново
	assert.Empty(t, svc.Scanner("old").Files)
}

func TestSweepSilencesPendingAction(t *testing.T) {
	svc, spy, timers := newTestWorkspace(t, Delays{Scan: 3 * time.Second})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.SetFiles("s1", []string{"main.cbl"})
	_, err := svc.StartScan("s1")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	require.Equal(t, 1, svc.Sweep())

	// Таймер старого workspace срабатывает после выселения
	timers.fire()

	assert.Equal(t, []domain.ActionState{domain.ActionInProgress}, spy.actions(PageCodeScanner))
	for _, e := range spy.events {
		assert.NotEqual(t, EventNotify, e.typ)
	}

	v := svc.Scanner("s1")
	assert.Equal(t, domain.ActionIdle, v.State)
	assert.Nil(t, v.Results)
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	svc, _, _ := newTestWorkspace(t, Delays{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.RunSweeper(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

type brokenStore struct{}

func (brokenStore) GetTheme(context.Context, string) (domain.Theme, bool, error) {
	return "", false, errors.New("boom")
}

func (brokenStore) SaveTheme(context.Context, string, domain.Theme) error {
	return errors.New("boom")
}

func TestThemeService(t *testing.T) {
	ctx := context.Background()
	spy := &spyNotifier{}
	svc := NewThemeService(memory.NewPreferenceRepo(), spy, nil, zap.NewNop())

	v := svc.Current(ctx, "s1", "")
	assert.Equal(t, domain.ThemeView{Preference: domain.ThemeSystem, Resolved: domain.ThemeLight}, v)
	assert.Equal(t, domain.ThemeDark, svc.Current(ctx, "s1", "dark").Resolved)

	v, err := svc.Set(ctx, "s1", "dark", "light")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeView{Preference: domain.ThemeDark, Resolved: domain.ThemeDark}, v)

	// следующая загрузка видит сохраненный выбор
	assert.Equal(t, domain.ThemeDark, svc.Current(ctx, "s1", "light").Preference)
	assert.Equal(t, domain.ThemeSystem, svc.Current(ctx, "s2", "").Preference)

	_, err = svc.Set(ctx, "s1", "sepia", "")
	require.ErrorIs(t, err, ErrInvalidTheme)
	assert.Equal(t, domain.ThemeDark, svc.Current(ctx, "s1", "").Preference)

	require.Len(t, spy.events, 1)
	assert.Equal(t, EventThemeChanged, spy.events[0].typ)
	assert.Equal(t, ThemeEvent{Preference: domain.ThemeDark}, spy.events[0].data)
}

func TestThemeServiceStoreFailure(t *testing.T) {
	ctx := context.Background()
	svc := NewThemeService(brokenStore{}, nil, nil, zap.NewNop())

	assert.Equal(t, domain.ThemeSystem, svc.Current(ctx, "s1", "").Preference)

	_, err := svc.Set(ctx, "s1", "light", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidTheme)
}

func TestAssistantReply(t *testing.T) {
	svc := NewAssistantService(fixtures.MustDefault().Assistant)

	r := svc.Reply("How do I scan a legacy codebase?")
	assert.Equal(t, "/code-scanner", r.Link)

	r = svc.Reply("What will the migration COST?")
	assert.Equal(t, "/migration-estimator", r.Link)

	r = svc.Reply("Dockerizing my app")
	assert.Equal(t, "/containerizer", r.Link)

	r = svc.Reply("hello there")
	assert.Empty(t, r.Link)
	assert.Equal(t, svc.Greeting(), r)

	assert.Equal(t, svc.Greeting(), svc.Reply("   "))
}

func TestCatalogService(t *testing.T) {
	svc := NewCatalogService(fixtures.MustDefault())

	sn, err := svc.Snippet("docker-compose")
	require.NoError(t, err)
	assert.Equal(t, "docker-compose.yml", sn.Filename)

	_, err = svc.Snippet("missing")
	require.ErrorIs(t, err, ErrUnknownSnippet)

	m := svc.Migration()
	assert.Len(t, m.Effort, len(m.Components))
	assert.Equal(t, "AI User", svc.User().Name)
}
