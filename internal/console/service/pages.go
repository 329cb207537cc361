package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xela07ax/intellibridge-console/internal/domain"
)

// ScannerView — состояние страницы Code Scanner.
type ScannerView struct {
	Files              []string            `json:"files"`
	AcceptedExtensions []string            `json:"accepted_extensions"`
	State              domain.ActionState  `json:"state"`
	Results            *domain.ScanResults `json:"results,omitempty"`
}

func (v ScannerView) InProgress() bool { return v.State == domain.ActionInProgress }
func (v ScannerView) Complete() bool   { return v.State == domain.ActionComplete }

type ModuleItem struct {
	domain.Module
	Selected bool `json:"selected"`
}

type ContainerizerView struct {
	Modules   []ModuleItem       `json:"modules"`
	Selected  string             `json:"selected,omitempty"`
	State     domain.ActionState `json:"state"`
	Files     []domain.Snippet   `json:"files,omitempty"`
	NextSteps []string           `json:"next_steps,omitempty"`
}

func (v ContainerizerView) InProgress() bool { return v.State == domain.ActionInProgress }
func (v ContainerizerView) Complete() bool   { return v.State == domain.ActionComplete }

type EndpointItem struct {
	domain.Endpoint
	Key      string `json:"key"`
	Selected bool   `json:"selected"`
}

type CodeTabView struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Snippets []domain.Snippet `json:"snippets"`
}

type APIGeneratorView struct {
	Endpoints      []EndpointItem     `json:"endpoints"`
	SelectedCount  int                `json:"selected_count"`
	Total          int                `json:"total"`
	DefaultPackage string             `json:"default_package"`
	DefaultVersion string             `json:"default_version"`
	State          domain.ActionState `json:"state"`
	Tabs           []CodeTabView      `json:"tabs,omitempty"`
}

func (v APIGeneratorView) InProgress() bool { return v.State == domain.ActionInProgress }
func (v APIGeneratorView) Complete() bool   { return v.State == domain.ActionComplete }

// SelectionSummary — подпись вида "2 of 5 endpoints selected".
func (v APIGeneratorView) SelectionSummary() string {
	return fmt.Sprintf("%d of %d endpoints selected", v.SelectedCount, v.Total)
}

type VulnerabilityItem struct {
	domain.Vulnerability
	Selected bool `json:"selected"`
}

type SecurityView struct {
	Overview        domain.SecurityOverview  `json:"overview"`
	Vulnerabilities []VulnerabilityItem      `json:"vulnerabilities"`
	Selected        *domain.Vulnerability    `json:"selected,omitempty"`
	Compliance      []domain.ComplianceCheck `json:"compliance"`
	Recommendations []domain.Recommendation  `json:"recommendations"`
}

// --- Code Scanner ---

func (s *WorkspaceService) Scanner(sessionID string) ScannerView {
	ws := s.workspace(sessionID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return s.scannerView(ws)
}

// SetFiles запоминает только имена выбранных файлов; содержимое не читается.
func (s *WorkspaceService) SetFiles(sessionID string, names []string) ScannerView {
	files := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			files = append(files, n)
		}
	}

	ws := s.workspace(sessionID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.scanFiles = files
	return s.scannerView(ws)
}

func (s *WorkspaceService) StartScan(sessionID string) (ScannerView, error) {
	ws := s.workspace(sessionID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if len(ws.scanFiles) == 0 {
		return s.scannerView(ws), fmt.Errorf("%w: no files uploaded", ErrNothingSelected)
	}
	if err := s.trigger(sessionID, ws, PageCodeScanner, &ws.scan, s.delays.Scan); err != nil {
		return s.scannerView(ws), err
	}
	return s.scannerView(ws), nil
}

func (s *WorkspaceService) scannerView(ws *Workspace) ScannerView {
	v := ScannerView{
		Files:              append([]string(nil), ws.scanFiles...),
		AcceptedExtensions: s.catalog.CodeScanner.AcceptedExtensions,
		State:              ws.scan.State,
	}
	if ws.scan.Complete() {
		res := s.catalog.CodeScanner.Results
		v.Results = &res
	}
	return v
}

// --- Containerizer ---

func (s *WorkspaceService) Containerizer(sessionID string) ContainerizerView {
	ws := s.workspace(sessionID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return s.containerizerView(ws)
}

// SelectModule — одиночный выбор модуля.
func (s *WorkspaceService) SelectModule(sessionID, name string) (ContainerizerView, error) {
	if _, ok := s.catalog.Module(name); !ok {
		return ContainerizerView{}, fmt.Errorf("%w: module %q", ErrUnknownItem, name)
	}

	ws := s.workspace(sessionID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.module.Pick(name)
	return s.containerizerView(ws), nil
}

func (s *WorkspaceService) GenerateContainers(sessionID string) (ContainerizerView, error) {
	ws := s.workspace(sessionID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.module.Len() == 0 {
		return s.containerizerView(ws), fmt.Errorf("%w: no module selected", ErrNothingSelected)
	}
	if err := s.trigger(sessionID, ws, PageContainerizer, &ws.generate, s.delays.Generate); err != nil {
		return s.containerizerView(ws), err
	}
	return s.containerizerView(ws), nil
}

func (s *WorkspaceService) containerizerView(ws *Workspace) ContainerizerView {
	selected, _ := ws.module.First()

	v := ContainerizerView{
		Modules:  make([]ModuleItem, 0, len(s.catalog.Containerizer.Modules)),
		Selected: selected,
		State:    ws.generate.State,
	}
	for _, m := range s.catalog.Containerizer.Modules {
		v.Modules = append(v.Modules, ModuleItem{Module: m, Selected: m.Name == selected})
	}
	if ws.generate.Complete() {
		v.Files = s.snippets(s.catalog.Containerizer.Snippets)
		v.NextSteps = s.catalog.Containerizer.NextSteps
	}
	return v
}

// --- API Generator ---

func (s *WorkspaceService) APIGenerator(sessionID string) APIGeneratorView {
	ws := s.workspace(sessionID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return s.apiGeneratorView(ws)
}

// ToggleEndpoint переключает членство маршрута (ключ "METHOD /path") в выборе.
func (s *WorkspaceService) ToggleEndpoint(sessionID, key string) (APIGeneratorView, error) {
	if _, ok := s.catalog.Endpoint(key); !ok {
		return APIGeneratorView{}, fmt.Errorf("%w: endpoint %q", ErrUnknownItem, key)
	}

	ws := s.workspace(sessionID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.endpoints.Toggle(key)
	return s.apiGeneratorView(ws), nil
}

func (s *WorkspaceService) GenerateAPI(sessionID string) (APIGeneratorView, error) {
	ws := s.workspace(sessionID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.endpoints.Len() == 0 {
		return s.apiGeneratorView(ws), fmt.Errorf("%w: no endpoints selected", ErrNothingSelected)
	}
	if err := s.trigger(sessionID, ws, PageAPIGenerator, &ws.apiGen, s.delays.Generate); err != nil {
		return s.apiGeneratorView(ws), err
	}
	return s.apiGeneratorView(ws), nil
}

func (s *WorkspaceService) apiGeneratorView(ws *Workspace) APIGeneratorView {
	cfg := s.catalog.APIGenerator
	v := APIGeneratorView{
		Endpoints:      make([]EndpointItem, 0, len(cfg.Endpoints)),
		SelectedCount:  ws.endpoints.Len(),
		Total:          len(cfg.Endpoints),
		DefaultPackage: cfg.DefaultPackage,
		DefaultVersion: cfg.DefaultVersion,
		State:          ws.apiGen.State,
	}
	for _, e := range cfg.Endpoints {
		v.Endpoints = append(v.Endpoints, EndpointItem{Endpoint: e, Key: e.Key(), Selected: ws.endpoints.Has(e.Key())})
	}
	if ws.apiGen.Complete() {
		for _, tab := range cfg.Tabs {
			v.Tabs = append(v.Tabs, CodeTabView{ID: tab.ID, Title: tab.Title, Snippets: s.snippets(tab.Snippets)})
		}
	}
	return v
}

// --- Security Analyzer ---

func (s *WorkspaceService) Security(sessionID string) SecurityView {
	ws := s.workspace(sessionID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return s.securityView(ws)
}

// SelectVulnerability раскрывает детали и remediation ровно одной находки.
func (s *WorkspaceService) SelectVulnerability(sessionID, id string) (SecurityView, error) {
	if _, ok := s.catalog.Vulnerability(id); !ok {
		return SecurityView{}, fmt.Errorf("%w: vulnerability %q", ErrUnknownItem, id)
	}

	ws := s.workspace(sessionID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.vulnerability.Pick(id)
	return s.securityView(ws), nil
}

func (s *WorkspaceService) securityView(ws *Workspace) SecurityView {
	cfg := s.catalog.SecurityAnalyzer
	selected, _ := ws.vulnerability.First()

	v := SecurityView{
		Overview:        cfg.Overview,
		Vulnerabilities: make([]VulnerabilityItem, 0, len(cfg.Vulnerabilities)),
		Compliance:      cfg.Compliance,
		Recommendations: cfg.Recommendations,
	}
	for _, vuln := range cfg.Vulnerabilities {
		item := VulnerabilityItem{Vulnerability: vuln, Selected: vuln.ID == selected}
		if item.Selected {
			sel := vuln
			v.Selected = &sel
		}
		v.Vulnerabilities = append(v.Vulnerabilities, item)
	}
	return v
}

func (s *WorkspaceService) snippets(ids []string) []domain.Snippet {
	out := make([]domain.Snippet, 0, len(ids))
	for _, id := range ids {
		sn, ok := s.catalog.Snippet(id)
		if !ok {
			// каталог проверяется при загрузке, сюда попасть нельзя
			s.logger.Error("snippet reference is broken", zap.String("snippet", id))
			continue
		}
		out = append(out, sn)
	}
	return out
}
