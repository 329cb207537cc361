package handler

import (
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xela07ax/intellibridge-console/internal/console/nav"
	"github.com/xela07ax/intellibridge-console/internal/console/service"
	"github.com/xela07ax/intellibridge-console/internal/domain"
)

// APIHandler — JSON API консоли (/api/v1). Все изменения состояния идут через него.
type APIHandler struct {
	theme     *service.ThemeService
	workspace *service.WorkspaceService
	catalog   *service.CatalogService
	assistant *service.AssistantService
	logger    *zap.Logger
}

func NewAPIHandler(
	theme *service.ThemeService,
	workspace *service.WorkspaceService,
	catalog *service.CatalogService,
	assistant *service.AssistantService,
	logger *zap.Logger,
) *APIHandler {
	return &APIHandler{
		theme:     theme,
		workspace: workspace,
		catalog:   catalog,
		assistant: assistant,
		logger:    logger.Named("api"),
	}
}

// Routes Маршруты для Chi
func (h *APIHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	r.Get("/nav", h.Nav)
	r.Get("/user", h.User)
	r.Get("/theme", h.GetTheme)
	r.Put("/theme", h.SetTheme)
	r.Put("/shell/sidebar", h.SetSidebar)

	r.Get("/dashboard", h.Dashboard)

	r.Route("/code-scanner", func(r chi.Router) {
		r.Get("/", h.Scanner)
		r.Put("/files", h.SetScanFiles)
		r.Post("/scan", h.StartScan)
	})

	r.Route("/containerizer", func(r chi.Router) {
		r.Get("/", h.Containerizer)
		r.Post("/modules/{name}/select", h.SelectModule)
		r.Post("/generate", h.GenerateContainers)
	})

	r.Route("/api-generator", func(r chi.Router) {
		r.Get("/", h.APIGenerator)
		r.Post("/endpoints/toggle", h.ToggleEndpoint)
		r.Post("/generate", h.GenerateAPI)
	})

	r.Get("/migration-estimator", h.Migration)

	r.Route("/security-analyzer", func(r chi.Router) {
		r.Get("/", h.Security)
		r.Post("/vulnerabilities/{id}/select", h.SelectVulnerability)
	})

	r.Get("/reports", h.Reports)
	r.Get("/snippets/{id}", h.Snippet)
	r.Post("/assistant/messages", h.AssistantMessage)

	return r
}

// --- Shell ---

func (h *APIHandler) Nav(w http.ResponseWriter, r *http.Request) {
	current := r.URL.Query().Get("path")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":   nav.Items(current),
		"sidebar": sidebarState(r),
	})
}

func (h *APIHandler) User(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.User())
}

func (h *APIHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.theme.Current(r.Context(), sid, osHint(r)))
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (h *APIHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req themeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.theme.Set(r.Context(), sid, req.Theme, osHint(r))
	if err != nil {
		h.fail(w, "set theme", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type sidebarRequest struct {
	State string `json:"state"`
}

func (h *APIHandler) SetSidebar(w http.ResponseWriter, r *http.Request) {
	var req sidebarRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state := nav.ParseSidebarState(req.State)
	http.SetCookie(w, &http.Cookie{
		Name:     SidebarCookie,
		Value:    string(state),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]nav.SidebarState{"state": state})
}

// --- Static pages ---

func (h *APIHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Dashboard())
}

func (h *APIHandler) Migration(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Migration())
}

func (h *APIHandler) Reports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Reports())
}

// --- Code Scanner ---

func (h *APIHandler) Scanner(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.workspace.Scanner(sid))
}

type filesRequest struct {
	Files []string `json:"files"`
}

func (h *APIHandler) SetScanFiles(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req filesRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, h.workspace.SetFiles(sid, req.Files))
}

func (h *APIHandler) StartScan(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.workspace.StartScan(sid)
	if err != nil {
		h.fail(w, "start scan", err)
		return
	}
	writeJSON(w, actionStatus(view.State), view)
}

// --- Containerizer ---

func (h *APIHandler) Containerizer(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.workspace.Containerizer(sid))
}

func (h *APIHandler) SelectModule(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.workspace.SelectModule(sid, chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, "select module", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *APIHandler) GenerateContainers(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.workspace.GenerateContainers(sid)
	if err != nil {
		h.fail(w, "generate containers", err)
		return
	}
	writeJSON(w, actionStatus(view.State), view)
}

// --- API Generator ---

func (h *APIHandler) APIGenerator(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.workspace.APIGenerator(sid))
}

type toggleRequest struct {
	Key string `json:"key"` // "GET /api/users"
}

func (h *APIHandler) ToggleEndpoint(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req toggleRequest
	if err := decode(r, &req); err != nil || req.Key == "" {
		writeError(w, http.StatusBadRequest, "endpoint key is required")
		return
	}

	view, err := h.workspace.ToggleEndpoint(sid, req.Key)
	if err != nil {
		h.fail(w, "toggle endpoint", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *APIHandler) GenerateAPI(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.workspace.GenerateAPI(sid)
	if err != nil {
		h.fail(w, "generate api", err)
		return
	}
	writeJSON(w, actionStatus(view.State), view)
}

// --- Security Analyzer ---

func (h *APIHandler) Security(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.workspace.Security(sid))
}

func (h *APIHandler) SelectVulnerability(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.workspace.SelectVulnerability(sid, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "select vulnerability", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// --- Snippets & assistant ---

// Snippet отдает текст для копирования; с ?download=1 — как файл.
func (h *APIHandler) Snippet(w http.ResponseWriter, r *http.Request) {
	sn, err := h.catalog.Snippet(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "snippet", err)
		return
	}

	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": sn.Filename}))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(sn.Content))
		return
	}
	writeJSON(w, http.StatusOK, sn)
}

type assistantRequest struct {
	Message string `json:"message"`
}

func (h *APIHandler) AssistantMessage(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, h.assistant.Reply(strings.TrimSpace(req.Message)))
}

// fail логирует только неожиданные ошибки; доменные отдаются клиенту как есть.
func (h *APIHandler) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("op", op), zap.Error(err))
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// actionStatus: 202 пока операция идет, 200 если уже завершена
func actionStatus(s domain.ActionState) int {
	if s == domain.ActionInProgress {
		return http.StatusAccepted
	}
	return http.StatusOK
}
