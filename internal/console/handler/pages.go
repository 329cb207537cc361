package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xela07ax/intellibridge-console/internal/console/nav"
	"github.com/xela07ax/intellibridge-console/internal/console/service"
	"github.com/xela07ax/intellibridge-console/internal/console/view"
	"github.com/xela07ax/intellibridge-console/internal/infra"
	"github.com/xela07ax/intellibridge-console/internal/infra/auth"
)

// SidebarCookie хранит свернутость панели навигации.
const SidebarCookie = "sidebar_state"

// PageHandler рисует HTML-страницы консоли.
type PageHandler struct {
	renderer  *view.Renderer
	theme     *service.ThemeService
	workspace *service.WorkspaceService
	catalog   *service.CatalogService
	assistant *service.AssistantService
	metrics   *infra.Metrics
	logger    *zap.Logger
}

func NewPageHandler(
	renderer *view.Renderer,
	theme *service.ThemeService,
	workspace *service.WorkspaceService,
	catalog *service.CatalogService,
	assistant *service.AssistantService,
	metrics *infra.Metrics,
	logger *zap.Logger,
) *PageHandler {
	return &PageHandler{
		renderer:  renderer,
		theme:     theme,
		workspace: workspace,
		catalog:   catalog,
		assistant: assistant,
		metrics:   metrics,
		logger:    logger.Named("pages"),
	}
}

// Page возвращает обработчик раздела навигации.
func (h *PageHandler) Page(entry nav.Entry) http.HandlerFunc {
	name := strings.TrimPrefix(entry.Path, "/")

	return func(w http.ResponseWriter, r *http.Request) {
		sid, _ := auth.SessionFromContext(r.Context())
		askColorSchemeHint(w)

		shell := view.Shell{
			Title:     entry.Label,
			Subtitle:  entry.Subtitle,
			Path:      entry.Path,
			Nav:       nav.Items(entry.Path),
			Collapsed: sidebarState(r).Collapsed(),
			Theme:     h.theme.Current(r.Context(), sid, osHint(r)),
			User:      h.catalog.User(),
			Assistant: h.assistant.Greeting(),
		}

		p := view.Page{Shell: shell, Content: h.content(service.Page(name), sid)}
		if err := h.renderer.Render(w, http.StatusOK, name, p); err != nil {
			h.logger.Error("failed to render page", zap.String("page", name), zap.Error(err))
			return
		}
		h.metrics.PageViews.WithLabelValues(name).Inc()
	}
}

func (h *PageHandler) content(page service.Page, sid string) interface{} {
	switch page {
	case service.PageDashboard:
		return h.catalog.Dashboard()
	case service.PageCodeScanner:
		return h.workspace.Scanner(sid)
	case service.PageContainerizer:
		return h.workspace.Containerizer(sid)
	case service.PageAPIGenerator:
		return h.workspace.APIGenerator(sid)
	case service.PageMigration:
		return h.catalog.Migration()
	case service.PageSecurity:
		return h.workspace.Security(sid)
	case service.PageReports:
		return h.catalog.Reports()
	}
	return nil
}

// NotFound рисует 404 без каркаса.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	sid, _ := auth.SessionFromContext(r.Context())
	theme := h.theme.Current(r.Context(), sid, osHint(r))

	if err := h.renderer.RenderNotFound(w, theme, r.URL.Path); err != nil {
		h.logger.Error("failed to render not-found", zap.Error(err))
		return
	}
	h.metrics.PageViews.WithLabelValues("not_found").Inc()
}

func sidebarState(r *http.Request) nav.SidebarState {
	c, err := r.Cookie(SidebarCookie)
	if err != nil {
		return nav.SidebarExpanded
	}
	return nav.ParseSidebarState(c.Value)
}

// askColorSchemeHint просит браузер присылать предпочтение ОС.
func askColorSchemeHint(w http.ResponseWriter) {
	w.Header().Set("Accept-CH", "Sec-CH-Prefers-Color-Scheme")
	w.Header().Set("Critical-CH", "Sec-CH-Prefers-Color-Scheme")
	w.Header().Add("Vary", "Sec-CH-Prefers-Color-Scheme")
}
