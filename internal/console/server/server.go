package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xela07ax/intellibridge-console/internal/console/handler"
	"github.com/xela07ax/intellibridge-console/internal/console/nav"
	"github.com/xela07ax/intellibridge-console/internal/console/view"
	"github.com/xela07ax/intellibridge-console/internal/infra"
	"github.com/xela07ax/intellibridge-console/internal/infra/auth"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Подписывает и проверяет cookie сессии браузера (HS256)
	sessions *auth.SessionIssuer
	limiter  *rate.Limiter

	pageHandler   *handler.PageHandler   // HTML разделов
	apiHandler    *handler.APIHandler    // /api/v1
	notifyHandler *handler.NotifyHandler // /ws
}

// NewConsoleServer инициализирует сервер консоли со всеми зависимостями
func NewConsoleServer(
	cfg *infra.Config,
	logger *zap.Logger,
	sessions *auth.SessionIssuer,
	pageH *handler.PageHandler,
	apiH *handler.APIHandler,
	notifyH *handler.NotifyHandler,
) *ConsoleServer {
	limit := rate.Inf
	if cfg.Server.RateLimit > 0 {
		limit = rate.Limit(cfg.Server.RateLimit)
	}

	s := &ConsoleServer{
		router:        chi.NewRouter(),
		logger:        logger.Named("console-http"),
		cfg:           cfg,
		sessions:      sessions,
		limiter:       rate.NewLimiter(limit, cfg.Server.RateBurst),
		pageHandler:   pageH,
		apiHandler:    apiH,
		notifyHandler: notifyH,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TracingMiddleware)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	session := auth.NewMiddleware(s.sessions, auth.CookieOptions{
		Name:   s.cfg.Session.CookieName,
		Secure: s.cfg.Session.Secure,
	}, s.logger)

	// --- 2. Без сессии ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/static/*", http.StripPrefix("/static/", view.StaticHandler()))

	// --- 3. Все остальное работает в рамках сессии браузера ---
	r.Group(func(r chi.Router) {
		r.Use(session)

		r.Get(nav.RootPath, func(w http.ResponseWriter, r *http.Request) {
			route := nav.Resolve(r.URL.Path)
			http.Redirect(w, r, route.Location, http.StatusFound)
		})

		// Только точные пути из навигации, вложенных маршрутов нет
		for _, e := range nav.Entries() {
			r.Get(e.Path, s.pageHandler.Page(e))
		}

		r.Get("/ws", s.notifyHandler.ServeWS)

		r.With(RateLimit(s.limiter, s.logger)).Mount("/api/v1", s.apiHandler.Routes())
	})

	r.NotFound(session(http.HandlerFunc(s.pageHandler.NotFound)).ServeHTTP)
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer собирает http.Server с таймаутами из конфига.
func (s *ConsoleServer) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}
