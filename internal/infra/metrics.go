package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Traffic: просмотры разделов консоли
	PageViews *prometheus.CounterVec

	// Имитируемые операции по странице и исходу (started, completed, rejected)
	Actions *prometheus.CounterVec

	// Latency: фактическая длительность имитации
	ActionDuration *prometheus.HistogramVec

	// Saturation: живые workspace и websocket клиенты
	ActiveSessions prometheus.Gauge
	WSClients      prometheus.Gauge

	ThemeChanges *prometheus.CounterVec

	// Состояние Circuit Breaker хранилища предпочтений (0 - closed, 1 - half-open, 2 - open)
	StoreBreakerState prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		PageViews: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_page_views_total",
			Help: "Total number of rendered console pages.",
		}, []string{"page"}),

		Actions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_actions_total",
			Help: "Simulated page actions by outcome.",
		}, []string{"page", "outcome"}),

		ActionDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_action_duration_seconds",
			Help:    "Duration of simulated page actions.",
			Buckets: []float64{.001, .01, .1, .5, 1, 2, 3, 5, 10},
		}, []string{"page"}),

		ActiveSessions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "console_active_sessions",
			Help: "Number of live browser workspaces.",
		}),

		WSClients: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "console_ws_clients",
			Help: "Number of connected notification websockets.",
		}),

		ThemeChanges: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_theme_changes_total",
			Help: "Theme preference changes by selected theme.",
		}, []string{"theme"}),

		StoreBreakerState: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "console_store_circuit_breaker_state",
			Help: "Preference store circuit breaker state (0=closed, 1=half-open, 2=open).",
		}),
	}
}
