package service

import "github.com/xela07ax/intellibridge-console/internal/domain"

// Notifier доставляет события всем подключенным клиентам сессии (websocket).
// Реализация не должна блокировать вызывающего.
type Notifier interface {
	Publish(sessionID, eventType string, data interface{})
}

const (
	EventActionChanged = "action.changed"
	EventThemeChanged  = "theme.changed"
	EventNotify        = "notify"
)

// Page — идентификатор страницы с собственным состоянием.
type Page string

const (
	PageDashboard     Page = "dashboard"
	PageCodeScanner   Page = "code-scanner"
	PageContainerizer Page = "containerizer"
	PageAPIGenerator  Page = "api-generator"
	PageMigration     Page = "migration-estimator"
	PageSecurity      Page = "security-analyzer"
	PageReports       Page = "reports"
)

type ActionEvent struct {
	Page  Page               `json:"page"`
	State domain.ActionState `json:"state"`
}

type ThemeEvent struct {
	Preference domain.Theme `json:"preference"`
}

// Notice — универсальное уведомление (toast).
type Notice struct {
	Level   string `json:"level"` // info, success, warning, error
	Message string `json:"message"`
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, string, interface{}) {}
