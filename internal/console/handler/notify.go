package handler

import (
	"net/http"

	"github.com/xela07ax/intellibridge-console/internal/console/notify"
)

type NotifyHandler struct {
	hub *notify.Hub
}

func NewNotifyHandler(hub *notify.Hub) *NotifyHandler {
	return &NotifyHandler{hub: hub}
}

// ServeWS подключает вкладку браузера к событиям ее сессии.
func (h *NotifyHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	h.hub.ServeWS(w, r, sid)
}
