// Package notify доставляет события консоли в браузер по websocket.
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/xela07ax/intellibridge-console/internal/infra"
)

const (
	sendBuffer = 32
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

type envelope struct {
	sessionID string
	payload   []byte
}

// Client — одно websocket-соединение. У сессии может быть несколько вкладок.
type Client struct {
	hub       *Hub
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

// Hub раздает сообщения всем соединениям сессии.
// Состояние клиентов принадлежит горутине Run.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	metrics *infra.Metrics
	logger  *zap.Logger
}

func NewHub(metrics *infra.Metrics, logger *zap.Logger) *Hub {
	if metrics == nil {
		metrics = infra.NewMetrics(nil)
	}
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		metrics:    metrics,
		logger:     logger.Named("notify-hub"),
	}
}

// Run обслуживает регистрацию и рассылку до отмены ctx, затем закрывает все соединения.
func (h *Hub) Run(ctx context.Context) error {
	defer func() {
		close(h.done)
		for _, set := range h.clients {
			for c := range set {
				close(c.send)
			}
		}
		h.clients = nil
		h.metrics.WSClients.Set(0)
	}()

	total := 0
	for {
		select {
		case <-ctx.Done():
			return nil

		case c := <-h.register:
			set, ok := h.clients[c.sessionID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[c.sessionID] = set
			}
			set[c] = struct{}{}
			total++
			h.metrics.WSClients.Set(float64(total))
			h.logger.Debug("client connected", zap.String("session_id", c.sessionID))

		case c := <-h.unregister:
			if h.drop(c) {
				total--
				h.metrics.WSClients.Set(float64(total))
				h.logger.Debug("client disconnected", zap.String("session_id", c.sessionID))
			}

		case msg := <-h.broadcast:
			for c := range h.clients[msg.sessionID] {
				select {
				case c.send <- msg.payload:
				default:
					// медленный клиент: отключаем
					h.logger.Warn("client send buffer is full, closing", zap.String("session_id", c.sessionID))
					h.drop(c)
					total--
					h.metrics.WSClients.Set(float64(total))
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) bool {
	set, ok := h.clients[c.sessionID]
	if !ok {
		return false
	}
	if _, ok := set[c]; !ok {
		return false
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.sessionID)
	}
	return true
}

// Publish ставит сообщение в очередь и никогда не блокирует вызывающего.
// При переполненной очереди сообщение теряется: клиент все равно перечитает
// состояние при следующей загрузке страницы.
func (h *Hub) Publish(sessionID, eventType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: eventType, Data: data, Timestamp: time.Now().Unix()})
	if err != nil {
		h.logger.Error("failed to marshal message", zap.String("type", eventType), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- envelope{sessionID: sessionID, payload: payload}:
	case <-h.done:
	default:
		h.logger.Warn("broadcast queue is full, message dropped", zap.String("type", eventType))
	}
}

// ServeWS поднимает соединение для уже аутентифицированной сессии.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &Client{
		hub:       h,
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		// входящих сообщений нет, читаем только чтобы заметить закрытие
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("read error", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	// канал закрыт хабом
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}
