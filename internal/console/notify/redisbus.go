package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/intellibridge-console/internal/infra"
)

// Publisher — локальная доставка событий (Hub).
type Publisher interface {
	Publish(sessionID, eventType string, data interface{})
}

// publishBuffer — очередь исходящих событий. Переполнение уводит события в локальную доставку.
const publishBuffer = 256

type busEvent struct {
	SessionID string          `json:"sid"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
}

// RedisBridge разносит события между инстансами консоли через Redis Pub/Sub:
// вкладки одной сессии могут быть подключены к разным инстансам.
// Исходящие события уходят в Redis из одной горутины в порядке вызова Publish.
type RedisBridge struct {
	rdb     *redis.Client
	local   Publisher
	channel string
	logger  *zap.Logger

	out     chan outgoing
	publish func(ctx context.Context, payload []byte) error
}

type outgoing struct {
	sessionID string
	eventType string
	raw       json.RawMessage
	payload   []byte
}

func NewRedisBridge(rdb *redis.Client, local Publisher, logger *zap.Logger) *RedisBridge {
	b := &RedisBridge{
		rdb:     rdb,
		local:   local,
		channel: infra.RedisChannelEvents,
		logger:  logger.Named("notify-bridge"),
		out:     make(chan outgoing, publishBuffer),
	}
	b.publish = func(ctx context.Context, payload []byte) error {
		return b.rdb.Publish(ctx, b.channel, payload).Err()
	}
	return b
}

// Publish ставит событие в очередь на отправку. Если Redis недоступен, доставляем хотя бы локально.
func (b *RedisBridge) Publish(sessionID, eventType string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		b.logger.Error("failed to marshal event", zap.String("type", eventType), zap.Error(err))
		return
	}
	payload, _ := json.Marshal(busEvent{SessionID: sessionID, Type: eventType, Data: raw})

	// Publish вызывается под блокировкой workspace, поэтому не ждем Redis
	ev := outgoing{sessionID: sessionID, eventType: eventType, raw: raw, payload: payload}
	select {
	case b.out <- ev:
	default:
		b.logger.Warn("publish queue is full, delivering locally", zap.String("type", eventType))
		b.local.Publish(sessionID, eventType, ev.raw)
	}
}

// Run отправляет очередь в канал и передает входящие события локальному хабу до отмены ctx.
func (b *RedisBridge) Run(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		b.drain(ctx)
	}()
	defer func() { <-drained }()

	pubsub := b.rdb.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	b.logger.Info("event bridge started", zap.String("channel", b.channel))

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				b.logger.Info("event channel closed")
				return nil
			}
			b.handle(msg.Payload)

		case <-ctx.Done():
			b.logger.Info("event bridge stopping by context...")
			return nil
		}
	}
}

func (b *RedisBridge) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-b.out:
			b.send(ctx, ev)
		}
	}
}

func (b *RedisBridge) send(ctx context.Context, ev outgoing) {
	if err := b.publish(ctx, ev.payload); err != nil {
		b.logger.Warn("redis publish failed, delivering locally", zap.Error(err))
		b.local.Publish(ev.sessionID, ev.eventType, ev.raw)
	}
}

func (b *RedisBridge) handle(payload string) {
	var ev busEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil || ev.SessionID == "" || ev.Type == "" {
		b.logger.Warn("malformed event skipped", zap.String("payload", payload))
		return
	}
	b.local.Publish(ev.SessionID, ev.Type, ev.Data)
}
