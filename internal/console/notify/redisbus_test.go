package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type recorder struct {
	mu       sync.Mutex
	sessions []string
	types    []string
	data     []interface{}
}

func (r *recorder) Publish(sessionID, eventType string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, sessionID)
	r.types = append(r.types, eventType)
	r.data = append(r.data, data)
}

func (r *recorder) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

func TestRedisBridgeHandle(t *testing.T) {
	rec := &recorder{}
	b := NewRedisBridge(nil, rec, zap.NewNop())

	b.handle(`{"sid":"s1","type":"action.changed","data":{"page":"code-scanner","state":"complete"}}`)
	b.handle(`not json`)
	b.handle(`{"type":"notify","data":{}}`)

	require.Len(t, rec.sessions, 1)
	assert.Equal(t, "s1", rec.sessions[0])
	assert.Equal(t, "action.changed", rec.types[0])

	// данные уходят в хаб без повторного кодирования
	raw, err := json.Marshal(rec.data[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":"code-scanner","state":"complete"}`, string(raw))
}

// startDrain запускает отправку очереди; возвращает функцию остановки.
func startDrain(b *RedisBridge) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.drain(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func TestRedisBridgePublishKeepsOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewRedisBridge(nil, &recorder{}, zap.NewNop())

	var mu sync.Mutex
	var sent []busEvent
	b.publish = func(_ context.Context, payload []byte) error {
		var ev busEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return err
		}
		mu.Lock()
		sent = append(sent, ev)
		mu.Unlock()
		return nil
	}

	// Сначала копим очередь, потом запускаем отправку: порядок должен сохраниться
	want := []string{"action.changed", "action.changed", "notify"}
	for i, typ := range want {
		b.Publish("s1", typ, map[string]int{"seq": i})
	}
	stop := startDrain(b)
	defer stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(sent) == len(want)
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i, ev := range sent {
		assert.Equal(t, "s1", ev.SessionID)
		assert.Equal(t, want[i], ev.Type)
		assert.JSONEq(t, fmt.Sprintf(`{"seq":%d}`, i), string(ev.Data))
	}
}

func TestRedisBridgeFallsBackToLocal(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &recorder{}
	b := NewRedisBridge(nil, rec, zap.NewNop())
	b.publish = func(context.Context, []byte) error { return errors.New("redis down") }
	stop := startDrain(b)
	defer stop()

	b.Publish("s1", "action.changed", map[string]string{"state": "in_progress"})
	b.Publish("s1", "action.changed", map[string]string{"state": "complete"})
	b.Publish("s1", "notify", map[string]string{"level": "success"})

	require.Eventually(t, func() bool { return len(rec.eventTypes()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"action.changed", "action.changed", "notify"}, rec.eventTypes())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	raw, err := json.Marshal(rec.data[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"in_progress"}`, string(raw))
}

func TestRedisBridgeQueueFullDeliversLocally(t *testing.T) {
	rec := &recorder{}
	b := NewRedisBridge(nil, rec, zap.NewNop())

	// Отправка не запущена: очередь заполняется, лишнее событие доставляется сразу
	for i := 0; i < publishBuffer; i++ {
		b.Publish("s1", "notify", i)
	}
	assert.Empty(t, rec.eventTypes())

	b.Publish("s1", "notify", publishBuffer)
	assert.Equal(t, []string{"notify"}, rec.eventTypes())
}
