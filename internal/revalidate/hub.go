package revalidate

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channel = "welly:revalidate"

// Event says that rows of Kind changed. ID is empty for list-wide changes.
type Event struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`
}

// Notifier is the post-commit hook every admin write calls after success.
type Notifier interface {
	Notify(ctx context.Context, events ...Event)
}

// Handler reacts to an Event. Handlers run synchronously inside Notify for
// local writes and on the subscriber goroutine for peer writes.
type Handler func(ctx context.Context, ev Event)

type envelope struct {
	Origin string `json:"origin"`
	Event
}

type Hub struct {
	redis    *redis.Client
	origin   string
	log      *zap.Logger
	mu       sync.RWMutex
	handlers []Handler
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewHub(redisClient *redis.Client, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		redis:  redisClient,
		origin: uuid.NewString(),
		log:    log,
	}

	if redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		h.done = make(chan struct{})
		ready := make(chan struct{})
		go h.subscribeRedis(ctx, ready)
		<-ready
	}
	return h
}

// Handle registers fn for every subsequent event.
func (h *Hub) Handle(fn Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, fn)
}

func (h *Hub) Notify(ctx context.Context, events ...Event) {
	for _, ev := range events {
		h.dispatch(ctx, ev)

		if h.redis == nil {
			continue
		}
		payload, err := json.Marshal(envelope{Origin: h.origin, Event: ev})
		if err != nil {
			continue
		}
		if err := h.redis.Publish(ctx, channel, payload).Err(); err != nil {
			h.log.Warn("revalidate publish failed", zap.String("kind", ev.Kind), zap.String("id", ev.ID), zap.Error(err))
		}
	}
}

// Close stops the redis subscriber.
func (h *Hub) Close() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	<-h.done
}

func (h *Hub) dispatch(ctx context.Context, ev Event) {
	h.mu.RLock()
	handlers := append([]Handler(nil), h.handlers...)
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, ev)
	}
}

func (h *Hub) subscribeRedis(ctx context.Context, ready chan<- struct{}) {
	defer close(h.done)

	pubsub := h.redis.Subscribe(ctx, channel)
	defer pubsub.Close()
	// Receive the subscription confirmation so peers' messages are not lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.Warn("revalidate subscribe failed", zap.Error(err))
	}
	ch := pubsub.Channel()
	close(ready)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				continue
			}
			if env.Origin == h.origin {
				continue
			}
			h.dispatch(ctx, env.Event)
		}
	}
}
