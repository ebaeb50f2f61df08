// Package mq fans out content and analytics events. With Redis every
// instance receives every event over pub/sub; without it events are handed
// to the local subscribers directly.
package mq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/surafelx/portfolio26/logx"
)

const channel = "portfolio-events"

// Event describes something that changed.
type Event struct {
	Type   string    `json:"type"`
	Action string    `json:"action"`
	ID     string    `json:"id,omitempty"`
	At     time.Time `json:"at"`
}

type Handler func(ctx context.Context, ev Event)

type Bus struct {
	rdb *redis.Client
	log *logx.Logger

	mu       sync.RWMutex
	handlers []Handler
}

// NewBus publishes through rdb when it is non-nil.
func NewBus(rdb *redis.Client, log *logx.Logger) *Bus {
	return &Bus{rdb: rdb, log: logx.OrNop(log)}
}

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
}

// Emit never blocks on delivery and never fails the caller.
func (b *Bus) Emit(ctx context.Context, ev Event) {
	if b == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if b.rdb == nil {
		b.dispatch(context.WithoutCancel(ctx), ev)
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		b.log.Warn("[Emit] marshal failed", "event", ev, "error", err)
		return
	}
	if err := b.rdb.Publish(ctx, channel, data).Err(); err != nil {
		b.log.Warn("[Emit] publish failed, delivering locally", "event", ev, "error", err)
		b.dispatch(context.WithoutCancel(ctx), ev)
	}
}

func (b *Bus) dispatch(ctx context.Context, ev Event) {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()
	for _, h := range hs {
		h(ctx, ev)
	}
}

// Run relays published events to the local subscribers until ctx ends.
// Without Redis it only waits for ctx.
func (b *Bus) Run(ctx context.Context) {
	if b.rdb == nil {
		<-ctx.Done()
		return
	}
	sub := b.rdb.Subscribe(ctx, channel)
	defer sub.Close()
	ch := sub.Channel()

	b.log.Info("[EventWorker] listening", "channel", channel)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn("[EventWorker] bad payload", "error", err)
				continue
			}
			b.dispatch(ctx, ev)
		}
	}
}
