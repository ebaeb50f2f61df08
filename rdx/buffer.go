package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/surafelx/portfolio26/models"
)

const pendingViewsKey = "views:pending"

// ViewBuffer queues view events in a Redis list until a flusher moves them
// to the event store.
type ViewBuffer struct {
	client *redis.Client
}

func NewViewBuffer(client *redis.Client) *ViewBuffer {
	if client == nil {
		return nil
	}
	return &ViewBuffer{client: client}
}

func (b *ViewBuffer) Push(ctx context.Context, ev models.ViewEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	return b.client.RPush(ctx, pendingViewsKey, raw).Err()
}

// Drain pops up to max queued events, oldest first. Entries that cannot be
// decoded are dropped and counted in skipped.
func (b *ViewBuffer) Drain(ctx context.Context, max int) (events []models.ViewEvent, skipped int, err error) {
	raws, err := b.client.LPopCount(ctx, pendingViewsKey, max).Result()
	if errors.Is(err, redis.Nil) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("pop views: %w", err)
	}
	for _, raw := range raws {
		var ev models.ViewEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			skipped++
			continue
		}
		events = append(events, ev)
	}
	return events, skipped, nil
}

// Requeue puts events back at the head of the list after a failed flush.
func (b *ViewBuffer) Requeue(ctx context.Context, events []models.ViewEvent) error {
	if len(events) == 0 {
		return nil
	}
	vals := make([]interface{}, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		raw, err := json.Marshal(events[i])
		if err != nil {
			continue
		}
		vals = append(vals, raw)
	}
	return b.client.LPush(ctx, pendingViewsKey, vals...).Err()
}
