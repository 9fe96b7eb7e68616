package chathub

import (
	"context"
	"encoding/json"

	"strife/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// EventSource provides the Redis subscription carrying conversation events.
// storage.Service satisfies it.
type EventSource interface {
	SubscribeToEvents() *redis.PubSub
}

// StartPubSubListener starts a goroutine that forwards events from Redis
// Pub/Sub into the hub. It is a no-op when no event source is configured.
func (m *ManagerService) StartPubSubListener(ctx context.Context) {
	if m.Events == nil {
		return
	}
	pubsub := m.Events.SubscribeToEvents()
	if pubsub == nil {
		return
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var event models.ConversationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					m.logger.Warn("failed to decode Redis event", "error", err)
					continue
				}

				select {
				case m.EventCh <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}
