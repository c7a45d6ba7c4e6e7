package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisDispatcher publishes events on a Redis pub/sub channel and delivers
// messages received on it to local subscribers. Several API instances sharing
// a channel therefore see each other's events.
type RedisDispatcher struct {
	*registry
	client  *redis.Client
	channel string

	mu      sync.Mutex
	pubsub  *redis.PubSub
	stopped chan struct{}
}

// NewRedisDispatcher creates a dispatcher bound to channel.
func NewRedisDispatcher(client *redis.Client, channel string, logger *zap.Logger) *RedisDispatcher {
	return &RedisDispatcher{
		registry: newRegistry(logger),
		client:   client,
		channel:  channel,
	}
}

// Start subscribes to the channel and begins delivering messages.
func (d *RedisDispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pubsub != nil {
		return nil
	}

	pubsub := d.client.Subscribe(ctx, d.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", d.channel, err)
	}

	d.pubsub = pubsub
	d.stopped = make(chan struct{})
	go d.loop(pubsub.Channel(), d.stopped)
	d.logger.Info("redis event dispatcher started", zap.String("channel", d.channel))
	return nil
}

func (d *RedisDispatcher) loop(messages <-chan *redis.Message, stopped chan struct{}) {
	defer close(stopped)
	for msg := range messages {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			d.logger.Warn("dropping malformed event", zap.String("channel", msg.Channel), zap.Error(err))
			continue
		}
		if err := d.dispatch(context.Background(), event); err != nil {
			d.logger.Debug("event received after close", zap.String("event_id", event.ID))
		}
	}
}

// Publish encodes the event and publishes it on the channel.
func (d *RedisDispatcher) Publish(ctx context.Context, event Event) error {
	if d.isClosed() {
		return ErrDispatcherClosed
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := d.client.Publish(ctx, d.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *RedisDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.subscribe(eventType, handler)
}

// Close unsubscribes and waits for in-flight handlers.
func (d *RedisDispatcher) Close(ctx context.Context) error {
	d.shutdown()
	d.mu.Lock()
	pubsub, stopped := d.pubsub, d.stopped
	d.pubsub = nil
	d.mu.Unlock()

	if pubsub != nil {
		_ = pubsub.Close()
		select {
		case <-stopped:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return d.wait(ctx)
}
