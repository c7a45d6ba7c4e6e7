package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HandlerTimeout bounds a single handler invocation.
const HandlerTimeout = 10 * time.Second

// ErrDispatcherClosed is returned by Publish after Close.
var ErrDispatcherClosed = errors.New("event dispatcher closed")

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
	// Close stops accepting work and waits for in-flight handlers or ctx.
	Close(ctx context.Context) error
}

// registry keeps subscriptions and runs handlers in tracked goroutines.
type registry struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	inflight  sync.WaitGroup
	closed    bool
	logger    *zap.Logger
}

func newRegistry(logger *zap.Logger) *registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &registry{
		listeners: make(map[EventType][]EventHandler),
		logger:    logger,
	}
}

func (r *registry) subscribe(eventType EventType, handler EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[eventType] = append(r.listeners[eventType], handler)
}

// dispatch runs every handler for the event in its own goroutine. Handler
// contexts are detached from ctx cancellation so that a finished HTTP request
// does not abort its side effects. Handlers are counted before the read lock
// is released, so shutdown never misses one.
func (r *registry) dispatch(ctx context.Context, event Event) error {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return ErrDispatcherClosed
	}
	handlers := append([]EventHandler{}, r.listeners[event.Type]...)
	r.inflight.Add(len(handlers))
	r.mu.RUnlock()

	base := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		go func(handler EventHandler) {
			defer r.inflight.Done()
			hctx, cancel := context.WithTimeout(base, HandlerTimeout)
			defer cancel()
			if err := handler(hctx, event); err != nil {
				r.logger.Error("event handler failed",
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}(handler)
	}
	return nil
}

// shutdown rejects further dispatches.
func (r *registry) shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *registry) isClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

func (r *registry) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// inMemoryDispatcher delivers events to in-process handlers asynchronously.
type inMemoryDispatcher struct {
	*registry
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(logger *zap.Logger) Dispatcher {
	return &inMemoryDispatcher{registry: newRegistry(logger)}
}

// Publish schedules handlers for the given event and returns immediately.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	return d.dispatch(ctx, event)
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.subscribe(eventType, handler)
}

// Close rejects further events and waits for running handlers.
func (d *inMemoryDispatcher) Close(ctx context.Context) error {
	d.shutdown()
	return d.wait(ctx)
}
