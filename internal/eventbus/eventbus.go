// Package eventbus is the process-wide data change bus. The shared data
// source publishes one event per mutation; every grid watching that entity
// type receives it, in subscription order, on the bus dispatcher goroutine.
package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"

	"clubgrid/internal/domain"
	"clubgrid/internal/logging"
)

// Re-export domain types for convenience
type (
	EntityType       = domain.EntityType
	Operation        = domain.Operation
	DataChangedEvent = domain.DataChangedEvent
)

const (
	OpInsert = domain.OpInsert
	OpUpdate = domain.OpUpdate
	OpDelete = domain.OpDelete
)

// DefaultBufferSize is the number of events that may be pending before
// Publish starts dropping.
const DefaultBufferSize = 1000

// Handler receives a changed entity and the operation that changed it.
// entity may be nil.
type Handler func(entity any, op Operation)

// Subscription identifies one registered handler. It is returned by
// Subscribe and must be handed back to Unsubscribe when the subscriber is
// discarded.
type Subscription struct {
	ID         uint64
	EntityType EntityType
}

// EventBus is the interface for the data change bus
type EventBus interface {
	Publish(entityType EntityType, entity any, op Operation)
	Subscribe(entityType EntityType, handler Handler) Subscription
	Unsubscribe(sub Subscription) bool
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus is the concrete EventBus. Events are queued on a buffered channel and
// delivered by a single dispatcher goroutine, so handlers observe events
// strictly in publication order.
type Bus struct {
	mu        sync.RWMutex
	handlers  map[EntityType][]subscriber
	nextID    uint64
	eventChan chan DataChangedEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	hooks     hooks
	logger    zerolog.Logger
}

var _ EventBus = (*Bus)(nil)

// New creates a bus and starts its dispatcher. A non-positive buffer uses
// DefaultBufferSize.
func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}

	b := &Bus{
		handlers:  make(map[EntityType][]subscriber),
		eventChan: make(chan DataChangedEvent, buffer),
		quit:      make(chan struct{}),
		logger:    logging.Component("eventbus"),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish queues a change notification. It never blocks; when the buffer is
// full or the bus is closed the event is dropped and OnDrop hooks fire.
func (b *Bus) Publish(entityType EntityType, entity any, op Operation) {
	event := DataChangedEvent{EntityType: entityType, Entity: entity, Op: op}

	select {
	case <-b.quit:
		b.logger.Warn().Str("entity", string(entityType)).Stringer("op", op).Msg("bus closed, dropping event")
		b.runOnDrop(event)
		return
	default:
	}

	select {
	case b.eventChan <- event:
		b.logger.Debug().Str("entity", string(entityType)).Stringer("op", op).Msg("publish")
		b.runOnPublish(event)
	default:
		b.logger.Warn().Str("entity", string(entityType)).Stringer("op", op).Msg("event channel full, dropping event")
		b.runOnDrop(event)
	}
}

// Subscribe registers handler for entityType and returns its handle
func (b *Bus) Subscribe(entityType EntityType, handler Handler) Subscription {
	b.mu.Lock()
	b.nextID++
	sub := Subscription{ID: b.nextID, EntityType: entityType}
	b.handlers[entityType] = append(b.handlers[entityType], subscriber{id: sub.ID, handler: handler})
	b.mu.Unlock()

	b.logger.Debug().Str("entity", string(entityType)).Uint64("subscription", sub.ID).Msg("subscribe")
	return sub
}

// Unsubscribe removes the handler registered under sub. It reports whether
// a handler was removed.
func (b *Bus) Unsubscribe(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[sub.EntityType]
	for i, s := range subs {
		if s.id != sub.ID {
			continue
		}
		kept := make([]subscriber, 0, len(subs)-1)
		kept = append(kept, subs[:i]...)
		kept = append(kept, subs[i+1:]...)
		if len(kept) == 0 {
			delete(b.handlers, sub.EntityType)
		} else {
			b.handlers[sub.EntityType] = kept
		}
		return true
	}
	return false
}

// SubscriberCount returns how many handlers are registered for entityType
func (b *Bus) SubscriberCount(entityType EntityType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[entityType])
}

// Close stops the dispatcher. Events still queued are discarded.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers
func (b *Bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.deliver(event)
		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) deliver(event DataChangedEvent) {
	// Copy so handlers can unsubscribe without holding the lock.
	b.mu.RLock()
	subs := make([]subscriber, len(b.handlers[event.EntityType]))
	copy(subs, b.handlers[event.EntityType])
	b.mu.RUnlock()

	for _, s := range subs {
		b.call(s, event)
	}
}

func (b *Bus) call(s subscriber, event DataChangedEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("entity", string(event.EntityType)).
				Uint64("subscription", s.id).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("subscriber panicked")
			b.runOnPanic(event, r)
		}
	}()
	s.handler(event.Entity, event.Op)
}
