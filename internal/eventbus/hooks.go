package eventbus

import "sync"

// hooks holds the lifecycle hook state for the Bus
type hooks struct {
	mu        sync.RWMutex
	onPublish []func(DataChangedEvent)
	onDrop    []func(DataChangedEvent)
	onPanic   []func(DataChangedEvent, any)
}

// OnPublish registers a hook that fires after an event is successfully enqueued.
func (b *Bus) OnPublish(fn func(DataChangedEvent)) {
	b.hooks.mu.Lock()
	b.hooks.onPublish = append(b.hooks.onPublish, fn)
	b.hooks.mu.Unlock()
}

// OnDrop registers a hook that fires when an event is dropped.
func (b *Bus) OnDrop(fn func(DataChangedEvent)) {
	b.hooks.mu.Lock()
	b.hooks.onDrop = append(b.hooks.onDrop, fn)
	b.hooks.mu.Unlock()
}

// OnPanic registers a hook that fires when a subscriber panics.
func (b *Bus) OnPanic(fn func(DataChangedEvent, any)) {
	b.hooks.mu.Lock()
	b.hooks.onPanic = append(b.hooks.onPanic, fn)
	b.hooks.mu.Unlock()
}

func (b *Bus) runOnPublish(event DataChangedEvent) {
	b.hooks.mu.RLock()
	fns := make([]func(DataChangedEvent), len(b.hooks.onPublish))
	copy(fns, b.hooks.onPublish)
	b.hooks.mu.RUnlock()
	for _, fn := range fns {
		fn(event)
	}
}

func (b *Bus) runOnDrop(event DataChangedEvent) {
	b.hooks.mu.RLock()
	fns := make([]func(DataChangedEvent), len(b.hooks.onDrop))
	copy(fns, b.hooks.onDrop)
	b.hooks.mu.RUnlock()
	for _, fn := range fns {
		fn(event)
	}
}

func (b *Bus) runOnPanic(event DataChangedEvent, recovered any) {
	b.hooks.mu.RLock()
	fns := make([]func(DataChangedEvent, any), len(b.hooks.onPanic))
	copy(fns, b.hooks.onPanic)
	b.hooks.mu.RUnlock()
	for _, fn := range fns {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(event, recovered)
		}()
	}
}
