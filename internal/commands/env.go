package commands

import (
	"errors"
	"fmt"
	"sync/atomic"

	"clubgrid/internal/club"
	"clubgrid/internal/config"
	"clubgrid/internal/eventbus"
	"clubgrid/internal/logging"
)

// Env is the state shared by every command. It is filled in by the root
// command's Before hook, after the commands have been registered.
type Env struct {
	Config  *config.Config
	Bus     *eventbus.Bus
	Store   *club.Store
	Service *club.Service

	published atomic.Uint64
	dropped   atomic.Uint64
}

// Open loads the seed into a fresh store. An empty seedFile falls back to
// the configured file, then to the bundled data set.
func (e *Env) Open(cfg *config.Config, seedFile string) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if seedFile == "" {
		seedFile = cfg.Data.SeedFile
	}

	seed, err := club.LoadSeed(seedFile)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	bus := eventbus.New(0)
	bus.OnPublish(func(eventbus.DataChangedEvent) { e.published.Add(1) })
	bus.OnDrop(func(eventbus.DataChangedEvent) { e.dropped.Add(1) })
	store := club.NewStore(bus)
	if err := store.Load(seed); err != nil {
		bus.Close()
		return fmt.Errorf("load seed: %w", err)
	}

	e.Config = cfg
	e.Bus = bus
	e.Store = store
	e.Service = club.NewService(store)
	return nil
}

// Stats returns how many change events the bus accepted and dropped
func (e *Env) Stats() (published, dropped uint64) {
	return e.published.Load(), e.dropped.Load()
}

// Close stops the bus dispatcher
func (e *Env) Close() {
	if e.Bus == nil {
		return
	}
	e.Bus.Close()
	published, dropped := e.Stats()
	l := logging.Component("env")
	l.Info().Uint64("published", published).Uint64("dropped", dropped).Msg("bus closed")
}
