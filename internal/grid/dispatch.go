package grid

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"clubgrid/internal/domain"
	"clubgrid/internal/logging"
)

// Dispatcher queues a message onto the UI loop. *tea.Program satisfies it.
type Dispatcher interface {
	Send(msg tea.Msg)
}

// DataChangedMsg is a bus notification re-entering the UI loop. GridID names
// the grid that subscribed.
type DataChangedMsg struct {
	GridID     uint64
	EntityType domain.EntityType
	Entity     any
	Op         domain.Operation
}

// Relay is a Dispatcher whose target is attached after construction, since
// grids are built before the program that runs them.
type Relay struct {
	mu     sync.RWMutex
	target Dispatcher
	logger zerolog.Logger
}

// NewRelay returns a Relay with nothing attached
func NewRelay() *Relay {
	return &Relay{logger: logging.Component("relay")}
}

// Attach sets the dispatcher messages are forwarded to
func (r *Relay) Attach(d Dispatcher) {
	r.mu.Lock()
	r.target = d
	r.mu.Unlock()
}

// Send forwards msg, dropping it when nothing is attached yet
func (r *Relay) Send(msg tea.Msg) {
	r.mu.RLock()
	target := r.target
	r.mu.RUnlock()

	if target == nil {
		r.logger.Debug().Msgf("no dispatcher attached, dropping %T", msg)
		return
	}
	target.Send(msg)
}
