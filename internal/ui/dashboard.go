package ui

import (
	"fmt"
	"strings"

	"clubgrid/internal/club"
	"clubgrid/internal/domain"
	"clubgrid/internal/eventbus"
	"clubgrid/internal/grid"
)

// Dashboard is the one-line summary above the screens. It watches every
// entity type and re-tallies when any of them changes.
type Dashboard struct {
	svc    *club.Service
	bus    eventbus.EventBus
	subs   []eventbus.Subscription
	counts club.Counts
}

// NewDashboard tallies svc and, when bus is non-nil, subscribes to every
// entity type. Notifications reach the UI loop through d.
func NewDashboard(svc *club.Service, bus eventbus.EventBus, d grid.Dispatcher) *Dashboard {
	db := &Dashboard{svc: svc, bus: bus, counts: svc.Counts()}
	if bus == nil || d == nil {
		return db
	}
	for _, et := range domain.EntityTypes {
		db.subs = append(db.subs, bus.Subscribe(et, func(any, eventbus.Operation) {
			d.Send(countsChangedMsg{})
		}))
	}
	return db
}

// Refresh re-tallies the store
func (d *Dashboard) Refresh() {
	d.counts = d.svc.Counts()
}

// Counts returns the last tally
func (d *Dashboard) Counts() club.Counts {
	return d.counts
}

// Close releases the bus subscriptions
func (d *Dashboard) Close() {
	for _, sub := range d.subs {
		d.bus.Unsubscribe(sub)
	}
	d.subs = nil
}

func (d *Dashboard) View(s Styles) string {
	c := d.counts
	stat := func(label string, value any) string {
		return s.Label.Render(label+" ") + s.Value.Render(fmt.Sprint(value))
	}
	parts := []string{
		s.Title.Render("clubgrid"),
		stat("members", fmt.Sprintf("%d (%d main / %d sub)", c.Members, c.MainMembers, c.SubMembers)),
		stat("courses", c.Courses),
		stat("roles", c.Roles),
		stat("revenue", fmt.Sprintf("%.2f", c.Revenue)),
	}
	return strings.Join(parts, s.Dim.Render("  ·  "))
}
