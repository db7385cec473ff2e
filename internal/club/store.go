// Package club holds the shared, observable club data and turns it into
// grid rows. Every mutation is published on the data change bus so that all
// grids showing the affected entity type refresh themselves.
package club

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"clubgrid/internal/domain"
	"clubgrid/internal/eventbus"
	"clubgrid/internal/logging"
)

// Store is the in-process shared data source. Reads return copies.
type Store struct {
	mu           sync.RWMutex
	bus          eventbus.EventBus
	roles        collection[domain.Role]
	courses      collection[domain.Course]
	members      collection[domain.Member]
	consumptions collection[domain.Consumption]
	logger       zerolog.Logger
}

// NewStore creates an empty store publishing to bus. bus may be nil, in
// which case mutations are silent.
func NewStore(bus eventbus.EventBus) *Store {
	return &Store{
		bus:          bus,
		roles:        newCollection(func(r domain.Role) string { return r.ID }),
		courses:      newCollection(func(c domain.Course) string { return c.ID }),
		members:      newCollection(func(m domain.Member) string { return m.ID }),
		consumptions: newCollection(func(c domain.Consumption) string { return c.ID }),
		logger:       logging.Component("club"),
	}
}

// Load appends the seed records without publishing any events.
func (s *Store) Load(seed *Seed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range seed.Roles {
		if err := s.roles.appendSeed(r); err != nil {
			return fmt.Errorf("role %q: %w", r.ID, err)
		}
	}
	for _, c := range seed.Courses {
		if err := s.courses.appendSeed(c); err != nil {
			return fmt.Errorf("course %q: %w", c.ID, err)
		}
	}
	for _, m := range seed.Members {
		if err := s.members.appendSeed(m); err != nil {
			return fmt.Errorf("member %q: %w", m.ID, err)
		}
	}
	for _, c := range seed.Consumptions {
		if err := s.consumptions.appendSeed(c); err != nil {
			return fmt.Errorf("consumption %q: %w", c.ID, err)
		}
	}

	s.logger.Info().
		Int("roles", len(seed.Roles)).
		Int("courses", len(seed.Courses)).
		Int("members", len(seed.Members)).
		Int("consumptions", len(seed.Consumptions)).
		Msg("seed loaded")
	return nil
}

func (s *Store) publish(et domain.EntityType, entity any, op domain.Operation) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(et, entity, op)
}

// Roles returns a snapshot of all roles, newest first.
func (s *Store) Roles() []domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles.list()
}

// Role looks up one role by id.
func (s *Store) Role(id string) (domain.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles.get(id)
}

func (s *Store) InsertRole(r domain.Role) error {
	s.mu.Lock()
	err := s.roles.insert(r)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("insert role %q: %w", r.ID, err)
	}
	s.publish(domain.EntityRole, r, domain.OpInsert)
	return nil
}

func (s *Store) UpdateRole(r domain.Role) error {
	s.mu.Lock()
	err := s.roles.update(r)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("update role %q: %w", r.ID, err)
	}
	s.publish(domain.EntityRole, r, domain.OpUpdate)
	return nil
}

// DeleteRoles removes every listed role and publishes a single DELETE. The
// published entity is the removed role when exactly one was removed and nil
// otherwise. Unknown ids are skipped; the number removed is returned.
func (s *Store) DeleteRoles(ids ...string) int {
	s.mu.Lock()
	var removed []domain.Role
	for _, id := range ids {
		if r, ok := s.roles.remove(id); ok {
			removed = append(removed, r)
		}
	}
	s.mu.Unlock()

	var entity any
	if len(removed) == 1 {
		entity = removed[0]
	}
	s.publish(domain.EntityRole, entity, domain.OpDelete)
	return len(removed)
}

// Courses returns a snapshot of all courses, newest first.
func (s *Store) Courses() []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses.list()
}

// Course looks up one course by id.
func (s *Store) Course(id string) (domain.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses.get(id)
}

func (s *Store) InsertCourse(c domain.Course) error {
	s.mu.Lock()
	err := s.courses.insert(c)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("insert course %q: %w", c.ID, err)
	}
	s.publish(domain.EntityCourse, c, domain.OpInsert)
	return nil
}

// Members returns a snapshot of all members, newest first.
func (s *Store) Members() []domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members.list()
}

// Member looks up one member by id.
func (s *Store) Member(id string) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members.get(id)
}

func (s *Store) InsertMember(m domain.Member) error {
	s.mu.Lock()
	err := s.members.insert(m)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("insert member %q: %w", m.ID, err)
	}
	s.publish(domain.EntityMember, m, domain.OpInsert)
	return nil
}

// SetMainMembers marks every member in ids as a main member and every other
// member as a sub member. Members whose type actually changed are updated
// and one UPDATE is published when anything changed.
func (s *Store) SetMainMembers(ids []string) int {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	s.mu.Lock()
	changed := s.members.updateEach(func(m *domain.Member) bool {
		next := domain.MemberSub
		if want[m.ID] {
			next = domain.MemberMain
		}
		if m.Type == next {
			return false
		}
		m.Type = next
		if next == domain.MemberMain {
			m.MainMemberID = ""
		}
		return true
	})
	s.mu.Unlock()

	if changed > 0 {
		s.publish(domain.EntityMember, nil, domain.OpUpdate)
	}
	return changed
}

// Consumptions returns a snapshot of all consumption records, newest first.
func (s *Store) Consumptions() []domain.Consumption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.consumptions.list()
}

func (s *Store) InsertConsumption(c domain.Consumption) error {
	s.mu.Lock()
	err := s.consumptions.insert(c)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("insert consumption %q: %w", c.ID, err)
	}
	s.publish(domain.EntityConsumption, c, domain.OpInsert)
	return nil
}
