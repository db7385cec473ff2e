package club

import "errors"

var (
	// ErrNotFound is returned when an update or delete targets an unknown id
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when an insert reuses an existing id
	ErrDuplicateID = errors.New("duplicate id")
	// ErrMissingID is returned when a record has an empty id
	ErrMissingID = errors.New("missing id")
)

// collection is an ordered set of records keyed by id. Newest records come
// first so a freshly inserted row lands at the top of every grid.
type collection[T any] struct {
	items []T
	id    func(T) string
}

func newCollection[T any](id func(T) string) collection[T] {
	return collection[T]{id: id}
}

func (c *collection[T]) index(id string) int {
	for i, item := range c.items {
		if c.id(item) == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) get(id string) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *collection[T]) insert(v T) error {
	id := c.id(v)
	if id == "" {
		return ErrMissingID
	}
	if c.index(id) >= 0 {
		return ErrDuplicateID
	}
	c.items = append([]T{v}, c.items...)
	return nil
}

// appendSeed adds v at the end, keeping seed files in their written order.
func (c *collection[T]) appendSeed(v T) error {
	id := c.id(v)
	if id == "" {
		return ErrMissingID
	}
	if c.index(id) >= 0 {
		return ErrDuplicateID
	}
	c.items = append(c.items, v)
	return nil
}

func (c *collection[T]) update(v T) error {
	i := c.index(c.id(v))
	if i < 0 {
		return ErrNotFound
	}
	c.items[i] = v
	return nil
}

// updateEach applies fn to every item in place and returns how many items
// fn reported as changed.
func (c *collection[T]) updateEach(fn func(*T) bool) int {
	n := 0
	for i := range c.items {
		if fn(&c.items[i]) {
			n++
		}
	}
	return n
}

func (c *collection[T]) remove(id string) (T, bool) {
	i := c.index(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	v := c.items[i]
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	return v, true
}

func (c *collection[T]) list() []T {
	if len(c.items) == 0 {
		return nil
	}
	dup := make([]T, len(c.items))
	copy(dup, c.items)
	return dup
}

func (c *collection[T]) len() int {
	return len(c.items)
}
