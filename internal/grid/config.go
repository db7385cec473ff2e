// Package grid is a filterable, selectable data grid for the terminal. A
// grid shows a fixed column set over a snapshot of rows fetched from the
// shared data source, filters it live from a search field, highlights the
// matched text, and rebuilds itself whenever the data change bus reports a
// mutation of the entity type it shows.
package grid

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"clubgrid/internal/domain"
)

var (
	// ErrIndexOutOfRange is returned when a filter or select column does
	// not name an existing column.
	ErrIndexOutOfRange = errors.New("column index out of range")
	// ErrRowWidth is returned when a row does not have one cell per column.
	ErrRowWidth = errors.New("row width does not match column count")
	// ErrNoColumns is returned for a grid without columns.
	ErrNoColumns = errors.New("grid has no columns")
)

// Fetcher returns the current rows for an entity type
type Fetcher func(entityType domain.EntityType) [][]string

// RowKey identifies a data row handed to a host hook. Index is the position
// in the grid's row snapshot, never the on-screen position.
type RowKey struct {
	Index int
	Value string
}

// Config describes a grid. Columns and Rows are required; everything else is
// optional.
type Config struct {
	Title         string
	Columns       []string
	Rows          [][]string
	FilterColumns []int

	// SelectMode turns SelectColumn into a checkbox column.
	SelectMode   bool
	SelectColumn int

	// KeyColumn supplies RowKey.Value. Defaults to column 0.
	KeyColumn int

	// EntityType and Fetch drive refreshes from the data change bus.
	EntityType domain.EntityType
	Fetch      Fetcher

	// Control builders run once at construction, toolbar first.
	Toolbar   []ControlBuilder
	FilterBar []ControlBuilder

	OnRightClick  func(RowKey) tea.Cmd
	OnDoubleClick func(RowKey) tea.Cmd
	OnToggle      func(key RowKey, checked bool) tea.Cmd
}

// Validate checks column indices and row shape
func (c Config) Validate() error {
	n := len(c.Columns)
	if n == 0 {
		return ErrNoColumns
	}
	for _, fc := range c.FilterColumns {
		if fc < 0 || fc >= n {
			return fmt.Errorf("filter column %d of %d: %w", fc, n, ErrIndexOutOfRange)
		}
	}
	if c.SelectMode && (c.SelectColumn < 0 || c.SelectColumn >= n) {
		return fmt.Errorf("select column %d of %d: %w", c.SelectColumn, n, ErrIndexOutOfRange)
	}
	if c.KeyColumn < 0 || c.KeyColumn >= n {
		return fmt.Errorf("key column %d of %d: %w", c.KeyColumn, n, ErrIndexOutOfRange)
	}
	for i, row := range c.Rows {
		if len(row) != n {
			return fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), n, ErrRowWidth)
		}
	}
	return nil
}
