package grid

import (
	"regexp"
	"strings"
)

// Matcher is a compiled search term. Terms are case-insensitive regular
// expressions; a term that does not compile is matched literally instead.
type Matcher struct {
	re      *regexp.Regexp
	literal bool
}

// NewMatcher compiles term. It returns nil for an empty or whitespace-only
// term, which means "no filter".
func NewMatcher(term string) *Matcher {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	if re, err := regexp.Compile("(?i)" + term); err == nil {
		return &Matcher{re: re}
	}
	return &Matcher{
		re:      regexp.MustCompile("(?i)" + regexp.QuoteMeta(term)),
		literal: true,
	}
}

// Literal reports whether the term was not a valid expression and is being
// matched as plain text.
func (m *Matcher) Literal() bool {
	return m != nil && m.literal
}

// MatchString reports whether s contains a match. A nil Matcher matches
// everything.
func (m *Matcher) MatchString(s string) bool {
	if m == nil {
		return true
	}
	return m.re.MatchString(s)
}

// MatchRow reports whether any of the filter columns of row matches.
// Column indices past the end of row are ignored.
func (m *Matcher) MatchRow(row []string, filterColumns []int) bool {
	if m == nil {
		return true
	}
	for _, c := range filterColumns {
		if c >= 0 && c < len(row) && m.re.MatchString(row[c]) {
			return true
		}
	}
	return false
}

// Filter returns the indices of the rows in rows that match the matcher,
// in their original order.
func (m *Matcher) Filter(rows [][]string, filterColumns []int) []int {
	visible := make([]int, 0, len(rows))
	for i, row := range rows {
		if m.MatchRow(row, filterColumns) {
			visible = append(visible, i)
		}
	}
	return visible
}

// Filter returns the indices of rows with at least one filter column
// matching term. A blank term yields every index.
func Filter(rows [][]string, filterColumns []int, term string) []int {
	return NewMatcher(term).Filter(rows, filterColumns)
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
