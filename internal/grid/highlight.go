package grid

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Span is the area one match occupies inside a rendered cell
type Span struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// FontMetrics measures text the way the cell renderer draws it
type FontMetrics interface {
	TextWidth(s string) float64
	LeftPadding() float64
	Ascent() float64
	LineHeight() float64
}

// TerminalMetrics measures in terminal cells. Wide runes count as two.
type TerminalMetrics struct {
	Padding int
}

func (t TerminalMetrics) TextWidth(s string) float64 {
	return float64(runewidth.StringWidth(s))
}

func (t TerminalMetrics) LeftPadding() float64 { return float64(t.Padding) }

func (t TerminalMetrics) Ascent() float64 { return 0 }

func (t TerminalMetrics) LineHeight() float64 { return 1 }

// occurrences returns the rune ranges of every non-overlapping,
// case-insensitive occurrence of term in text, left to right.
func occurrences(text, term string) [][2]int {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	hay := lowerRunes(text)
	needle := lowerRunes(term)

	var out [][2]int
	for i := 0; i+len(needle) <= len(hay); {
		if runesEqual(hay[i:i+len(needle)], needle) {
			out = append(out, [2]int{i, i + len(needle)})
			i += len(needle)
			continue
		}
		i++
	}
	return out
}

// ComputeSpans locates every occurrence of term in text and measures where
// it is drawn. Width is measured per occurrence.
func ComputeSpans(text, term string, metrics FontMetrics) []Span {
	occ := occurrences(text, term)
	if len(occ) == 0 {
		return nil
	}

	runes := []rune(text)
	spans := make([]Span, 0, len(occ))
	for _, o := range occ {
		spans = append(spans, Span{
			X:      metrics.TextWidth(string(runes[:o[0]])) + metrics.LeftPadding(),
			Y:      metrics.Ascent(),
			Width:  metrics.TextWidth(string(runes[o[0]:o[1]])),
			Height: metrics.LineHeight(),
		})
	}
	return spans
}

// RenderSpans draws text with base, painting the terminal columns covered by
// spans with highlight. Spans must come from TerminalMetrics with the given
// padding. highlight inherits whatever base sets and it leaves unset, so the
// text keeps its foreground unless highlight overrides it.
func RenderSpans(text string, spans []Span, padding int, base, highlight lipgloss.Style) string {
	if len(spans) == 0 {
		return base.Render(text)
	}
	hl := highlight.Inherit(base)

	inSpan := func(col int) bool {
		for _, s := range spans {
			start := int(s.X) - padding
			if col >= start && col < start+int(s.Width) {
				return true
			}
		}
		return false
	}

	var (
		out  strings.Builder
		run  strings.Builder
		mark bool
		col  int
	)
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if mark {
			out.WriteString(hl.Render(run.String()))
		} else {
			out.WriteString(base.Render(run.String()))
		}
		run.Reset()
	}

	for _, r := range text {
		m := inSpan(col)
		if m != mark {
			flush()
			mark = m
		}
		run.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	flush()
	return out.String()
}

// RenderHighlighted draws text with every occurrence of term highlighted
func RenderHighlighted(text, term string, base, highlight lipgloss.Style) string {
	return RenderSpans(text, ComputeSpans(text, term, TerminalMetrics{}), 0, base, highlight)
}

func lowerRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
