package book

import (
	"strings"
	"unicode/utf8"
)

// DefaultWrapWidth is the cover title line length used by [WrapTitle].
const DefaultWrapWidth = 12

// SpineFontSize returns the spine label size in meters for a title.
// Longer titles get smaller type so they fit the spine.
func SpineFontSize(title string) float64 {
	n := utf8.RuneCountInString(title)
	switch {
	case n > 20:
		return 0.005
	case n > 15:
		return 0.006
	case n > 10:
		return 0.007
	default:
		return 0.008
	}
}

// WrapTitle greedily wraps a cover title into lines of at most width runes.
// A single word longer than width gets a line of its own. A width <= 0 uses
// [DefaultWrapWidth].
func WrapTitle(title string, width int) []string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	if utf8.RuneCountInString(title) <= width {
		return []string{title}
	}

	var (
		lines []string
		cur   []string
		n     int
	)
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, strings.Join(cur, " "))
			cur, n = cur[:0], 0
		}
	}
	for _, word := range strings.Fields(title) {
		wn := utf8.RuneCountInString(word)
		need := wn
		if len(cur) > 0 {
			need += n + 1
		}
		if need > width {
			flush()
		}
		if len(cur) > 0 {
			n++
		}
		cur = append(cur, word)
		n += wn
	}
	flush()
	return lines
}
