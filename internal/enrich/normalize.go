package enrich

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var subtitleSeparators = []string{" - ", ":", "—", "–", "|", "/"}

// searchTitle strips decoration that hurts external search recall:
// control characters and star glyphs become spaces, runs of whitespace
// collapse, and over-long titles are cut before the first subtitle
// separator so season/subtitle suffixes don't drown the base title.
func searchTitle(t string) string {
	var b strings.Builder
	b.Grow(len(t))

	prevSpace := false
	for _, r := range t {
		if r < 0x20 || r == '☆' || r == '★' {
			r = ' '
		}
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}

	out := strings.TrimSpace(b.String())
	if utf8.RuneCountInString(out) > 40 {
		for _, sep := range subtitleSeparators {
			if i := strings.Index(out, sep); i >= 0 {
				out = strings.TrimSpace(out[:i])
				break
			}
		}
	}
	return out
}
