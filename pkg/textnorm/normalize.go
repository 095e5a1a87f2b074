// Package textnorm normalizes inbound message text before it reaches the
// regex and keyword layers. Scammers pad wallet addresses and lure phrases
// with zero-width characters or fullwidth/mathematical letter forms; NFKC
// folding plus invisible-rune stripping collapses those back to plain ASCII
// so a trigger scan sees the same bytes the adversary's wallet does.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// invisible matches runes that carry no visible content: zero-width
// joiners/spaces, bidi overrides, and the Unicode tag block.
var invisible = runes.Predicate(func(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	}
	if r >= '\u202a' && r <= '\u202e' { // bidi embedding/override controls
		return true
	}
	if r >= 0xE0000 && r <= 0xE007F { // tag characters
		return true
	}
	return false
})

var normalizer = transform.Chain(norm.NFKC, runes.Remove(invisible))

// Message returns the normalized form of a single message. Whitespace runs
// are collapsed to single spaces; the result is trimmed but case is
// preserved, since evidence capture reports original casing.
func Message(s string) string {
	out, _, err := transform.String(normalizer, s)
	if err != nil {
		// Transform errors only occur on invalid UTF-8; scoring on the raw
		// input is better than scoring on nothing.
		out = s
	}
	return strings.Join(strings.FieldsFunc(out, unicode.IsSpace), " ")
}

// Transcript normalizes a newline-delimited transcript into one message per
// line, discarding blank lines.
func Transcript(raw string) []string {
	var messages []string
	for _, line := range strings.Split(raw, "\n") {
		msg := Message(line)
		if msg == "" {
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}
