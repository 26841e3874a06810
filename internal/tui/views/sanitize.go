package views

import (
	"strings"
	"unicode"
)

// sanitizeForTerminal drops runes tview draws badly: emoji modifiers and
// joiners (skin tones, ZWJ sequences, variation selectors) and control
// characters such as ESC that would reach the terminal raw. Imported CSV
// notes carry both.
func sanitizeForTerminal(s string) string {
	return strings.Map(func(r rune) rune {
		if isProblematicRune(r) {
			return -1
		}
		return r
	}, s)
}

func isProblematicRune(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
		return true
	case r == 0x200D: // zero width joiner
		return true
	case r >= 0xFE00 && r <= 0xFE0F, r >= 0xE0100 && r <= 0xE01EF: // variation selectors
		return true
	case unicode.IsControl(r):
		return true
	}
	return false
}
