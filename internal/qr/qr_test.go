package qr

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRender(t *testing.T) {
	out, err := Render("https://www.linkedin.com/in/jdoe", "  ")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) < 10 {
		t.Fatalf("got %d lines, want a full code", len(lines))
	}
	width := utf8.RuneCountInString(lines[0])
	for i, l := range lines {
		if !strings.HasPrefix(l, "  ") {
			t.Errorf("line %d missing indent", i)
		}
		if n := utf8.RuneCountInString(l); n != width {
			t.Errorf("line %d width = %d, want %d", i, n, width)
		}
	}
	if !strings.ContainsRune(out, '█') {
		t.Error("no full blocks in output")
	}
}

func TestRenderEmpty(t *testing.T) {
	if _, err := Render("  ", ""); err != ErrEmpty {
		t.Errorf("Render(blank) error = %v, want ErrEmpty", err)
	}
}
