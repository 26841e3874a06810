package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestViewBindingWinsOverGlobal(t *testing.T) {
	r := NewRegistry()
	var got string
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'c', Description: "Global", Handler: func() { got = "global" }})
	r.AddView("reminders", &Action{Key: tcell.KeyRune, Rune: 'c', Description: "Complete", Handler: func() { got = "view" }})

	assert.True(t, r.HandleEvent("reminders", runeKey('c')))
	assert.Equal(t, "view", got)

	assert.True(t, r.HandleEvent("contacts", runeKey('c')))
	assert.Equal(t, "global", got)

	assert.False(t, r.HandleEvent("contacts", runeKey('x')))
}

func TestSpecialKeys(t *testing.T) {
	r := NewRegistry()
	hit := false
	r.AddView("contacts", &Action{Key: tcell.KeyEnter, Label: "Enter", Description: "Open", Handler: func() { hit = true }})

	assert.False(t, r.HandleEvent("contacts", runeKey('e')))
	assert.True(t, r.HandleEvent("contacts", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.True(t, hit)
}

func TestHintsOrder(t *testing.T) {
	r := NewRegistry()
	noop := func() {}
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: '?', Description: "Help", Handler: noop})
	r.AddGlobal(&Action{Key: tcell.KeyCtrlR, Description: "Refresh", Handler: noop, Hidden: true})
	r.AddView("reminders", &Action{Key: tcell.KeyRune, Rune: 'c', Description: "Complete", Handler: noop})
	r.AddView("reminders", &Action{Key: tcell.KeyRune, Rune: 'z', Label: "z", Description: "Snooze", Handler: noop})

	hints := r.Hints("reminders")
	if assert.Len(t, hints, 3) {
		assert.Equal(t, "c", hints[0].Key)
		assert.Equal(t, "Snooze", hints[1].Description)
		assert.Equal(t, "?", hints[2].Key)
	}
	assert.Len(t, r.Hints("stats"), 1)
}
