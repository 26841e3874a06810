package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// Crumbs is a breadcrumb bar showing the page stack.
type Crumbs struct {
	*tview.TextView
	theme  *Theme
	titles map[string]string
}

// NewCrumbs creates a new breadcrumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &Crumbs{
		TextView: tv,
		theme:    theme,
		titles:   make(map[string]string),
	}
}

// SetTitle overrides the label shown for page, e.g. a contact's name
// instead of "contact".
func (c *Crumbs) SetTitle(page, title string) {
	c.titles[page] = title
}

// Update renders the trail for stack, the last entry highlighted.
func (c *Crumbs) Update(stack []string) {
	c.Clear()
	parts := make([]string, 0, len(stack))
	for i, name := range stack {
		label := name
		if t, ok := c.titles[name]; ok && t != "" {
			label = t
		}
		fg, bg, attr := c.theme.CrumbInactiveFg, c.theme.CrumbInactiveBg, ""
		if i == len(stack)-1 {
			fg, bg, attr = c.theme.CrumbActiveFg, c.theme.CrumbActiveBg, "b"
		}
		parts = append(parts, fmt.Sprintf("[%s:%s:%s] <%s> [-:-:-]", colorName(fg), colorName(bg), attr, tview.Escape(label)))
	}
	_, _ = fmt.Fprint(c, strings.Join(parts, " "))
}
