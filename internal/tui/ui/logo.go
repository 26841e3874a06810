package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Logo displays a compact ASCII art logo.
type Logo struct {
	*tview.TextView
	theme *Theme
}

// NewLogo creates a new logo component.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	l := &Logo{
		TextView: tv,
		theme:    theme,
	}
	l.render()
	return l
}

func (l *Logo) render() {
	titleColor := colorName(l.theme.TitleColor)
	fgColor := colorName(l.theme.FgColor)

	_, _ = fmt.Fprintf(l,
		"[%s::b] _ _      _   _               _   [-:-:-]\n"+
			"[%s::b]| (_)_ _ | |_| |_ _ _ __ _ __| |__[-:-:-]\n"+
			"[%s::b]| | | ' \\| / /  _| '_/ _` / _| / /[-:-:-]\n"+
			"[%s::b]|_|_|_||_|_\\_\\\\__|_| \\__,_\\__|_\\_\\[-:-:-]\n"+
			"[%s]   contacts · follow-ups · reminders[-:-:-]",
		titleColor, titleColor, titleColor, titleColor, fgColor,
	)
}
