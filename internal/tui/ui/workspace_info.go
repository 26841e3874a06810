package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// WorkspaceData is the header summary of the open workspace.
type WorkspaceData struct {
	Workspace string
	Contacts  int
	Pending   int
	DueToday  int
	Overdue   int
}

// WorkspaceInfo displays workspace metadata in the header.
type WorkspaceInfo struct {
	*tview.TextView
	theme *Theme
}

// NewWorkspaceInfo creates a new workspace info panel.
func NewWorkspaceInfo(theme *Theme) *WorkspaceInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &WorkspaceInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the workspace info.
func (wi *WorkspaceInfo) Update(data *WorkspaceData) {
	wi.Clear()
	if data == nil {
		return
	}

	fg := colorName(wi.theme.FgColor)
	counter := colorName(wi.theme.CounterColor)
	overdue := counter
	if data.Overdue > 0 {
		overdue = colorName(wi.theme.OverdueColor)
	}
	today := counter
	if data.DueToday > 0 {
		today = colorName(wi.theme.DueTodayColor)
	}

	_, _ = fmt.Fprintf(wi,
		"[%s::b]Workspace:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Contacts:[-:-:-]  [%s]%d[-]\n"+
			"[%s::b]Reminders:[-:-:-] [%s]%d[-]\n"+
			"[%s::b]Due today:[-:-:-] [%s]%d[-]\n"+
			"[%s::b]Overdue:[-:-:-]   [%s]%d[-]",
		fg, counter, tview.Escape(data.Workspace),
		fg, counter, data.Contacts,
		fg, counter, data.Pending,
		fg, today, data.DueToday,
		fg, overdue, data.Overdue,
	)
}
