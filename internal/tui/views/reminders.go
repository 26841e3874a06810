package views

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/linktrack/internal/store"
	"github.com/matheus3301/linktrack/internal/tui/ui"
	"github.com/rivo/tview"
)

// ReminderList shows open reminders, overdue and due-today rows colored.
type ReminderList struct {
	*tview.Table
	theme   *ui.Theme
	pending []store.PendingReminder
	visible []store.PendingReminder
	filter  string
	now     func() time.Time
}

// NewReminderList creates a new reminder table.
func NewReminderList(theme *ui.Theme, now func() time.Time) *ReminderList {
	if now == nil {
		now = time.Now
	}
	return &ReminderList{
		Table: newTable(theme, " Reminders "),
		theme: theme,
		now:   now,
	}
}

// Name implements ui.Component.
func (rl *ReminderList) Name() string { return "reminders" }

// Hints implements ui.Component.
func (rl *ReminderList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Contact"},
		{Key: "/", Description: "Filter"},
	}
}

// Update replaces the listed reminders, looking days ahead.
func (rl *ReminderList) Update(pending []store.PendingReminder, days int) {
	rl.pending = pending
	rl.render(days)
	if row, _ := rl.GetSelection(); row < 1 {
		rl.Select(1, 0)
	}
}

// SetFilter narrows the visible rows to those matching filter.
func (rl *ReminderList) SetFilter(filter string, days int) {
	rl.filter = filter
	rl.render(days)
	rl.Select(1, 0)
}

// Filter returns the active filter text.
func (rl *ReminderList) Filter() string {
	return rl.filter
}

func (rl *ReminderList) matches(r store.PendingReminder) bool {
	if rl.filter == "" {
		return true
	}
	return containsFold(r.Name, rl.filter) || containsFold(r.Company, rl.filter) ||
		containsFold(r.Message, rl.filter) || containsFold(string(r.Type), rl.filter)
}

// rowColor is OverdueColor before today, DueTodayColor today.
func (rl *ReminderList) rowColor(r store.PendingReminder) tcell.Color {
	today := startOfDay(rl.now())
	switch due := r.Date.Local(); {
	case due.Before(today):
		return rl.theme.OverdueColor
	case due.Before(today.AddDate(0, 0, 1)):
		return rl.theme.DueTodayColor
	}
	return rl.theme.FgColor
}

func (rl *ReminderList) render(days int) {
	rl.Clear()
	setHeader(rl.Table, rl.theme, []column{
		{" DUE", 0},
		{" TYPE", 0},
		{" CONTACT", 1},
		{" COMPANY", 1},
		{" MESSAGE", 3},
	})

	rl.visible = rl.visible[:0]
	for _, r := range rl.pending {
		if !rl.matches(r) {
			continue
		}
		rl.visible = append(rl.visible, r)
		row := len(rl.visible)
		fg := rl.rowColor(r)
		rl.SetCell(row, 0, tview.NewTableCell(" "+formatDateTime(r.Date)).SetTextColor(fg).SetReference(r.ReminderID))
		rl.SetCell(row, 1, tview.NewTableCell(" "+string(r.Type)).SetTextColor(fg))
		rl.SetCell(row, 2, tview.NewTableCell(" "+clean(r.Name)).SetExpansion(1).SetTextColor(fg))
		rl.SetCell(row, 3, tview.NewTableCell(" "+clean(r.Company)).SetExpansion(1).SetTextColor(fg))
		rl.SetCell(row, 4, tview.NewTableCell(" "+clean(r.Message)).SetExpansion(3).SetTextColor(fg))
	}

	title := fmt.Sprintf(" Reminders, next %d days (%d) ", days, len(rl.pending))
	if rl.filter != "" {
		title = fmt.Sprintf(" Reminders, next %d days (%d/%d) filter: %s ", days, len(rl.visible), len(rl.pending), tview.Escape(rl.filter))
	}
	rl.SetTitle(title)
}

// Selected returns the selected reminder, nil when none.
func (rl *ReminderList) Selected() *store.PendingReminder {
	row, _ := rl.GetSelection()
	i := row - 1
	if i < 0 || i >= len(rl.visible) {
		return nil
	}
	r := rl.visible[i]
	return &r
}

// Visible returns how many reminders pass the filter.
func (rl *ReminderList) Visible() int {
	return len(rl.visible)
}
