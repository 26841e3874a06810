package views

import (
	"fmt"
	"strconv"

	"github.com/matheus3301/linktrack/internal/store"
	"github.com/matheus3301/linktrack/internal/tui/ui"
	"github.com/rivo/tview"
)

// ContactList is the main contact table.
type ContactList struct {
	*tview.Table
	theme    *ui.Theme
	contacts []store.Contact
	visible  []store.Contact
	filter   string
	scope    string
}

// NewContactList creates a new contact table.
func NewContactList(theme *ui.Theme) *ContactList {
	return &ContactList{
		Table: newTable(theme, " Contacts "),
		theme: theme,
	}
}

// Name implements ui.Component.
func (cl *ContactList) Name() string { return "contacts" }

// Hints implements ui.Component.
func (cl *ContactList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Details"},
		{Key: "/", Description: "Filter"},
		{Key: "1-9", Description: "Jump", Numeric: true},
	}
}

// Update replaces the listed contacts. scope describes how the list was
// narrowed in the store, e.g. "status: pending".
func (cl *ContactList) Update(contacts []store.Contact, scope string) {
	cl.contacts = contacts
	cl.scope = scope
	cl.render()
	if row, _ := cl.GetSelection(); row < 1 {
		cl.Select(1, 0)
	}
}

// SetFilter narrows the visible rows to those matching filter.
func (cl *ContactList) SetFilter(filter string) {
	cl.filter = filter
	cl.render()
	cl.Select(1, 0)
}

// Filter returns the active filter text.
func (cl *ContactList) Filter() string {
	return cl.filter
}

func (cl *ContactList) matches(c store.Contact) bool {
	if cl.filter == "" {
		return true
	}
	for _, s := range []string{c.Name, c.Company, c.JobTitle, string(c.Status), c.Location} {
		if containsFold(s, cl.filter) {
			return true
		}
	}
	return false
}

func (cl *ContactList) render() {
	cl.Clear()
	setHeader(cl.Table, cl.theme, []column{
		{" NAME", 2},
		{" COMPANY", 2},
		{" TITLE", 2},
		{" STATUS", 0},
		{" FOLLOW-UPS", 0},
		{" LAST CONTACT", 0},
	})

	cl.visible = cl.visible[:0]
	for _, c := range cl.contacts {
		if !cl.matches(c) {
			continue
		}
		cl.visible = append(cl.visible, c)
		row := len(cl.visible)
		fg := cl.theme.FgColor
		cl.SetCell(row, 0, tview.NewTableCell(" "+clean(c.Name)).SetExpansion(2).SetTextColor(fg).SetReference(c.ID))
		cl.SetCell(row, 1, tview.NewTableCell(" "+clean(c.Company)).SetExpansion(2).SetTextColor(fg))
		cl.SetCell(row, 2, tview.NewTableCell(" "+clean(c.JobTitle)).SetExpansion(2).SetTextColor(fg))
		cl.SetCell(row, 3, tview.NewTableCell(" "+string(c.Status)).SetTextColor(cl.theme.StatusColor(c.Status)))
		cl.SetCell(row, 4, tview.NewTableCell(strconv.Itoa(c.FollowUpCount)).SetTextColor(fg).SetAlign(tview.AlignRight))
		cl.SetCell(row, 5, tview.NewTableCell(" "+formatDate(c.LastContactDate)).SetTextColor(fg).SetAlign(tview.AlignRight))
	}

	title := fmt.Sprintf(" Contacts (%d) ", len(cl.contacts))
	if cl.filter != "" {
		title = fmt.Sprintf(" Contacts (%d/%d) filter: %s ", len(cl.visible), len(cl.contacts), tview.Escape(cl.filter))
	}
	if cl.scope != "" {
		title += "| " + tview.Escape(cl.scope) + " "
	}
	cl.SetTitle(title)
}

// SelectedID returns the id of the selected contact, 0 when none.
func (cl *ContactList) SelectedID() int64 {
	row, _ := cl.GetSelection()
	return cl.ByIndex(row - 1)
}

// ByIndex returns the id of the i-th visible contact (0-based), 0 when out
// of range.
func (cl *ContactList) ByIndex(i int) int64 {
	if i < 0 || i >= len(cl.visible) {
		return 0
	}
	return cl.visible[i].ID
}

// Visible returns how many contacts pass the filter.
func (cl *ContactList) Visible() int {
	return len(cl.visible)
}
