package views

import (
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/linktrack/internal/store"
	"github.com/matheus3301/linktrack/internal/tui/ui"
	"github.com/rivo/tview"
)

// containsFold reports whether substr is within s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// formatDate renders ts as a local date, "-" when unset.
func formatDate(ts store.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02")
}

// formatDateTime renders ts as a local date and time, "-" when unset.
func formatDateTime(ts store.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

// clean makes arbitrary user text safe for a tview cell.
func clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return tview.Escape(sanitizeForTerminal(s))
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func newTable(theme *ui.Theme, title string) *tview.Table {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(title)
	table.SetTitleColor(theme.TitleColor)
	return table
}

type column struct {
	text string
	exp  int
}

func setHeader(table *tview.Table, theme *ui.Theme, cols []column) {
	for i, h := range cols {
		table.SetCell(0, i, tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(theme.TableHeaderFg).
			SetBackgroundColor(theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp))
	}
}

func newTextView(theme *ui.Theme, title string) *tview.TextView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(title)
	tv.SetTitleColor(theme.TitleColor)
	return tv
}
