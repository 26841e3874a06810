package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/linktrack/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays the key binding and command reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	hv := &HelpView{
		TextView: newTextView(theme, " Help "),
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements ui.Component.
func (hv *HelpView) Name() string { return "help" }

// Hints implements ui.Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "Esc", Description: "Back"}}
}

var helpSections = []struct {
	title string
	rows  [][2]string
}{
	{"Global Keys", [][2]string{
		{":", "Command mode"},
		{"/", "Filter the current table"},
		{"?", "Help"},
		{"Esc", "Cancel / Go back"},
		{"q", "Back, quit on the root page"},
		{"Ctrl-R", "Reload"},
		{"Ctrl-C", "Quit immediately"},
	}},
	{"Contacts", [][2]string{
		{"Enter", "Open contact"},
		{"1-9", "Open the Nth contact"},
		{"0", "Clear filter and scope"},
	}},
	{"Contact", [][2]string{
		{"r", "Toggle QR code of the profile URL"},
	}},
	{"Reminders", [][2]string{
		{"Enter", "Open the reminder's contact"},
		{"c", "Complete"},
		{"z", "Snooze one day"},
		{"Z", "Snooze one week"},
	}},
	{"Commands (: mode)", [][2]string{
		{":contacts", "List all contacts"},
		{":search <query>", "Search name, company, title, notes"},
		{":status <status>", "On a contact: set its status; else list by status"},
		{":reminders [days]", "Open reminders due within days"},
		{":stats", "Statistics"},
		{":help / :h", "Show this help"},
		{":quit / :q", "Quit application"},
	}},
}

func (hv *HelpView) render() {
	kc := ui.Tag(hv.theme.MenuKeyColor)
	var b strings.Builder
	for _, s := range helpSections {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, r := range s.rows {
			fmt.Fprintf(&b, "  [%s]%-20s[-:-:-] %s\n", kc, tview.Escape(r[0]), r[1])
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
