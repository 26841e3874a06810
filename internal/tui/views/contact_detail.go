package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/linktrack/internal/qr"
	"github.com/matheus3301/linktrack/internal/tui/model"
	"github.com/matheus3301/linktrack/internal/tui/ui"
	"github.com/rivo/tview"
)

// ContactDetail shows one contact with its history, reminders and an
// optional QR code of the profile URL.
type ContactDetail struct {
	*tview.TextView
	theme  *ui.Theme
	detail *model.Detail
	showQR bool
}

// NewContactDetail creates a new contact page.
func NewContactDetail(theme *ui.Theme) *ContactDetail {
	return &ContactDetail{
		TextView: newTextView(theme, " Contact "),
		theme:    theme,
	}
}

// Name implements ui.Component.
func (cd *ContactDetail) Name() string { return "contact" }

// Hints implements ui.Component.
func (cd *ContactDetail) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "r", Description: "QR code"},
		{Key: ":status", Description: "Set status"},
		{Key: "Esc", Description: "Back"},
	}
}

// Update renders d.
func (cd *ContactDetail) Update(d *model.Detail) {
	cd.detail = d
	cd.render()
}

// ContactID returns the shown contact's id, 0 when empty.
func (cd *ContactDetail) ContactID() int64 {
	if cd.detail == nil {
		return 0
	}
	return cd.detail.Contact.ID
}

// ToggleQR shows or hides the QR code.
func (cd *ContactDetail) ToggleQR() {
	cd.showQR = !cd.showQR
	cd.render()
}

func (cd *ContactDetail) render() {
	cd.Clear()
	if cd.detail == nil {
		return
	}
	c := cd.detail.Contact
	cd.SetTitle(fmt.Sprintf(" %s ", clean(c.Name)))

	key := ui.Tag(cd.theme.MenuKeyColor)
	head := ui.Tag(cd.theme.TitleColor)
	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, " [%s::b]%-14s[-:-:-] %s\n", key, label, clean(value))
	}

	b.WriteString("\n")
	field("URL", c.LinkedInURL)
	field("Title", c.JobTitle)
	field("Company", c.Company)
	field("Location", c.Location)
	field("Industry", c.Industry)
	field("Skills", c.Skills)
	fmt.Fprintf(&b, " [%s::b]%-14s[-:-:-] [%s]%s[-]\n", key, "Status", ui.Tag(cd.theme.StatusColor(c.Status)), c.Status)
	fmt.Fprintf(&b, " [%s::b]%-14s[-:-:-] %d\n", key, "Follow-ups", c.FollowUpCount)
	fmt.Fprintf(&b, " [%s::b]%-14s[-:-:-] %s\n", key, "First contact", formatDateTime(c.FirstContactDate))
	fmt.Fprintf(&b, " [%s::b]%-14s[-:-:-] %s\n", key, "Last contact", formatDateTime(c.LastContactDate))
	field("About", c.About)
	field("Notes", c.Notes)

	fmt.Fprintf(&b, "\n [%s::b]Interactions (%d)[-:-:-]\n", head, len(cd.detail.Interactions))
	for _, in := range cd.detail.Interactions {
		outcome := ""
		if in.Outcome != "" {
			outcome = " -> " + string(in.Outcome)
		}
		fmt.Fprintf(&b, "  %s  %-18s%s  %s\n", formatDateTime(in.CreatedAt), in.Type, outcome, clean(in.Message))
	}

	fmt.Fprintf(&b, "\n [%s::b]Reminders (%d)[-:-:-]\n", head, len(cd.detail.Reminders))
	for _, r := range cd.detail.Reminders {
		mark := "[ ]"
		if r.IsCompleted {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "  %s #%d %s  %-18s %s\n", tview.Escape(mark), r.ID, formatDateTime(r.Date), r.Type, clean(r.Message))
	}

	if cd.showQR {
		code, err := qr.Render(c.LinkedInURL, "  ")
		if err != nil {
			fmt.Fprintf(&b, "\n  [%s]%s[-]\n", ui.Tag(cd.theme.FlashErrColor), tview.Escape(err.Error()))
		} else {
			fmt.Fprintf(&b, "\n%s\n", code)
		}
	}

	_, _ = fmt.Fprint(cd, b.String())
	cd.ScrollToBeginning()
}
