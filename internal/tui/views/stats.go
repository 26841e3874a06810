package views

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matheus3301/linktrack/internal/store"
	"github.com/matheus3301/linktrack/internal/tui/ui"
	"github.com/rivo/tview"
)

// barWidth is the width of the longest bar in the status breakdown.
const barWidth = 30

// StatsView summarizes the workspace.
type StatsView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewStatsView creates a new statistics page.
func NewStatsView(theme *ui.Theme) *StatsView {
	return &StatsView{
		TextView: newTextView(theme, " Statistics "),
		theme:    theme,
	}
}

// Name implements ui.Component.
func (sv *StatsView) Name() string { return "stats" }

// Hints implements ui.Component.
func (sv *StatsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "Esc", Description: "Back"}}
}

// Update renders the statistics; nil values render nothing.
func (sv *StatsView) Update(stats *store.Statistics, rs *store.ReminderStats) {
	sv.Clear()
	if stats == nil || rs == nil {
		return
	}
	key := ui.Tag(sv.theme.MenuKeyColor)
	head := ui.Tag(sv.theme.TitleColor)
	counter := ui.Tag(sv.theme.CounterColor)

	var b strings.Builder
	line := func(label string, n int) {
		fmt.Fprintf(&b, " [%s::b]%-20s[-:-:-] [%s]%d[-]\n", key, label, counter, n)
	}
	b.WriteString("\n")
	line("Contacts", stats.TotalContacts)
	line("Added this week", stats.AddedThisWeek)
	line("Interactions", stats.TotalInteractions)
	line("Pending reminders", rs.TotalPending)
	line("Due today", rs.DueToday)
	line("Overdue", rs.Overdue)

	fmt.Fprintf(&b, "\n [%s::b]By status[-:-:-]\n", head)
	largest := 0
	for _, n := range stats.ByStatus {
		largest = max(largest, n)
	}
	statuses := make([]store.Status, 0, len(stats.ByStatus))
	for s := range stats.ByStatus {
		statuses = append(statuses, s)
	}
	slices.Sort(statuses)
	for _, s := range statuses {
		n := stats.ByStatus[s]
		fmt.Fprintf(&b, "  %-16s [%s]%s[-] %d\n", s, ui.Tag(sv.theme.StatusColor(s)), bar(n, largest), n)
	}

	if len(rs.ByType) > 0 {
		fmt.Fprintf(&b, "\n [%s::b]Open reminders by type[-:-:-]\n", head)
		types := make([]store.ReminderType, 0, len(rs.ByType))
		for t := range rs.ByType {
			types = append(types, t)
		}
		slices.Sort(types)
		for _, t := range types {
			fmt.Fprintf(&b, "  %-20s %d\n", t, rs.ByType[t])
		}
	}

	if len(stats.TopCompanies) > 0 {
		fmt.Fprintf(&b, "\n [%s::b]Top companies[-:-:-]\n", head)
		for _, cc := range stats.TopCompanies {
			fmt.Fprintf(&b, "  %-28s %d\n", clean(cc.Company), cc.Count)
		}
	}
	_, _ = fmt.Fprint(sv, b.String())
}

// bar scales n against largest into a run of block characters.
func bar(n, largest int) string {
	if largest <= 0 || n <= 0 {
		return ""
	}
	w := max(1, n*barWidth/largest)
	return strings.Repeat("▇", w)
}
