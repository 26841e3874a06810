// Package export writes contacts, interactions and reminders to Excel workbooks.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/matheus3301/linktrack/internal/store"
	"go.uber.org/zap"
)

// ErrNothingToExport is returned when the requested selection is empty.
var ErrNothingToExport = errors.New("nothing to export")

const (
	fullReportReminderDays = 30
	topCompaniesLimit      = 20
	dateLayout             = "2006-01-02 15:04"
)

// Store is the subset of the repository the exporter reads from.
type Store interface {
	ListContacts(f store.ContactFilter) ([]store.Contact, error)
	GetContact(id int64) (*store.Contact, error)
	ContactInteractions(contactID int64) ([]store.Interaction, error)
	PendingReminders(daysAhead int) ([]store.PendingReminder, error)
	Statistics() (*store.Statistics, error)
}

// Exporter writes workbooks into a directory.
type Exporter struct {
	store  Store
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the clock used for file names and "today".
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New creates an exporter writing into dir.
func New(s Store, dir string, opts ...Option) *Exporter {
	e := &Exporter{store: s, dir: dir, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Contacts exports all contacts, or only those with status when it is set.
func (e *Exporter) Contacts(status store.Status) (string, error) {
	contacts, err := e.store.ListContacts(store.ContactFilter{Status: status})
	if err != nil {
		return "", err
	}
	if len(contacts) == 0 {
		return "", ErrNothingToExport
	}
	stats, err := e.store.Statistics()
	if err != nil {
		return "", err
	}

	name := "contacts"
	if status != "" {
		name += "_" + string(status)
	}
	return e.write(name, []sheet{
		contactSheet(contacts),
		statisticsSheet(stats),
		statusSheet(contacts),
		topCompaniesSheet(contacts),
	})
}

// Interactions exports one contact's interaction history.
func (e *Exporter) Interactions(contactID int64) (string, error) {
	c, err := e.store.GetContact(contactID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", fmt.Errorf("contact %d: %w", contactID, store.ErrNotFound)
	}
	interactions, err := e.store.ContactInteractions(contactID)
	if err != nil {
		return "", err
	}
	if len(interactions) == 0 {
		return "", ErrNothingToExport
	}

	list := sheet{
		name:   "Interactions",
		header: []string{"ID", "Type", "Message", "Outcome", "Next Follow-up", "Date"},
	}
	for _, in := range interactions {
		list.add(in.ID, string(in.Type), in.Message, string(in.Outcome), e.date(in.NextFollowUpDate), e.date(in.CreatedAt))
	}
	summary := sheet{
		name:   "Summary",
		header: []string{"Contact", "Company", "Job Title", "Status", "Total Interactions"},
	}
	summary.add(c.Name, orNA(c.Company), orNA(c.JobTitle), string(c.Status), len(interactions))

	name := strings.ReplaceAll(c.Name, " ", "_")
	if r := []rune(name); len(r) > 30 {
		name = string(r[:30])
	}
	return e.write("interactions_"+safeFileName(name), []sheet{list, summary})
}

// Reminders exports the open reminders due within daysAhead.
func (e *Exporter) Reminders(daysAhead int) (string, error) {
	pending, err := e.store.PendingReminders(daysAhead)
	if err != nil {
		return "", err
	}
	if len(pending) == 0 {
		return "", ErrNothingToExport
	}
	return e.write("reminders", []sheet{e.reminderSheet(pending), e.reminderSummary(pending)})
}

// FullReport exports contacts, the next 30 days of reminders and summary sheets.
func (e *Exporter) FullReport() (string, error) {
	contacts, err := e.store.ListContacts(store.ContactFilter{})
	if err != nil {
		return "", err
	}
	if len(contacts) == 0 {
		return "", ErrNothingToExport
	}
	stats, err := e.store.Statistics()
	if err != nil {
		return "", err
	}
	pending, err := e.store.PendingReminders(fullReportReminderDays)
	if err != nil {
		return "", err
	}

	sheets := []sheet{contactSheet(contacts), statisticsSheet(stats)}
	if len(pending) > 0 {
		sheets = append(sheets, e.reminderSheet(pending))
	}
	sheets = append(sheets, statusSheet(contacts), topCompaniesSheet(contacts))
	return e.write("full_report", sheets)
}

func (e *Exporter) write(prefix string, sheets []sheet) (string, error) {
	if err := os.MkdirAll(e.dir, 0700); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(e.dir, fmt.Sprintf("%s_%s.xlsx", prefix, e.now().Format("20060102_150405")))
	if err := writeWorkbook(path, sheets); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	e.logger.Info("workbook exported", zap.String("path", path), zap.Int("sheets", len(sheets)))
	return path, nil
}

func (e *Exporter) date(t store.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.In(e.now().Location()).Format(dateLayout)
}

func contactSheet(contacts []store.Contact) sheet {
	s := sheet{
		name: "Contacts",
		header: []string{
			"ID", "Name", "Job Title", "Company", "Location", "Industry", "Status",
			"Follow-ups", "Skills", "Notes", "LinkedIn URL", "First Contact", "Last Contact",
			"Connection Sent", "Created",
		},
	}
	for _, c := range contacts {
		s.add(c.ID, c.Name, c.JobTitle, c.Company, c.Location, c.Industry, string(c.Status),
			c.FollowUpCount, c.Skills, c.Notes, c.LinkedInURL,
			formatLocal(c.FirstContactDate), formatLocal(c.LastContactDate),
			yesNo(c.ConnectionMessageSent), formatLocal(c.CreatedAt))
	}
	return s
}

func statisticsSheet(st *store.Statistics) sheet {
	s := sheet{name: "Statistics", header: []string{"Metric", "Value"}}
	s.add("Total contacts", st.TotalContacts)
	s.add("Added this week", st.AddedThisWeek)
	s.add("Total interactions", st.TotalInteractions)
	s.add("Pending reminders", st.PendingReminders)
	for _, status := range sortedStatuses(st.ByStatus) {
		s.add("Status: "+string(status), st.ByStatus[status])
	}
	for _, cc := range st.TopCompanies {
		s.add("Company: "+cc.Company, cc.Count)
	}
	return s
}

func statusSheet(contacts []store.Contact) sheet {
	counts := map[store.Status]int{}
	for _, c := range contacts {
		counts[c.Status]++
	}
	s := sheet{name: "Status", header: []string{"Status", "Count"}}
	for _, status := range sortedStatuses(counts) {
		s.add(string(status), counts[status])
	}
	return s
}

func topCompaniesSheet(contacts []store.Contact) sheet {
	counts := map[string]int{}
	for _, c := range contacts {
		if c.Company != "" {
			counts[c.Company]++
		}
	}
	ranked := make([]store.CompanyCount, 0, len(counts))
	for company, n := range counts {
		ranked = append(ranked, store.CompanyCount{Company: company, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Company < ranked[j].Company
	})
	if len(ranked) > topCompaniesLimit {
		ranked = ranked[:topCompaniesLimit]
	}
	s := sheet{name: "Top Companies", header: []string{"Company", "Count"}}
	for _, cc := range ranked {
		s.add(cc.Company, cc.Count)
	}
	return s
}

func (e *Exporter) reminderSheet(pending []store.PendingReminder) sheet {
	s := sheet{
		name:   "Reminders",
		header: []string{"ID", "Date", "Type", "Contact", "Company", "Job Title", "Message", "LinkedIn URL"},
	}
	for _, r := range pending {
		s.add(r.ReminderID, e.date(r.Date), string(r.Type), r.Name, r.Company, r.JobTitle, r.Message, r.LinkedInURL)
	}
	return s
}

func (e *Exporter) reminderSummary(pending []store.PendingReminder) sheet {
	now := e.now()
	y, m, d := now.Date()
	today := 0
	byType := map[string]int{}
	for _, r := range pending {
		ry, rm, rd := r.Date.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			today++
		}
		byType[string(r.Type)]++
	}

	s := sheet{name: "Summary", header: []string{"Category", "Value"}}
	s.add("Total reminders", len(pending))
	s.add("Due today", today)
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		s.add(t, byType[t])
	}
	return s
}

func sortedStatuses(m map[store.Status]int) []store.Status {
	out := make([]store.Status, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func formatLocal(t store.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func safeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}
