// Package reminders schedules follow-ups on top of the contact store.
package reminders

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matheus3301/linktrack/internal/message"
	"github.com/matheus3301/linktrack/internal/store"
	"go.uber.org/zap"
)

// ErrNoReminders is returned by ExportText when the window holds no reminders.
var ErrNoReminders = errors.New("no pending reminders")

// Store is the subset of the repository the scheduler uses.
type Store interface {
	GetContact(id int64) (*store.Contact, error)
	ListContacts(f store.ContactFilter) ([]store.Contact, error)
	AddReminder(r *store.Reminder) (int64, error)
	CountContactReminders(contactID int64) (int, error)
	PendingReminders(daysAhead int) ([]store.PendingReminder, error)
	CompleteReminder(id int64) error
	SnoozeReminder(id int64, due time.Time, message string) (int64, error)
	ReminderStatistics() (*store.ReminderStats, error)
}

// Messages generates the suggested text attached to follow-up reminders.
type Messages interface {
	Generate(c *store.Contact, req message.Request) (string, error)
}

// Settings holds the default intervals, in days.
type Settings struct {
	IntervalDays   int
	ConnectionDays int
}

// Scheduler creates, completes and lists reminders.
type Scheduler struct {
	store    Store
	messages Messages
	settings Settings
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the clock used to compute due dates.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a scheduler. messages may be nil, in which case follow-ups
// without an explicit message are stored without one.
func New(s Store, messages Messages, settings Settings, opts ...Option) *Scheduler {
	if settings.IntervalDays <= 0 {
		settings.IntervalDays = 7
	}
	if settings.ConnectionDays <= 0 {
		settings.ConnectionDays = 3
	}
	sc := &Scheduler{
		store:    s,
		messages: messages,
		settings: settings,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// CreateFollowUp schedules a reminder days from now (the configured interval
// when days <= 0). An empty message is replaced by a generated follow-up.
func (s *Scheduler) CreateFollowUp(contactID int64, days int, typ store.ReminderType, msg string) (int64, error) {
	c, err := s.contact(contactID)
	if err != nil {
		return 0, err
	}
	if days <= 0 {
		days = s.settings.IntervalDays
	}
	if typ == "" {
		typ = store.ReminderFollowUp
	}
	if msg == "" && s.messages != nil {
		msg, err = s.messages.Generate(c, message.Request{Kind: message.KindFollowUp, Index: -1})
		if err != nil {
			return 0, fmt.Errorf("generate follow-up: %w", err)
		}
	}

	id, err := s.store.AddReminder(&store.Reminder{
		ContactID: contactID,
		Date:      store.At(s.now().AddDate(0, 0, days)),
		Type:      typ,
		Message:   msg,
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("follow-up scheduled", zap.Int64("contact_id", contactID), zap.Int("days", days))
	return id, nil
}

// CreateConnectionReminder schedules a reminder to send a connection request.
func (s *Scheduler) CreateConnectionReminder(contactID int64, days int) (int64, error) {
	c, err := s.contact(contactID)
	if err != nil {
		return 0, err
	}
	if days <= 0 {
		days = s.settings.ConnectionDays
	}
	company := c.Company
	if company == "" {
		company = "N/A"
	}
	return s.store.AddReminder(&store.Reminder{
		ContactID: contactID,
		Date:      store.At(s.now().AddDate(0, 0, days)),
		Type:      store.ReminderConnectionRequest,
		Message:   fmt.Sprintf("Send connection request to %s (%s)", c.Name, company),
	})
}

// Complete marks a reminder done.
func (s *Scheduler) Complete(id int64) error {
	return s.store.CompleteReminder(id)
}

// Snooze completes a reminder and reschedules it days from now, keeping its
// contact, type and message.
func (s *Scheduler) Snooze(id int64, days int) (int64, error) {
	if days <= 0 {
		days = s.settings.IntervalDays
	}
	return s.store.SnoozeReminder(id, s.now().AddDate(0, 0, days), "")
}

// AutoCreate adds a connection reminder for every pending contact that has
// no reminders yet. It returns how many were created.
func (s *Scheduler) AutoCreate(days int) (int, error) {
	contacts, err := s.store.ListContacts(store.ContactFilter{Status: store.StatusPending})
	if err != nil {
		return 0, err
	}
	created := 0
	for _, c := range contacts {
		n, err := s.store.CountContactReminders(c.ID)
		if err != nil {
			return created, err
		}
		if n > 0 {
			continue
		}
		if _, err := s.CreateConnectionReminder(c.ID, days); err != nil {
			return created, fmt.Errorf("contact %d: %w", c.ID, err)
		}
		created++
	}
	if created > 0 {
		s.logger.Info("connection reminders created", zap.Int("count", created))
	}
	return created, nil
}

// Pending returns open reminders due within days, overdue ones included.
func (s *Scheduler) Pending(days int) ([]store.PendingReminder, error) {
	return s.store.PendingReminders(days)
}

// Day groups the reminders due on one local calendar day.
type Day struct {
	Date      time.Time
	Reminders []store.PendingReminder
}

// Schedule groups pending reminders within days by local calendar day,
// earliest day first.
func (s *Scheduler) Schedule(days int) ([]Day, error) {
	pending, err := s.store.PendingReminders(days)
	if err != nil {
		return nil, err
	}
	loc := s.now().Location()
	var out []Day
	for _, r := range pending {
		local := r.Date.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		if n := len(out); n > 0 && out[n-1].Date.Equal(day) {
			out[n-1].Reminders = append(out[n-1].Reminders, r)
			continue
		}
		out = append(out, Day{Date: day, Reminders: []store.PendingReminder{r}})
	}
	return out, nil
}

// Stats returns open reminder statistics.
func (s *Scheduler) Stats() (*store.ReminderStats, error) {
	return s.store.ReminderStatistics()
}

// WriteText writes a plain-text agenda of the reminders due within days and
// returns how many were written.
func (s *Scheduler) WriteText(w io.Writer, days int) (int, error) {
	pending, err := s.store.PendingReminders(days)
	if err != nil {
		return 0, err
	}
	now := s.now()
	loc := now.Location()
	rule := strings.Repeat("=", 70)

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "REMINDERS - NEXT %d DAYS\n", days)
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("02/01/2006 15:04"))
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)
	for _, r := range pending {
		company := r.Company
		if company == "" {
			company = "N/A"
		}
		fmt.Fprintf(&b, "Date:     %s\n", r.Date.In(loc).Format("02/01/2006 15:04"))
		fmt.Fprintf(&b, "Contact:  %s\n", r.Name)
		fmt.Fprintf(&b, "Company:  %s\n", company)
		fmt.Fprintf(&b, "Type:     %s\n", r.Type)
		if r.Message != "" {
			fmt.Fprintf(&b, "Message:  %s\n", r.Message)
		}
		fmt.Fprintf(&b, "LinkedIn: %s\n", r.LinkedInURL)
		fmt.Fprintln(&b, strings.Repeat("-", 70))
		fmt.Fprintln(&b)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return 0, err
	}
	return len(pending), nil
}

// ExportText writes the agenda to reminders_YYYYMMDD.txt in dir and returns
// the file path.
func (s *Scheduler) ExportText(dir string, days int) (string, error) {
	pending, err := s.store.PendingReminders(days)
	if err != nil {
		return "", err
	}
	if len(pending) == 0 {
		return "", ErrNoReminders
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "reminders_"+s.now().Format("20060102")+".txt")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", err
	}
	_, writeErr := s.WriteText(f, days)
	if closeErr := f.Close(); closeErr != nil && writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return "", writeErr
	}
	s.logger.Info("reminders exported", zap.String("path", path))
	return path, nil
}

func (s *Scheduler) contact(id int64) (*store.Contact, error) {
	c, err := s.store.GetContact(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("contact %d: %w", id, store.ErrNotFound)
	}
	return c, nil
}
