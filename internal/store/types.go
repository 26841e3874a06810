package store

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimeLayout is the fixed-width ISO-8601 form every timestamp is stored in.
// All values are UTC so that text comparison in SQL matches time order.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Timestamp is a time persisted as ISO-8601 text. The zero value maps to NULL.
type Timestamp struct {
	time.Time
}

// At returns a Timestamp for t.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// String returns the stored form, or "" for the zero value.
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.String(), nil
}

// Scan implements sql.Scanner. Besides the canonical layout it accepts the
// formats older databases may hold (naive isoformat, SQLite CURRENT_TIMESTAMP).
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}
}

var legacyLayouts = []string{
	TimeLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) parse(s string) error {
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range legacyLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("scan timestamp: unrecognized value %q", s)
}

// Status is a contact's workflow status. The set is open: values outside the
// known constants are stored verbatim.
type Status string

const (
	StatusPending       Status = "pending"
	StatusConnected     Status = "connected"
	StatusResponded     Status = "responded"
	StatusRejected      Status = "rejected"
	StatusNotInterested Status = "not_interested"
)

// Statuses lists the known statuses in display order.
var Statuses = []Status{StatusPending, StatusConnected, StatusResponded, StatusRejected, StatusNotInterested}

// Known reports whether s is one of the predefined statuses.
func (s Status) Known() bool {
	for _, k := range Statuses {
		if s == k {
			return true
		}
	}
	return false
}

// InteractionType tags an outreach event.
type InteractionType string

const (
	InteractionConnectionRequest InteractionType = "connection_request"
	InteractionMessage           InteractionType = "message"
	InteractionEmail             InteractionType = "email"
	InteractionFollowUp          InteractionType = "follow_up"
	InteractionCall              InteractionType = "call"
	InteractionMeeting           InteractionType = "meeting"
)

// InteractionTypes lists the known interaction types.
var InteractionTypes = []InteractionType{
	InteractionConnectionRequest, InteractionMessage, InteractionEmail,
	InteractionFollowUp, InteractionCall, InteractionMeeting,
}

// Known reports whether t is one of the predefined interaction types.
func (t InteractionType) Known() bool {
	for _, k := range InteractionTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Outcome is the optional result tag of an interaction.
type Outcome string

const (
	OutcomeSent       Outcome = "sent"
	OutcomeAccepted   Outcome = "accepted"
	OutcomeRejected   Outcome = "rejected"
	OutcomeNoResponse Outcome = "no_response"
)

// ReminderType tags a reminder.
type ReminderType string

const (
	ReminderFollowUp          ReminderType = "follow_up"
	ReminderConnectionRequest ReminderType = "connection_request"
)

// Contact is a tracked professional connection keyed by LinkedIn URL.
type Contact struct {
	ID                    int64     `db:"id"`
	LinkedInURL           string    `db:"linkedin_url"`
	Name                  string    `db:"name"`
	JobTitle              string    `db:"job_title"`
	Company               string    `db:"company"`
	Location              string    `db:"location"`
	Industry              string    `db:"industry"`
	About                 string    `db:"about"`
	Skills                string    `db:"skills"`
	Notes                 string    `db:"notes"`
	FirstContactDate      Timestamp `db:"first_contact_date"`
	LastContactDate       Timestamp `db:"last_contact_date"`
	Status                Status    `db:"status"`
	ConnectionMessageSent bool      `db:"connection_message_sent"`
	FollowUpCount         int       `db:"follow_up_count"`
	CreatedAt             Timestamp `db:"created_at"`
	UpdatedAt             Timestamp `db:"updated_at"`
}

// Interaction is one append-only outreach event.
type Interaction struct {
	ID               int64           `db:"id"`
	ContactID        int64           `db:"contact_id"`
	Type             InteractionType `db:"interaction_type"`
	Message          string          `db:"message"`
	Outcome          Outcome         `db:"outcome"`
	NextFollowUpDate Timestamp       `db:"next_follow_up_date"`
	CreatedAt        Timestamp       `db:"created_at"`
}

// Reminder is a scheduled future action tied to a contact.
type Reminder struct {
	ID          int64        `db:"id"`
	ContactID   int64        `db:"contact_id"`
	Date        Timestamp    `db:"reminder_date"`
	Type        ReminderType `db:"reminder_type"`
	Message     string       `db:"message"`
	IsCompleted bool         `db:"is_completed"`
	CreatedAt   Timestamp    `db:"created_at"`
}

// PendingReminder is an open reminder joined with its contact's summary.
type PendingReminder struct {
	ReminderID  int64        `db:"reminder_id"`
	Date        Timestamp    `db:"reminder_date"`
	Type        ReminderType `db:"reminder_type"`
	Message     string       `db:"message"`
	ContactID   int64        `db:"contact_id"`
	Name        string       `db:"name"`
	Company     string       `db:"company"`
	JobTitle    string       `db:"job_title"`
	LinkedInURL string       `db:"linkedin_url"`
}

// ContactFilter narrows ListContacts. Zero values mean "no restriction".
type ContactFilter struct {
	Status Status
	Limit  int
}

// CompanyCount is one row of the top companies ranking.
type CompanyCount struct {
	Company string `db:"company"`
	Count   int    `db:"count"`
}

// Statistics summarizes the whole store.
type Statistics struct {
	TotalContacts     int
	ByStatus          map[Status]int
	AddedThisWeek     int
	TopCompanies      []CompanyCount
	TotalInteractions int
	PendingReminders  int
}

// ReminderStats summarizes open reminders.
type ReminderStats struct {
	TotalPending int
	ByType       map[ReminderType]int
	DueToday     int
	Overdue      int
}
