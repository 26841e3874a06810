package bus

import "time"

// Event kinds. Subscribers filter by namespace prefix ("contact.", "reminder.").
const (
	ContactAdded      = "contact.added"
	ContactUpdated    = "contact.updated"
	ContactDeleted    = "contact.deleted"
	InteractionAdded  = "interaction.added"
	ReminderCreated   = "reminder.created"
	ReminderCompleted = "reminder.completed"
	ReminderSnoozed   = "reminder.snoozed"
	ImportFinished    = "import.finished"
)

// Event is a change notification. Payload usually carries the affected id.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
