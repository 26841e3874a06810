package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const reminderColumns = `
	id, contact_id, reminder_date, reminder_type,
	COALESCE(message, '') AS message,
	COALESCE(is_completed, 0) AS is_completed,
	created_at`

// AddReminder schedules a reminder for an existing contact and returns its id.
func (db *DB) AddReminder(r *Reminder) (int64, error) {
	if err := validateReminder(r); err != nil {
		return 0, err
	}
	var id int64
	err := db.withTx(func(tx *sqlx.Tx) error {
		if err := contactExists(tx, r.ContactID); err != nil {
			return err
		}
		var err error
		id, err = insertReminder(tx, r, db.stamp())
		return err
	})
	if err != nil {
		return 0, wrap("add reminder", err)
	}
	db.logger.Info("reminder added",
		zap.Int64("id", id),
		zap.Int64("contact_id", r.ContactID),
		zap.String("type", string(r.Type)),
		zap.Stringer("due", r.Date),
	)
	return id, nil
}

// GetReminder returns a reminder by id, or nil when it does not exist.
func (db *DB) GetReminder(id int64) (*Reminder, error) {
	var r Reminder
	err := db.Get(&r, `SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get reminder", err)
	}
	return &r, nil
}

// ContactReminders returns every reminder of a contact, completed included,
// ordered by due date.
func (db *DB) ContactReminders(contactID int64) ([]Reminder, error) {
	out := []Reminder{}
	err := db.Select(&out, `
		SELECT `+reminderColumns+` FROM reminders
		WHERE contact_id = ?
		ORDER BY reminder_date ASC, id ASC`, contactID)
	if err != nil {
		return nil, wrap("contact reminders", err)
	}
	return out, nil
}

// CountContactReminders returns how many reminders, completed or not, a
// contact has.
func (db *DB) CountContactReminders(contactID int64) (int, error) {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM reminders WHERE contact_id = ?`, contactID); err != nil {
		return 0, wrap("count contact reminders", err)
	}
	return n, nil
}

// PendingReminders returns open reminders due no later than daysAhead days
// from now, joined with their contact. Overdue reminders are included.
// Results are ordered by due date, earliest first.
func (db *DB) PendingReminders(daysAhead int) ([]PendingReminder, error) {
	if daysAhead < 0 {
		return nil, invalid("days ahead %d", daysAhead)
	}
	horizon := At(db.now().Add(time.Duration(daysAhead) * 24 * time.Hour))
	out := []PendingReminder{}
	err := db.Select(&out, `
		SELECT
			r.id AS reminder_id,
			r.reminder_date,
			r.reminder_type,
			COALESCE(r.message, '') AS message,
			c.id AS contact_id,
			c.name,
			COALESCE(c.company, '') AS company,
			COALESCE(c.job_title, '') AS job_title,
			c.linkedin_url
		FROM reminders r
		JOIN contacts c ON r.contact_id = c.id
		WHERE r.is_completed = 0
		  AND r.reminder_date <= ?
		ORDER BY r.reminder_date ASC, r.id ASC`, horizon)
	if err != nil {
		return nil, wrap("pending reminders", err)
	}
	return out, nil
}

// CompleteReminder marks a reminder completed. Completing an already
// completed reminder succeeds without change.
func (db *DB) CompleteReminder(id int64) error {
	if id <= 0 {
		return invalid("reminder id %d", id)
	}
	res, err := db.Exec(`UPDATE reminders SET is_completed = 1 WHERE id = ?`, id)
	if err != nil {
		return wrap("complete reminder", err)
	}
	if err := expectOne(res, "complete reminder"); err != nil {
		return err
	}
	db.logger.Info("reminder completed", zap.Int64("id", id))
	return nil
}

// SnoozeReminder completes a reminder and schedules a replacement for the same
// contact and type at due. An empty message keeps the original one. It
// returns the new reminder's id. A completed reminder cannot be snoozed.
func (db *DB) SnoozeReminder(id int64, due time.Time, message string) (int64, error) {
	if id <= 0 {
		return 0, invalid("reminder id %d", id)
	}
	if due.IsZero() {
		return 0, invalid("due date is required")
	}

	var newID int64
	err := db.withTx(func(tx *sqlx.Tx) error {
		var old Reminder
		if err := tx.Get(&old, `SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id); err != nil {
			return err
		}
		if old.IsCompleted {
			return invalid("reminder %d is already completed", id)
		}
		if _, err := tx.Exec(`UPDATE reminders SET is_completed = 1 WHERE id = ?`, id); err != nil {
			return err
		}
		next := Reminder{
			ContactID: old.ContactID,
			Date:      At(due),
			Type:      old.Type,
			Message:   message,
		}
		if next.Message == "" {
			next.Message = old.Message
		}
		var err error
		newID, err = insertReminder(tx, &next, db.stamp())
		return err
	})
	if err != nil {
		return 0, wrap("snooze reminder", err)
	}
	db.logger.Info("reminder snoozed", zap.Int64("id", id), zap.Int64("new_id", newID))
	return newID, nil
}

func validateReminder(r *Reminder) error {
	switch {
	case r == nil:
		return invalid("nil reminder")
	case r.ContactID <= 0:
		return invalid("contact id %d", r.ContactID)
	case r.Date.IsZero():
		return invalid("reminder date is required")
	case r.Type == "":
		return invalid("reminder type is required")
	}
	return nil
}

func insertReminder(tx *sqlx.Tx, r *Reminder, now Timestamp) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO reminders (
			contact_id, reminder_date, reminder_type, message,
			is_completed, created_at
		) VALUES (?, ?, ?, ?, 0, ?)`,
		r.ContactID, r.Date, string(r.Type), nullable(r.Message), now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
