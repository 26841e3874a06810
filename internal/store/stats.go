package store

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type statusCount struct {
	Status Status `db:"status"`
	Count  int    `db:"count"`
}

type typeCount struct {
	Type  ReminderType `db:"reminder_type"`
	Count int          `db:"count"`
}

// Statistics returns aggregate counts over the whole store, read in a single
// transaction so the numbers are mutually consistent.
func (db *DB) Statistics() (*Statistics, error) {
	now := db.now()
	weekAgo := At(now.AddDate(0, 0, -7))
	stats := &Statistics{ByStatus: map[Status]int{}, TopCompanies: []CompanyCount{}}

	err := db.withTx(func(tx *sqlx.Tx) error {
		if err := tx.Get(&stats.TotalContacts, `SELECT COUNT(*) FROM contacts`); err != nil {
			return err
		}

		var byStatus []statusCount
		if err := tx.Select(&byStatus, `
			SELECT COALESCE(status, 'pending') AS status, COUNT(*) AS count
			FROM contacts GROUP BY 1`); err != nil {
			return err
		}
		for _, s := range byStatus {
			stats.ByStatus[s.Status] += s.Count
		}

		if err := tx.Get(&stats.AddedThisWeek,
			`SELECT COUNT(*) FROM contacts WHERE created_at >= ?`, weekAgo); err != nil {
			return err
		}

		if err := tx.Select(&stats.TopCompanies, `
			SELECT company, COUNT(*) AS count
			FROM contacts
			WHERE company IS NOT NULL AND company != ''
			GROUP BY company
			ORDER BY count DESC, company ASC
			LIMIT 5`); err != nil {
			return err
		}

		if err := tx.Get(&stats.TotalInteractions, `SELECT COUNT(*) FROM interactions`); err != nil {
			return err
		}
		return tx.Get(&stats.PendingReminders, `SELECT COUNT(*) FROM reminders WHERE is_completed = 0`)
	})
	if err != nil {
		return nil, wrap("statistics", err)
	}
	return stats, nil
}

// ReminderStatistics summarizes open reminders. "Due today" uses the local
// calendar day of the store's clock; "overdue" means due strictly before now.
func (db *DB) ReminderStatistics() (*ReminderStats, error) {
	now := db.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	stats := &ReminderStats{ByType: map[ReminderType]int{}}

	err := db.withTx(func(tx *sqlx.Tx) error {
		if err := tx.Get(&stats.TotalPending,
			`SELECT COUNT(*) FROM reminders WHERE is_completed = 0`); err != nil {
			return err
		}

		var byType []typeCount
		if err := tx.Select(&byType, `
			SELECT reminder_type, COUNT(*) AS count
			FROM reminders WHERE is_completed = 0
			GROUP BY reminder_type`); err != nil {
			return err
		}
		for _, t := range byType {
			stats.ByType[t.Type] = t.Count
		}

		if err := tx.Get(&stats.DueToday, `
			SELECT COUNT(*) FROM reminders
			WHERE is_completed = 0 AND reminder_date >= ? AND reminder_date < ?`,
			At(dayStart), At(dayEnd)); err != nil {
			return err
		}
		return tx.Get(&stats.Overdue, `
			SELECT COUNT(*) FROM reminders
			WHERE is_completed = 0 AND reminder_date < ?`, At(now))
	})
	if err != nil {
		return nil, wrap("reminder statistics", err)
	}
	return stats, nil
}
