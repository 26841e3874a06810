package store

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const interactionColumns = `
	id, contact_id, interaction_type,
	COALESCE(message, '') AS message,
	COALESCE(outcome, '') AS outcome,
	next_follow_up_date, created_at`

// AddInteraction records an outreach event and returns its id. A follow_up
// interaction also increments the contact's follow-up counter and moves its
// last contact date to now. Both writes commit together or not at all.
func (db *DB) AddInteraction(in *Interaction) (int64, error) {
	if in == nil {
		return 0, invalid("nil interaction")
	}
	if in.ContactID <= 0 {
		return 0, invalid("contact id %d", in.ContactID)
	}
	if in.Type == "" {
		return 0, invalid("interaction type is required")
	}

	now := db.stamp()
	var id int64
	err := db.withTx(func(tx *sqlx.Tx) error {
		if err := contactExists(tx, in.ContactID); err != nil {
			return err
		}
		res, err := tx.Exec(`
			INSERT INTO interactions (
				contact_id, interaction_type, message, outcome,
				next_follow_up_date, created_at
			) VALUES (?, ?, ?, ?, ?, ?)`,
			in.ContactID, string(in.Type), nullable(in.Message), nullable(string(in.Outcome)),
			in.NextFollowUpDate, now)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}

		if in.Type != InteractionFollowUp {
			return nil
		}
		res, err = tx.Exec(`
			UPDATE contacts
			SET follow_up_count = COALESCE(follow_up_count, 0) + 1,
			    last_contact_date = ?,
			    updated_at = ?
			WHERE id = ?`, now, now, in.ContactID)
		if err != nil {
			return err
		}
		return expectOne(res, "bump follow-up count")
	})
	if err != nil {
		return 0, wrap("add interaction", err)
	}

	db.logger.Info("interaction added",
		zap.Int64("id", id),
		zap.Int64("contact_id", in.ContactID),
		zap.String("type", string(in.Type)),
	)
	return id, nil
}

// ContactInteractions returns a contact's interactions, newest first.
func (db *DB) ContactInteractions(contactID int64) ([]Interaction, error) {
	out := []Interaction{}
	err := db.Select(&out, `
		SELECT `+interactionColumns+` FROM interactions
		WHERE contact_id = ?
		ORDER BY created_at DESC, id DESC`, contactID)
	if err != nil {
		return nil, wrap("contact interactions", err)
	}
	return out, nil
}

func contactExists(tx *sqlx.Tx, id int64) error {
	var n int
	if err := tx.Get(&n, `SELECT COUNT(*) FROM contacts WHERE id = ?`, id); err != nil {
		return err
	}
	if n == 0 {
		return invalidRef(id)
	}
	return nil
}
