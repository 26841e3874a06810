package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const contactColumns = `
	id, linkedin_url, name,
	COALESCE(job_title, '') AS job_title,
	COALESCE(company, '') AS company,
	COALESCE(location, '') AS location,
	COALESCE(industry, '') AS industry,
	COALESCE(about, '') AS about,
	COALESCE(skills, '') AS skills,
	COALESCE(notes, '') AS notes,
	first_contact_date, last_contact_date,
	COALESCE(status, 'pending') AS status,
	COALESCE(connection_message_sent, 0) AS connection_message_sent,
	COALESCE(follow_up_count, 0) AS follow_up_count,
	created_at, updated_at`

// ContactPatch lists the fields UpdateContact may change. Nil fields are left
// untouched. The LinkedIn URL is immutable and therefore absent, as is the
// follow-up counter, which only follow-up interactions advance.
type ContactPatch struct {
	Name                  *string
	JobTitle              *string
	Company               *string
	Location              *string
	Industry              *string
	About                 *string
	Skills                *string
	Notes                 *string
	Status                *Status
	ConnectionMessageSent *bool
	FirstContactDate      *Timestamp
	LastContactDate       *Timestamp
}

// IsEmpty reports whether the patch sets no field.
func (p ContactPatch) IsEmpty() bool {
	return len(p.assignments()) == 0
}

type assignment struct {
	column string
	value  any
}

func (p ContactPatch) assignments() []assignment {
	var out []assignment
	text := func(column string, v *string) {
		if v != nil {
			out = append(out, assignment{column, nullable(*v)})
		}
	}
	if p.Name != nil {
		out = append(out, assignment{"name", *p.Name})
	}
	text("job_title", p.JobTitle)
	text("company", p.Company)
	text("location", p.Location)
	text("industry", p.Industry)
	text("about", p.About)
	text("skills", p.Skills)
	text("notes", p.Notes)
	if p.Status != nil {
		out = append(out, assignment{"status", string(*p.Status)})
	}
	if p.ConnectionMessageSent != nil {
		out = append(out, assignment{"connection_message_sent", *p.ConnectionMessageSent})
	}
	if p.FirstContactDate != nil {
		out = append(out, assignment{"first_contact_date", *p.FirstContactDate})
	}
	if p.LastContactDate != nil {
		out = append(out, assignment{"last_contact_date", *p.LastContactDate})
	}
	return out
}

// AddContact inserts a new contact and returns its id. Missing first/last
// contact dates default to now and an empty status defaults to pending.
// A contact whose LinkedIn URL already exists is rejected with
// ErrDuplicateURL; the existing row is not modified.
func (db *DB) AddContact(c *Contact) (int64, error) {
	if c == nil {
		return 0, invalid("nil contact")
	}
	url := c.LinkedInURL
	if strings.TrimSpace(url) == "" {
		return 0, invalid("linkedin url is required")
	}
	if strings.TrimSpace(url) != url {
		return 0, invalid("linkedin url %q has surrounding whitespace", url)
	}
	if strings.TrimSpace(c.Name) == "" {
		return 0, invalid("name is required")
	}

	now := db.stamp()
	first, last := c.FirstContactDate, c.LastContactDate
	if first.IsZero() {
		first = now
	}
	if last.IsZero() {
		last = now
	}
	status := c.Status
	if status == "" {
		status = StatusPending
	}

	res, err := db.Exec(`
		INSERT INTO contacts (
			linkedin_url, name, job_title, company, location,
			industry, about, skills, notes, first_contact_date,
			last_contact_date, status, connection_message_sent,
			follow_up_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		url, c.Name, nullable(c.JobTitle), nullable(c.Company), nullable(c.Location),
		nullable(c.Industry), nullable(c.About), nullable(c.Skills), nullable(c.Notes), first,
		last, string(status), c.ConnectionMessageSent,
		c.FollowUpCount, now, now)
	if err != nil {
		err = wrap("add contact", err)
		if errors.Is(err, ErrDuplicateURL) {
			db.logger.Warn("duplicate contact rejected", zap.String("linkedin_url", url))
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap("add contact", err)
	}
	db.logger.Info("contact added", zap.Int64("id", id), zap.String("name", c.Name))
	return id, nil
}

// GetContact returns a contact by id, or nil when it does not exist.
func (db *DB) GetContact(id int64) (*Contact, error) {
	var c Contact
	err := db.Get(&c, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get contact", err)
	}
	return &c, nil
}

// GetContactByURL returns the contact with exactly this LinkedIn URL, or nil.
// The comparison is case-sensitive.
func (db *DB) GetContactByURL(url string) (*Contact, error) {
	var c Contact
	err := db.Get(&c, `SELECT `+contactColumns+` FROM contacts WHERE linkedin_url = ?`, url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get contact by url", err)
	}
	return &c, nil
}

// ListContacts returns contacts newest first, optionally restricted to one
// status and capped at a limit.
func (db *DB) ListContacts(f ContactFilter) ([]Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts`
	var args []any
	if f.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	contacts := []Contact{}
	if err := db.Select(&contacts, query, args...); err != nil {
		return nil, wrap("list contacts", err)
	}
	return contacts, nil
}

// UpdateContactStatus sets a contact's status and refreshes updated_at.
func (db *DB) UpdateContactStatus(id int64, status Status) error {
	if id <= 0 {
		return invalid("contact id %d", id)
	}
	if status == "" {
		return invalid("status is required")
	}
	res, err := db.Exec(`UPDATE contacts SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), db.stamp(), id)
	if err != nil {
		return wrap("update contact status", err)
	}
	if err := expectOne(res, "update contact status"); err != nil {
		return err
	}
	db.logger.Info("contact status updated", zap.Int64("id", id), zap.String("status", string(status)))
	return nil
}

// UpdateContact applies a partial update. Only the fields set in the patch
// are written; updated_at is always refreshed.
func (db *DB) UpdateContact(id int64, p ContactPatch) error {
	if id <= 0 {
		return invalid("contact id %d", id)
	}
	sets := p.assignments()
	if len(sets) == 0 {
		return invalid("empty contact patch")
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("name is required")
	}
	if p.Status != nil && *p.Status == "" {
		return invalid("status is required")
	}

	clauses := make([]string, 0, len(sets)+1)
	args := make([]any, 0, len(sets)+2)
	for _, s := range sets {
		clauses = append(clauses, s.column+" = ?")
		args = append(args, s.value)
	}
	clauses = append(clauses, "updated_at = ?")
	args = append(args, db.stamp(), id)

	res, err := db.Exec(fmt.Sprintf(`UPDATE contacts SET %s WHERE id = ?`, strings.Join(clauses, ", ")), args...)
	if err != nil {
		return wrap("update contact", err)
	}
	if err := expectOne(res, "update contact"); err != nil {
		return err
	}
	db.logger.Info("contact updated", zap.Int64("id", id), zap.Int("fields", len(sets)))
	return nil
}

// DeleteContact removes a contact together with its interactions and reminders.
func (db *DB) DeleteContact(id int64) error {
	if id <= 0 {
		return invalid("contact id %d", id)
	}
	res, err := db.Exec(`DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return wrap("delete contact", err)
	}
	if err := expectOne(res, "delete contact"); err != nil {
		return err
	}
	db.logger.Info("contact deleted", zap.Int64("id", id))
	return nil
}

// SearchContacts returns contacts whose name, company, job title or skills
// contain query, ignoring ASCII case. Results are sorted by name.
func (db *DB) SearchContacts(query string) ([]Contact, error) {
	pattern := "%" + escapeLike(query) + "%"
	contacts := []Contact{}
	err := db.Select(&contacts, `
		SELECT `+contactColumns+` FROM contacts
		WHERE name LIKE ? ESCAPE '\'
		   OR company LIKE ? ESCAPE '\'
		   OR job_title LIKE ? ESCAPE '\'
		   OR skills LIKE ? ESCAPE '\'
		ORDER BY name COLLATE NOCASE ASC, id ASC`,
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, wrap("search contacts", err)
	}
	return contacts, nil
}

// ContactsDueForFollowUp returns connected or responded contacts that were
// never contacted or were last contacted at least thresholdDays ago.
// Contacts without a last contact date come first, then oldest first.
func (db *DB) ContactsDueForFollowUp(thresholdDays int) ([]Contact, error) {
	if thresholdDays < 0 {
		return nil, invalid("threshold days %d", thresholdDays)
	}
	cutoff := At(db.now().AddDate(0, 0, -thresholdDays))
	contacts := []Contact{}
	err := db.Select(&contacts, `
		SELECT `+contactColumns+` FROM contacts
		WHERE status IN (?, ?)
		  AND (last_contact_date IS NULL OR last_contact_date <= ?)
		ORDER BY last_contact_date ASC, id ASC`,
		string(StatusConnected), string(StatusResponded), cutoff)
	if err != nil {
		return nil, wrap("contacts due for follow-up", err)
	}
	return contacts, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// expectOne turns a write that matched no row into ErrNotFound.
func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if n != 1 {
		return fmt.Errorf("%s: %w: %d rows affected", op, ErrStorage, n)
	}
	return nil
}
