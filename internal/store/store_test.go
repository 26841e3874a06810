package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

type testClock struct{ t time.Time }

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func strp(s string) *string    { return &s }
func statusp(s Status) *Status { return &s }

func testDB(t *testing.T, opts ...Option) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path, opts...)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func clockedDB(t *testing.T) (*DB, *testClock) {
	t.Helper()
	clock := newTestClock()
	return testDB(t, WithClock(clock.now)), clock
}

func mustAdd(t *testing.T, db *DB, c Contact) int64 {
	t.Helper()
	id, err := db.AddContact(&c)
	if err != nil {
		t.Fatalf("AddContact(%q): %v", c.LinkedInURL, err)
	}
	return id
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	// testDB already ran Migrate, so a second run must be a no-op.
	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}

	for _, name := range []string{
		"contacts", "interactions", "reminders",
		"idx_contacts_status", "idx_contacts_company",
		"idx_interactions_contact_id", "idx_reminders_date",
	} {
		var n int
		if err := db.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE name = ?`, name); err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("schema object %q missing", name)
		}
	}
}

func TestMigratePreservesExistingRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, db, Contact{LinkedInURL: "https://linkedin.com/in/a", Name: "A"})
	_ = db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	c, err := db.GetContactByURL("https://linkedin.com/in/a")
	if err != nil {
		t.Fatal(err)
	}
	if c == nil {
		t.Fatal("contact lost after reopening")
	}
}

func TestAddContactDefaults(t *testing.T) {
	db, clock := clockedDB(t)

	id := mustAdd(t, db, Contact{
		LinkedInURL: "https://linkedin.com/in/jdoe",
		Name:        "Jane Doe",
		Company:     "Acme",
	})
	if id <= 0 {
		t.Fatalf("id = %d, want positive", id)
	}

	c, err := db.GetContact(id)
	if err != nil {
		t.Fatal(err)
	}
	if c == nil {
		t.Fatal("expected contact")
	}
	if c.Status != StatusPending {
		t.Errorf("status = %q, want %q", c.Status, StatusPending)
	}
	if c.FollowUpCount != 0 {
		t.Errorf("follow_up_count = %d, want 0", c.FollowUpCount)
	}
	if c.ConnectionMessageSent {
		t.Error("connection_message_sent should default to false")
	}
	if c.JobTitle != "" {
		t.Errorf("job_title = %q, want empty", c.JobTitle)
	}
	for name, ts := range map[string]Timestamp{
		"first_contact_date": c.FirstContactDate,
		"last_contact_date":  c.LastContactDate,
		"created_at":         c.CreatedAt,
		"updated_at":         c.UpdatedAt,
	} {
		if !ts.Equal(clock.t) {
			t.Errorf("%s = %v, want %v", name, ts.Time, clock.t)
		}
	}
}

func TestAddContactDuplicateURL(t *testing.T) {
	db := testDB(t)
	url := "https://linkedin.com/in/jdoe"
	id := mustAdd(t, db, Contact{LinkedInURL: url, Name: "Jane Doe", Company: "Acme", Notes: "met at conf"})

	for i := 0; i < 3; i++ {
		_, err := db.AddContact(&Contact{LinkedInURL: url, Name: "Other"})
		if !errors.Is(err, ErrDuplicateURL) {
			t.Fatalf("attempt %d: err = %v, want ErrDuplicateURL", i, err)
		}
	}

	c, err := db.GetContactByURL(url)
	if err != nil {
		t.Fatal(err)
	}
	if c.ID != id || c.Name != "Jane Doe" || c.Company != "Acme" || c.Notes != "met at conf" {
		t.Errorf("stored row changed: %+v", c)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM contacts`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("contacts = %d, want 1", n)
	}
}

func TestAddContactRejectsBlankFields(t *testing.T) {
	db := testDB(t)

	tests := []struct {
		name string
		c    *Contact
	}{
		{"nil", nil},
		{"blank url", &Contact{LinkedInURL: "  ", Name: "X"}},
		{"padded url", &Contact{LinkedInURL: " https://linkedin.com/in/jdoe ", Name: "X"}},
		{"blank name", &Contact{LinkedInURL: "https://linkedin.com/in/x", Name: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.AddContact(tt.c)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestGetContactMissing(t *testing.T) {
	db := testDB(t)

	c, err := db.GetContact(999)
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Errorf("expected nil, got %+v", c)
	}

	c, err = db.GetContactByURL("https://linkedin.com/in/nobody")
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Errorf("expected nil, got %+v", c)
	}
}

func TestAddContactThenGetByURLRoundTrip(t *testing.T) {
	db := testDB(t)
	urls := []string{
		"https://linkedin.com/in/jdoe",
		"https://www.linkedin.com/in/jane-doe-42/?locale=en_US",
	}
	for _, url := range urls {
		mustAdd(t, db, Contact{LinkedInURL: url, Name: "Jane"})
		c, err := db.GetContactByURL(url)
		if err != nil {
			t.Fatal(err)
		}
		if c == nil || c.LinkedInURL != url {
			t.Errorf("GetContactByURL(%q) = %+v", url, c)
		}
	}

	if _, err := db.AddContact(&Contact{LinkedInURL: " " + urls[0] + " ", Name: "Jane"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("padded url: err = %v, want ErrInvalidInput", err)
	}
	n, err := db.Statistics()
	if err != nil {
		t.Fatal(err)
	}
	if n.TotalContacts != len(urls) {
		t.Errorf("contacts = %d, want %d", n.TotalContacts, len(urls))
	}
}

func TestGetContactByURLIsCaseSensitive(t *testing.T) {
	db := testDB(t)
	mustAdd(t, db, Contact{LinkedInURL: "https://linkedin.com/in/JDoe", Name: "Jane"})

	c, err := db.GetContactByURL("https://linkedin.com/in/jdoe")
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Error("lookup should be case-sensitive")
	}
}

func TestListContactsOrderFilterLimit(t *testing.T) {
	db, clock := clockedDB(t)

	mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "First", Status: StatusConnected})
	clock.advance(time.Minute)
	mustAdd(t, db, Contact{LinkedInURL: "u2", Name: "Second"})
	clock.advance(time.Minute)
	mustAdd(t, db, Contact{LinkedInURL: "u3", Name: "Third", Status: StatusConnected})

	all, err := db.ListContacts(ContactFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d contacts, want 3", len(all))
	}
	if all[0].Name != "Third" || all[2].Name != "First" {
		t.Errorf("order = %q, %q, %q, want newest first", all[0].Name, all[1].Name, all[2].Name)
	}

	connected, err := db.ListContacts(ContactFilter{Status: StatusConnected})
	if err != nil {
		t.Fatal(err)
	}
	if len(connected) != 2 {
		t.Errorf("connected = %d, want 2", len(connected))
	}

	limited, err := db.ListContacts(ContactFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].Name != "Third" {
		t.Errorf("limit 1 = %+v, want [Third]", limited)
	}

	none, err := db.ListContacts(ContactFilter{Status: "archived"})
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("unknown status returned %d rows", len(none))
	}
}

func TestUpdateContactStatus(t *testing.T) {
	db, clock := clockedDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane"})
	clock.advance(time.Hour)

	if err := db.UpdateContactStatus(id, StatusConnected); err != nil {
		t.Fatal(err)
	}
	c, _ := db.GetContact(id)
	if c.Status != StatusConnected {
		t.Errorf("status = %q, want connected", c.Status)
	}
	if !c.UpdatedAt.Equal(clock.t) {
		t.Errorf("updated_at = %v, want %v", c.UpdatedAt.Time, clock.t)
	}
	if c.CreatedAt.Equal(clock.t) {
		t.Error("created_at should not change")
	}

	// Statuses outside the known set are stored verbatim.
	if err := db.UpdateContactStatus(id, "on_hold"); err != nil {
		t.Fatal(err)
	}
	c, _ = db.GetContact(id)
	if c.Status != "on_hold" || c.Status.Known() {
		t.Errorf("status = %q, want unknown on_hold", c.Status)
	}

	if err := db.UpdateContactStatus(999, StatusConnected); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}
	if err := db.UpdateContactStatus(0, StatusConnected); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero id: err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateContactPatch(t *testing.T) {
	db, clock := clockedDB(t)
	id := mustAdd(t, db, Contact{
		LinkedInURL: "u1",
		Name:        "Jane",
		Company:     "Acme",
		JobTitle:    "Engineer",
		Notes:       "n1",
	})
	clock.advance(time.Hour)

	err := db.UpdateContact(id, ContactPatch{
		Company: strp("Globex"),
		Notes:   strp(""),
		Status:  statusp(StatusResponded),
	})
	if err != nil {
		t.Fatal(err)
	}

	c, _ := db.GetContact(id)
	if c.Company != "Globex" {
		t.Errorf("company = %q, want Globex", c.Company)
	}
	if c.Notes != "" {
		t.Errorf("notes = %q, want cleared", c.Notes)
	}
	if c.Status != StatusResponded {
		t.Errorf("status = %q, want responded", c.Status)
	}
	if c.Name != "Jane" || c.JobTitle != "Engineer" {
		t.Errorf("untouched fields changed: name=%q job=%q", c.Name, c.JobTitle)
	}
	if !c.UpdatedAt.Equal(clock.t) {
		t.Errorf("updated_at = %v, want %v", c.UpdatedAt.Time, clock.t)
	}
}

func TestUpdateContactRejects(t *testing.T) {
	db := testDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane"})

	if err := db.UpdateContact(id, ContactPatch{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty patch: err = %v, want ErrInvalidInput", err)
	}
	if err := db.UpdateContact(id, ContactPatch{Name: strp(" ")}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank name: err = %v, want ErrInvalidInput", err)
	}
	if err := db.UpdateContact(id, ContactPatch{Status: statusp("")}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank status: err = %v, want ErrInvalidInput", err)
	}
	if err := db.UpdateContact(999, ContactPatch{Company: strp("X")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}

	c, err := db.GetContact(id)
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != StatusPending || c.Name != "Jane" {
		t.Errorf("rejected patches changed the row: %+v", c)
	}
}

func TestFollowUpCountOnlyMovesWithFollowUps(t *testing.T) {
	db := testDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane"})

	if err := db.UpdateContact(id, ContactPatch{Status: statusp(StatusConnected), Notes: strp("met at meetup")}); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if _, err := db.AddInteraction(&Interaction{ContactID: id, Type: InteractionFollowUp}); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.UpdateContact(id, ContactPatch{Company: strp("Acme")}); err != nil {
		t.Fatal(err)
	}

	c, err := db.GetContact(id)
	if err != nil {
		t.Fatal(err)
	}
	if c.FollowUpCount != 2 {
		t.Errorf("follow_up_count = %d, want 2", c.FollowUpCount)
	}
}

func TestDeleteContactCascades(t *testing.T) {
	db, clock := clockedDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane"})
	other := mustAdd(t, db, Contact{LinkedInURL: "u2", Name: "John"})

	for _, cid := range []int64{id, other} {
		if _, err := db.AddInteraction(&Interaction{ContactID: cid, Type: InteractionMessage}); err != nil {
			t.Fatal(err)
		}
		if _, err := db.AddReminder(&Reminder{ContactID: cid, Date: At(clock.t), Type: ReminderFollowUp}); err != nil {
			t.Fatal(err)
		}
	}

	if err := db.DeleteContact(id); err != nil {
		t.Fatal(err)
	}

	c, _ := db.GetContact(id)
	if c != nil {
		t.Error("contact still present")
	}
	ints, _ := db.ContactInteractions(id)
	if len(ints) != 0 {
		t.Errorf("interactions = %d, want 0", len(ints))
	}
	n, _ := db.CountContactReminders(id)
	if n != 0 {
		t.Errorf("reminders = %d, want 0", n)
	}

	// The other contact is untouched.
	ints, _ = db.ContactInteractions(other)
	if len(ints) != 1 {
		t.Errorf("other interactions = %d, want 1", len(ints))
	}

	if err := db.DeleteContact(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestSearchContacts(t *testing.T) {
	db := testDB(t)
	mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "zoe", Company: "ACME Corp"})
	mustAdd(t, db, Contact{LinkedInURL: "u2", Name: "Adam", JobTitle: "Acme liaison"})
	mustAdd(t, db, Contact{LinkedInURL: "u3", Name: "Bob", Skills: "Go, acmeology"})
	mustAdd(t, db, Contact{LinkedInURL: "u4", Name: "Carl", Notes: "acme in notes only", Location: "Acme City"})
	mustAdd(t, db, Contact{LinkedInURL: "u5", Name: "Dana 100%"})

	got, err := db.SearchContacts("acme")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, c := range got {
		names = append(names, c.Name)
	}
	want := []string{"Adam", "Bob", "zoe"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	// Wildcards in the query are literal.
	got, err = db.SearchContacts("%")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Dana 100%" {
		t.Errorf("search %% = %+v, want only Dana", got)
	}

	got, err = db.SearchContacts("nomatch")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d, want 0", len(got))
	}
}

func TestContactsDueForFollowUp(t *testing.T) {
	db, clock := clockedDB(t)
	now := clock.t

	mustAdd(t, db, Contact{LinkedInURL: "old", Name: "Old", Status: StatusConnected, LastContactDate: At(now.AddDate(0, 0, -10))})
	mustAdd(t, db, Contact{LinkedInURL: "edge", Name: "Edge", Status: StatusResponded, LastContactDate: At(now.AddDate(0, 0, -7))})
	mustAdd(t, db, Contact{LinkedInURL: "fresh", Name: "Fresh", Status: StatusConnected, LastContactDate: At(now.AddDate(0, 0, -2))})
	mustAdd(t, db, Contact{LinkedInURL: "pending", Name: "Pending", LastContactDate: At(now.AddDate(0, 0, -30))})
	never := mustAdd(t, db, Contact{LinkedInURL: "never", Name: "Never", Status: StatusConnected})
	if _, err := db.Exec(`UPDATE contacts SET last_contact_date = NULL WHERE id = ?`, never); err != nil {
		t.Fatal(err)
	}

	due, err := db.ContactsDueForFollowUp(7)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, c := range due {
		got[c.Name] = true
	}
	for _, name := range []string{"Old", "Edge", "Never"} {
		if !got[name] {
			t.Errorf("%s should be due", name)
		}
	}
	for _, name := range []string{"Fresh", "Pending"} {
		if got[name] {
			t.Errorf("%s should not be due", name)
		}
	}
	if len(due) > 0 && due[0].Name != "Never" {
		t.Errorf("first = %q, want never-contacted first", due[0].Name)
	}
}

func TestAddInteractionFollowUpSideEffect(t *testing.T) {
	db, clock := clockedDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane", LastContactDate: At(clock.t.AddDate(0, 0, -5))})
	clock.advance(time.Hour)

	iid, err := db.AddInteraction(&Interaction{
		ContactID: id,
		Type:      InteractionFollowUp,
		Message:   "checking in",
		Outcome:   OutcomeSent,
	})
	if err != nil {
		t.Fatal(err)
	}
	if iid <= 0 {
		t.Errorf("interaction id = %d", iid)
	}

	c, _ := db.GetContact(id)
	if c.FollowUpCount != 1 {
		t.Errorf("follow_up_count = %d, want 1", c.FollowUpCount)
	}
	if !c.LastContactDate.Equal(clock.t) {
		t.Errorf("last_contact_date = %v, want %v", c.LastContactDate.Time, clock.t)
	}

	if _, err := db.AddInteraction(&Interaction{ContactID: id, Type: InteractionFollowUp}); err != nil {
		t.Fatal(err)
	}
	c, _ = db.GetContact(id)
	if c.FollowUpCount != 2 {
		t.Errorf("follow_up_count = %d, want 2", c.FollowUpCount)
	}
}

func TestAddInteractionOtherTypesLeaveContact(t *testing.T) {
	db, clock := clockedDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane"})
	before, _ := db.GetContact(id)
	clock.advance(time.Hour)

	for _, typ := range []InteractionType{InteractionMessage, InteractionConnectionRequest, InteractionEmail, "coffee"} {
		if _, err := db.AddInteraction(&Interaction{ContactID: id, Type: typ}); err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
	}

	after, _ := db.GetContact(id)
	if after.FollowUpCount != 0 {
		t.Errorf("follow_up_count = %d, want 0", after.FollowUpCount)
	}
	if !after.LastContactDate.Equal(before.LastContactDate.Time) {
		t.Errorf("last_contact_date moved: %v -> %v", before.LastContactDate.Time, after.LastContactDate.Time)
	}
}

func TestAddInteractionMissingContact(t *testing.T) {
	db := testDB(t)

	_, err := db.AddInteraction(&Interaction{ContactID: 42, Type: InteractionFollowUp})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM interactions`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("interactions = %d, want 0", n)
	}
}

func TestContactInteractionsNewestFirst(t *testing.T) {
	db, clock := clockedDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane"})

	for _, msg := range []string{"one", "two", "three"} {
		if _, err := db.AddInteraction(&Interaction{ContactID: id, Type: InteractionMessage, Message: msg}); err != nil {
			t.Fatal(err)
		}
		clock.advance(time.Minute)
	}

	got, err := db.ContactInteractions(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d, want 3", len(got))
	}
	if got[0].Message != "three" || got[2].Message != "one" {
		t.Errorf("order = %q..%q, want three..one", got[0].Message, got[2].Message)
	}

	empty, err := db.ContactInteractions(999)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown contact returned %d rows", len(empty))
	}
}

func TestPendingRemindersWindow(t *testing.T) {
	db, clock := clockedDB(t)
	now := clock.t
	id := mustAdd(t, db, Contact{
		LinkedInURL: "https://linkedin.com/in/jdoe",
		Name:        "Jane Doe",
		Company:     "Acme",
		JobTitle:    "CTO",
	})

	add := func(due time.Time, msg string) int64 {
		t.Helper()
		rid, err := db.AddReminder(&Reminder{ContactID: id, Date: At(due), Type: ReminderFollowUp, Message: msg})
		if err != nil {
			t.Fatal(err)
		}
		return rid
	}
	add(now.AddDate(0, 0, -3), "overdue")
	add(now.Add(2*time.Hour), "soon")
	add(now.AddDate(0, 0, 5), "later")
	done := add(now.Add(-time.Hour), "done")
	if err := db.CompleteReminder(done); err != nil {
		t.Fatal(err)
	}

	got, err := db.PendingReminders(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d reminders, want 2: %+v", len(got), got)
	}
	if got[0].Message != "overdue" || got[1].Message != "soon" {
		t.Errorf("order = %q, %q, want overdue, soon", got[0].Message, got[1].Message)
	}
	r := got[0]
	if r.Name != "Jane Doe" || r.Company != "Acme" || r.JobTitle != "CTO" || r.LinkedInURL != "https://linkedin.com/in/jdoe" || r.ContactID != id {
		t.Errorf("joined contact fields wrong: %+v", r)
	}

	got, err = db.PendingReminders(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("7-day window = %d, want 3", len(got))
	}

	if _, err := db.PendingReminders(-1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative window: err = %v, want ErrInvalidInput", err)
	}
}

func TestAddReminderRejects(t *testing.T) {
	db, clock := clockedDB(t)

	_, err := db.AddReminder(&Reminder{ContactID: 7, Date: At(clock.t), Type: ReminderFollowUp})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing contact: err = %v, want ErrNotFound", err)
	}
	_, err = db.AddReminder(&Reminder{ContactID: 7, Type: ReminderFollowUp})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing date: err = %v, want ErrInvalidInput", err)
	}
}

func TestCompleteReminderIsPermanent(t *testing.T) {
	db, clock := clockedDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane"})
	rid, err := db.AddReminder(&Reminder{ContactID: id, Date: At(clock.t), Type: ReminderFollowUp})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.CompleteReminder(rid); err != nil {
		t.Fatal(err)
	}
	if err := db.CompleteReminder(rid); err != nil {
		t.Errorf("second complete: %v", err)
	}

	r, err := db.GetReminder(rid)
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsCompleted {
		t.Error("reminder should be completed")
	}

	for _, days := range []int{0, 1, 365} {
		got, _ := db.PendingReminders(days)
		if len(got) != 0 {
			t.Errorf("PendingReminders(%d) returned completed reminder", days)
		}
	}

	if err := db.CompleteReminder(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}
}

func TestSnoozeReminder(t *testing.T) {
	db, clock := clockedDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane"})
	rid, err := db.AddReminder(&Reminder{ContactID: id, Date: At(clock.t), Type: ReminderConnectionRequest, Message: "send invite"})
	if err != nil {
		t.Fatal(err)
	}

	due := clock.t.AddDate(0, 0, 2)
	newID, err := db.SnoozeReminder(rid, due, "")
	if err != nil {
		t.Fatal(err)
	}
	if newID == rid {
		t.Fatal("snooze should create a new reminder")
	}

	old, _ := db.GetReminder(rid)
	if !old.IsCompleted {
		t.Error("original reminder should be completed")
	}
	next, _ := db.GetReminder(newID)
	if next.IsCompleted || next.ContactID != id || next.Type != ReminderConnectionRequest || next.Message != "send invite" {
		t.Errorf("new reminder = %+v", next)
	}
	if !next.Date.Equal(due) {
		t.Errorf("due = %v, want %v", next.Date.Time, due)
	}

	n, _ := db.CountContactReminders(id)
	if n != 2 {
		t.Errorf("reminders = %d, want 2", n)
	}

	if _, err := db.SnoozeReminder(999, due, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}
	n, _ = db.CountContactReminders(id)
	if n != 2 {
		t.Errorf("failed snooze changed reminders: %d", n)
	}
}

func TestSnoozeCompletedReminder(t *testing.T) {
	db, clock := clockedDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane"})
	rid, err := db.AddReminder(&Reminder{ContactID: id, Date: At(clock.t), Type: ReminderFollowUp})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.CompleteReminder(rid); err != nil {
		t.Fatal(err)
	}

	if _, err := db.SnoozeReminder(rid, clock.t.AddDate(0, 0, 1), ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	n, _ := db.CountContactReminders(id)
	if n != 1 {
		t.Errorf("reminders = %d, want 1", n)
	}
	pending, err := db.PendingReminders(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0", len(pending))
	}
}

func TestContactReminders(t *testing.T) {
	db, clock := clockedDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane"})
	for _, d := range []int{3, 1, 2} {
		if _, err := db.AddReminder(&Reminder{ContactID: id, Date: At(clock.t.AddDate(0, 0, d)), Type: ReminderFollowUp}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.ContactReminders(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d, want 3", len(got))
	}
	if !got[0].Date.Before(got[1].Date.Time) || !got[1].Date.Before(got[2].Date.Time) {
		t.Error("reminders not ordered by due date")
	}
}

func TestStatistics(t *testing.T) {
	db, clock := clockedDB(t)

	// Ten days ago.
	clock.advance(-10 * 24 * time.Hour)
	mustAdd(t, db, Contact{LinkedInURL: "u0", Name: "Old", Company: "Zeta"})
	clock.advance(10 * 24 * time.Hour)

	ids := []int64{
		mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "A", Company: "Beta", Status: StatusConnected}),
		mustAdd(t, db, Contact{LinkedInURL: "u2", Name: "B", Company: "Alpha", Status: StatusConnected}),
		mustAdd(t, db, Contact{LinkedInURL: "u3", Name: "C", Company: "Beta"}),
		mustAdd(t, db, Contact{LinkedInURL: "u4", Name: "D", Company: "Alpha"}),
		mustAdd(t, db, Contact{LinkedInURL: "u5", Name: "E", Company: "Gamma"}),
		mustAdd(t, db, Contact{LinkedInURL: "u6", Name: "F", Company: "Delta"}),
		mustAdd(t, db, Contact{LinkedInURL: "u7", Name: "G", Company: "Epsilon"}),
		mustAdd(t, db, Contact{LinkedInURL: "u8", Name: "H"}),
	}
	if _, err := db.AddInteraction(&Interaction{ContactID: ids[0], Type: InteractionMessage}); err != nil {
		t.Fatal(err)
	}
	rid, _ := db.AddReminder(&Reminder{ContactID: ids[0], Date: At(clock.t), Type: ReminderFollowUp})
	if _, err := db.AddReminder(&Reminder{ContactID: ids[1], Date: At(clock.t), Type: ReminderFollowUp}); err != nil {
		t.Fatal(err)
	}
	_ = db.CompleteReminder(rid)

	stats, err := db.Statistics()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalContacts != 9 {
		t.Errorf("total = %d, want 9", stats.TotalContacts)
	}
	if stats.ByStatus[StatusConnected] != 2 || stats.ByStatus[StatusPending] != 7 {
		t.Errorf("by status = %v", stats.ByStatus)
	}
	if stats.AddedThisWeek != 8 {
		t.Errorf("added this week = %d, want 8", stats.AddedThisWeek)
	}
	if stats.TotalInteractions != 1 {
		t.Errorf("interactions = %d, want 1", stats.TotalInteractions)
	}
	if stats.PendingReminders != 1 {
		t.Errorf("pending reminders = %d, want 1", stats.PendingReminders)
	}

	want := []CompanyCount{{"Alpha", 2}, {"Beta", 2}, {"Delta", 1}, {"Epsilon", 1}, {"Gamma", 1}}
	if len(stats.TopCompanies) != len(want) {
		t.Fatalf("top companies = %v, want %v", stats.TopCompanies, want)
	}
	for i, w := range want {
		if stats.TopCompanies[i] != w {
			t.Errorf("top[%d] = %v, want %v", i, stats.TopCompanies[i], w)
		}
	}
}

func TestStatisticsEmpty(t *testing.T) {
	db := testDB(t)

	stats, err := db.Statistics()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalContacts != 0 || len(stats.ByStatus) != 0 || len(stats.TopCompanies) != 0 {
		t.Errorf("stats = %+v, want zero", stats)
	}
}

func TestReminderStatistics(t *testing.T) {
	clock := &testClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)}
	db := testDB(t, WithClock(clock.now))
	now := clock.t
	id := mustAdd(t, db, Contact{LinkedInURL: "u1", Name: "Jane"})

	add := func(due time.Time, typ ReminderType) int64 {
		t.Helper()
		rid, err := db.AddReminder(&Reminder{ContactID: id, Date: At(due), Type: typ})
		if err != nil {
			t.Fatal(err)
		}
		return rid
	}
	add(now.Add(-3*time.Hour), ReminderFollowUp)         // today, overdue
	add(now.Add(3*time.Hour), ReminderFollowUp)          // today
	add(now.AddDate(0, 0, -2), ReminderConnectionRequest) // overdue
	add(now.AddDate(0, 0, 3), ReminderConnectionRequest)
	done := add(now.Add(-time.Hour), ReminderFollowUp)
	_ = db.CompleteReminder(done)

	stats, err := db.ReminderStatistics()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalPending != 4 {
		t.Errorf("pending = %d, want 4", stats.TotalPending)
	}
	if stats.DueToday != 2 {
		t.Errorf("due today = %d, want 2", stats.DueToday)
	}
	if stats.Overdue != 2 {
		t.Errorf("overdue = %d, want 2", stats.Overdue)
	}
	if stats.ByType[ReminderFollowUp] != 2 || stats.ByType[ReminderConnectionRequest] != 2 {
		t.Errorf("by type = %v", stats.ByType)
	}
}

func TestScenarioStatisticsAfterInsert(t *testing.T) {
	db := testDB(t)
	mustAdd(t, db, Contact{LinkedInURL: "https://linkedin.com/in/jdoe", Name: "Jane Doe", Company: "Acme"})

	stats, err := db.Statistics()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalContacts != 1 {
		t.Errorf("total = %d, want 1", stats.TotalContacts)
	}
	found := false
	for _, cc := range stats.TopCompanies {
		if cc == (CompanyCount{Company: "Acme", Count: 1}) {
			found = true
		}
	}
	if !found {
		t.Errorf("top companies = %v, want (Acme, 1)", stats.TopCompanies)
	}
}

func TestScenarioReminderTomorrow(t *testing.T) {
	db, clock := clockedDB(t)
	id := mustAdd(t, db, Contact{LinkedInURL: "https://linkedin.com/in/jdoe", Name: "Jane Doe"})
	if _, err := db.AddReminder(&Reminder{ContactID: id, Date: At(clock.t.AddDate(0, 0, 1)), Type: ReminderFollowUp}); err != nil {
		t.Fatal(err)
	}

	got, err := db.PendingReminders(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("days_ahead=0 returned %d, want 0", len(got))
	}
	got, err = db.PendingReminders(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("days_ahead=1 returned %d, want 1", len(got))
	}
}

func TestTimestampScanLegacyFormats(t *testing.T) {
	tests := []struct {
		in   any
		want time.Time
	}{
		{"2025-03-10T12:00:00.000000Z", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
		{"2025-03-10T12:00:00.123456", time.Date(2025, 3, 10, 12, 0, 0, 123456000, time.UTC)},
		{[]byte("2025-03-10 12:00:00"), time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
		{nil, time.Time{}},
	}
	for _, tt := range tests {
		var ts Timestamp
		if err := ts.Scan(tt.in); err != nil {
			t.Errorf("Scan(%v): %v", tt.in, err)
			continue
		}
		if !ts.Equal(tt.want) {
			t.Errorf("Scan(%v) = %v, want %v", tt.in, ts.Time, tt.want)
		}
	}

	var ts Timestamp
	if err := ts.Scan("not a date"); err == nil {
		t.Error("expected error for garbage input")
	}
}
