package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/matheus3301/linktrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linkedInExport = "\xef\xbb\xbfNotes:\n" +
	"\"When exporting your connection data, you may notice that some of the email addresses are missing.\"\n" +
	"\n" +
	"First Name,Last Name,URL,Email Address,Company,Position,Connected On\n" +
	"Jane,Doe,https://www.linkedin.com/in/jdoe,jane@acme.io,Acme,CTO,01 Mar 2025\n" +
	"John,Smith,https://www.linkedin.com/in/jsmith,,Globex,Recruiter,02 Mar 2025\n" +
	"Nobody,Here,,,Initech,,03 Mar 2025\n"

func testStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	_, err = db.Migrate()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestImportLinkedInExport(t *testing.T) {
	db := testStore(t)
	im := New(db, nil)

	rep, err := im.Import(strings.NewReader(linkedInExport), false)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rep.BatchID)
	assert.Equal(t, 3, rep.Total)
	assert.Equal(t, 2, rep.Imported)
	assert.Equal(t, 1, rep.Skipped)
	assert.Zero(t, rep.Errors)

	c, err := db.GetContactByURL("https://www.linkedin.com/in/jdoe")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Jane Doe", c.Name)
	assert.Equal(t, "Acme", c.Company)
	assert.Equal(t, "CTO", c.JobTitle)
	assert.Equal(t, "Email: jane@acme.io", c.Notes)
	assert.Equal(t, store.StatusConnected, c.Status)
	assert.True(t, c.ConnectionMessageSent)

	c, err = db.GetContactByURL("https://www.linkedin.com/in/jsmith")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Empty(t, c.Notes)
}

func TestImportSkipsExisting(t *testing.T) {
	db := testStore(t)
	im := New(db, nil)

	_, err := im.Import(strings.NewReader(linkedInExport), false)
	require.NoError(t, err)

	rep, err := im.Import(strings.NewReader(linkedInExport), false)
	require.NoError(t, err)
	assert.Zero(t, rep.Imported)
	assert.Equal(t, 3, rep.Skipped)

	all, err := db.ListContacts(store.ContactFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportDryRunWritesNothing(t *testing.T) {
	db := testStore(t)
	im := New(db, nil)

	rep, err := im.Import(strings.NewReader(linkedInExport), true)
	require.NoError(t, err)
	assert.True(t, rep.DryRun)
	assert.Equal(t, 2, rep.Imported)
	require.Len(t, rep.Contacts, 2)
	assert.Equal(t, "John Smith", rep.Contacts[1].Name)

	all, err := db.ListContacts(store.ContactFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportSemicolonDelimiter(t *testing.T) {
	db := testStore(t)
	csv := "Nombre;Apellido;Enlace;Empresa\n" +
		"Ana;García;https://linkedin.com/in/ana-garcia;Acme\n"

	rep, err := New(db, nil).Import(strings.NewReader(csv), false)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Imported)
	require.Len(t, rep.Contacts, 1)
	assert.Equal(t, "Ana García", rep.Contacts[0].Name)
	assert.Equal(t, "Acme", rep.Contacts[0].Company)
	assert.Positive(t, rep.Contacts[0].ID)
}

func TestImportFileMissing(t *testing.T) {
	_, err := New(testStore(t), nil).ImportFile(filepath.Join(t.TempDir(), "nope.csv"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Connections.csv")
	require.NoError(t, os.WriteFile(path, []byte(linkedInExport), 0600))

	rep, err := New(testStore(t), nil).ImportFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Imported)
}

type failingStore struct{}

func (failingStore) GetContactByURL(string) (*store.Contact, error) { return nil, nil }
func (failingStore) AddContact(*store.Contact) (int64, error) {
	return 0, errors.New("disk full")
}

func TestImportCountsStoreErrors(t *testing.T) {
	rep, err := New(failingStore{}, nil).Import(strings.NewReader(linkedInExport), false)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Errors)
	assert.Equal(t, 1, rep.Skipped)
	require.Len(t, rep.Failures, 2)
	assert.Equal(t, 1, rep.Failures[0].Row)
}

type racingStore struct{}

func (racingStore) GetContactByURL(string) (*store.Contact, error) { return nil, nil }
func (racingStore) AddContact(*store.Contact) (int64, error) {
	return 0, store.ErrDuplicateURL
}

func TestImportTreatsDuplicateAsSkipped(t *testing.T) {
	rep, err := New(racingStore{}, nil).Import(strings.NewReader(linkedInExport), false)
	require.NoError(t, err)
	assert.Zero(t, rep.Errors)
	assert.Equal(t, 3, rep.Skipped)
}

func TestImportEmpty(t *testing.T) {
	_, err := New(failingStore{}, nil).Import(strings.NewReader("\xef\xbb\xbf\n\n"), false)
	assert.Error(t, err)
}

func TestMapRow(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		values   []string
		wantNil  bool
		wantName string
		wantURL  string
	}{
		{
			name:     "url found in any column",
			header:   []string{"Full Name", "Profile"},
			values:   []string{"Mary Ann Lee", "https://www.linkedin.com/in/mlee/"},
			wantName: "Mary Ann Lee",
			wantURL:  "https://www.linkedin.com/in/mlee/",
		},
		{
			name:     "name from slug",
			header:   []string{"URL"},
			values:   []string{"https://www.linkedin.com/in/carlos-ruiz-42"},
			wantName: "Carlos Ruiz 42",
			wantURL:  "https://www.linkedin.com/in/carlos-ruiz-42",
		},
		{
			name:     "first name only",
			header:   []string{"First Name", "URL"},
			values:   []string{"Prince", "https://linkedin.com/in/prince"},
			wantName: "Prince",
			wantURL:  "https://linkedin.com/in/prince",
		},
		{
			name:     "unnamed",
			header:   []string{"Link"},
			values:   []string{"https://example.com/profile"},
			wantName: "Unnamed contact",
			wantURL:  "https://example.com/profile",
		},
		{
			name:    "no url",
			header:  []string{"First Name", "Company"},
			values:  []string{"Jane", "Acme"},
			wantNil: true,
		},
		{
			name:     "short record",
			header:   []string{"First Name", "Last Name", "URL", "Company"},
			values:   []string{"Jane", "Doe", "https://linkedin.com/in/jd"},
			wantName: "Jane Doe",
			wantURL:  "https://linkedin.com/in/jd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MapRow(tt.header, tt.values)
			if tt.wantNil {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, tt.wantName, c.Name)
			assert.Equal(t, tt.wantURL, c.LinkedInURL)
		})
	}
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', sniffDelimiter("a,b,c"))
	assert.Equal(t, ';', sniffDelimiter("a;b;c"))
	assert.Equal(t, '\t', sniffDelimiter("a\tb\tc"))
	assert.Equal(t, ',', sniffDelimiter("single"))
}
