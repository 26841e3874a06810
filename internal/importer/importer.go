// Package importer loads contacts from LinkedIn "Connections" CSV exports.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/matheus3301/linktrack/internal/store"
	"go.uber.org/zap"
)

// Store is the subset of the contact repository the importer needs.
type Store interface {
	GetContactByURL(url string) (*store.Contact, error)
	AddContact(c *store.Contact) (int64, error)
}

// RowError records why a row could not be imported.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

// Report summarizes one import run.
type Report struct {
	BatchID  uuid.UUID
	DryRun   bool
	Total    int
	Imported int
	Skipped  int
	Errors   int
	Contacts []store.Contact
	Failures []RowError
}

// Importer maps CSV rows to contacts and adds the new ones to the store.
type Importer struct {
	store  Store
	logger *zap.Logger
}

// New creates an importer.
func New(s Store, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{store: s, logger: logger}
}

// ImportFile imports the CSV at path. See Import.
func (im *Importer) ImportFile(path string, dryRun bool) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return im.Import(f, dryRun)
}

// Import reads a CSV export and adds every contact whose LinkedIn URL is not
// yet stored. Rows without a URL and already known URLs are skipped. With
// dryRun set, rows are mapped and counted but nothing is written.
func (im *Importer) Import(r io.Reader, dryRun bool) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	lines := splitLines(data)
	start := headerLine(lines)
	if start < 0 {
		return nil, errors.New("csv is empty")
	}
	body := strings.Join(lines[start:], "\n")

	reader := csv.NewReader(strings.NewReader(body))
	reader.Comma = sniffDelimiter(lines[start])
	reader.FieldsPerRecord = -1 // Allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rep := &Report{BatchID: uuid.New(), DryRun: dryRun, Contacts: []store.Contact{}}
	log := im.logger.With(zap.String("batch_id", rep.BatchID.String()), zap.Bool("dry_run", dryRun))
	log.Info("import started", zap.Int("header_line", start+1), zap.Strings("columns", header))

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if blankRecord(record) && err == nil {
			continue
		}
		rep.Total++
		if err != nil {
			rep.fail(rep.Total, err)
			log.Warn("unreadable row", zap.Int("row", rep.Total), zap.Error(err))
			continue
		}
		im.importRow(rep, log, header, record)
	}

	log.Info("import finished",
		zap.Int("total", rep.Total),
		zap.Int("imported", rep.Imported),
		zap.Int("skipped", rep.Skipped),
		zap.Int("errors", rep.Errors),
	)
	return rep, nil
}

func (im *Importer) importRow(rep *Report, log *zap.Logger, header, record []string) {
	n := rep.Total
	c := MapRow(header, record)
	if c == nil {
		rep.Skipped++
		log.Debug("row without linkedin url", zap.Int("row", n))
		return
	}
	if rep.DryRun {
		rep.Imported++
		rep.Contacts = append(rep.Contacts, *c)
		return
	}

	existing, err := im.store.GetContactByURL(c.LinkedInURL)
	if err != nil {
		rep.fail(n, err)
		log.Error("lookup failed", zap.Int("row", n), zap.Error(err))
		return
	}
	if existing != nil {
		rep.Skipped++
		log.Debug("contact already exists", zap.Int("row", n), zap.String("linkedin_url", c.LinkedInURL))
		return
	}

	id, err := im.store.AddContact(c)
	switch {
	case errors.Is(err, store.ErrDuplicateURL):
		rep.Skipped++
	case err != nil:
		rep.fail(n, err)
		log.Error("add contact failed", zap.Int("row", n), zap.Error(err))
	default:
		c.ID = id
		rep.Imported++
		rep.Contacts = append(rep.Contacts, *c)
	}
}

func (rep *Report) fail(row int, err error) {
	rep.Errors++
	rep.Failures = append(rep.Failures, RowError{Row: row, Err: err})
}

func splitLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	return lines
}

// headerLine returns the index of the header row. LinkedIn exports start
// with a "Notes:" preamble, so the first line naming a first or last name
// column is preferred; otherwise the first non-blank line is used.
func headerLine(lines []string) int {
	for i, l := range lines {
		if strings.Contains(l, "First Name") || strings.Contains(l, "LastName") || strings.Contains(l, "Last Name") {
			return i
		}
	}
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			return i
		}
	}
	return -1
}

// sniffDelimiter picks the delimiter that splits the header into the most fields.
func sniffDelimiter(header string) rune {
	best, bestCount := ',', 1
	for _, d := range []rune{',', ';', '\t'} {
		if n := strings.Count(header, string(d)) + 1; n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
