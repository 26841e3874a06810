package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned by writes that reference a missing contact,
	// interaction or reminder. Reads report absence as a nil result instead.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateURL is returned when a contact with the same LinkedIn URL
	// already exists. The stored row is left untouched.
	ErrDuplicateURL = errors.New("contact with this linkedin url already exists")

	// ErrInvalidInput is returned before touching storage for malformed ids,
	// blank required fields or empty patches.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorage wraps failures of the underlying database: the file cannot be
	// opened or written, the database is locked by another process, and so on.
	// Callers may retry an operation that failed with ErrStorage.
	ErrStorage = errors.New("storage unavailable")
)

// wrap converts a driver error into one of the package's error kinds.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateURL) ||
		errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrStorage) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%s: %w", op, ErrDuplicateURL)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func invalidRef(contactID int64) error {
	return fmt.Errorf("contact %d: %w", contactID, ErrNotFound)
}
