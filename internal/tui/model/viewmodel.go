// Package model caches what the TUI pages display and performs their
// mutations.
package model

import (
	"fmt"
	"sync"

	"github.com/matheus3301/linktrack/internal/bus"
	"github.com/matheus3301/linktrack/internal/store"
)

// Store is the part of the store the TUI reads and changes.
type Store interface {
	ListContacts(f store.ContactFilter) ([]store.Contact, error)
	SearchContacts(query string) ([]store.Contact, error)
	GetContact(id int64) (*store.Contact, error)
	ContactInteractions(contactID int64) ([]store.Interaction, error)
	ContactReminders(contactID int64) ([]store.Reminder, error)
	UpdateContactStatus(id int64, status store.Status) error
	Statistics() (*store.Statistics, error)
}

// Reminders is the reminder orchestration the TUI drives.
type Reminders interface {
	Pending(days int) ([]store.PendingReminder, error)
	Complete(id int64) error
	Snooze(id int64, days int) (int64, error)
	Stats() (*store.ReminderStats, error)
}

// Publisher announces changes to other listeners.
type Publisher interface {
	Emit(kind string, payload any)
}

// Detail is everything shown on a contact's page.
type Detail struct {
	Contact      store.Contact
	Interactions []store.Interaction
	Reminders    []store.Reminder
}

// ViewModel caches page data. Loaders block on the store and run off the UI
// goroutine; getters return the last loaded snapshot.
type ViewModel struct {
	mu sync.RWMutex

	store     Store
	reminders Reminders
	events    Publisher

	contacts     []store.Contact
	query        string
	status       store.Status
	detail       *Detail
	pending      []store.PendingReminder
	days         int
	stats        *store.Statistics
	reminderStat *store.ReminderStats
}

// NewViewModel creates a view model listing reminders days ahead.
func NewViewModel(s Store, r Reminders, events Publisher, days int) *ViewModel {
	if days <= 0 {
		days = 7
	}
	return &ViewModel{
		store:     s,
		reminders: r,
		events:    events,
		days:      days,
	}
}

// LoadContacts reloads the contact list using the current search or status.
func (vm *ViewModel) LoadContacts() error {
	vm.mu.RLock()
	query, status := vm.query, vm.status
	vm.mu.RUnlock()

	var (
		contacts []store.Contact
		err      error
	)
	if query != "" {
		contacts, err = vm.store.SearchContacts(query)
	} else {
		contacts, err = vm.store.ListContacts(store.ContactFilter{Status: status})
	}
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.contacts = contacts
	vm.mu.Unlock()
	return nil
}

// Search narrows the contact list to query; an empty query lists everything.
func (vm *ViewModel) Search(query string) error {
	vm.mu.Lock()
	vm.query = query
	vm.status = ""
	vm.mu.Unlock()
	return vm.LoadContacts()
}

// ShowStatus narrows the contact list to status; "" lists everything.
func (vm *ViewModel) ShowStatus(status store.Status) error {
	if status != "" && !status.Known() {
		return fmt.Errorf("%w: unknown status %q", store.ErrInvalidInput, status)
	}
	vm.mu.Lock()
	vm.status = status
	vm.query = ""
	vm.mu.Unlock()
	return vm.LoadContacts()
}

// Scope describes the active contact list narrowing, "" when none.
func (vm *ViewModel) Scope() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	switch {
	case vm.query != "":
		return "search: " + vm.query
	case vm.status != "":
		return "status: " + string(vm.status)
	}
	return ""
}

// LoadDetail loads the contact page for id.
func (vm *ViewModel) LoadDetail(id int64) error {
	c, err := vm.store.GetContact(id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("contact %d: %w", id, store.ErrNotFound)
	}
	interactions, err := vm.store.ContactInteractions(id)
	if err != nil {
		return err
	}
	reminders, err := vm.store.ContactReminders(id)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.detail = &Detail{Contact: *c, Interactions: interactions, Reminders: reminders}
	vm.mu.Unlock()
	return nil
}

// LoadReminders reloads open reminders due within the configured window.
func (vm *ViewModel) LoadReminders() error {
	vm.mu.RLock()
	days := vm.days
	vm.mu.RUnlock()
	pending, err := vm.reminders.Pending(days)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.pending = pending
	vm.mu.Unlock()
	return nil
}

// SetDays changes the reminder window and reloads.
func (vm *ViewModel) SetDays(days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: days must be positive", store.ErrInvalidInput)
	}
	vm.mu.Lock()
	vm.days = days
	vm.mu.Unlock()
	return vm.LoadReminders()
}

// LoadStats reloads store and reminder statistics.
func (vm *ViewModel) LoadStats() error {
	stats, err := vm.store.Statistics()
	if err != nil {
		return err
	}
	rs, err := vm.reminders.Stats()
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.stats, vm.reminderStat = stats, rs
	vm.mu.Unlock()
	return nil
}

// CompleteReminder marks reminder id done.
func (vm *ViewModel) CompleteReminder(id int64) error {
	if err := vm.reminders.Complete(id); err != nil {
		return err
	}
	vm.events.Emit(bus.ReminderCompleted, id)
	return nil
}

// SnoozeReminder postpones reminder id by days and returns the replacement.
func (vm *ViewModel) SnoozeReminder(id int64, days int) (int64, error) {
	newID, err := vm.reminders.Snooze(id, days)
	if err != nil {
		return 0, err
	}
	vm.events.Emit(bus.ReminderSnoozed, newID)
	return newID, nil
}

// SetStatus moves contact id to status.
func (vm *ViewModel) SetStatus(id int64, status store.Status) error {
	if !status.Known() {
		return fmt.Errorf("%w: unknown status %q", store.ErrInvalidInput, status)
	}
	if err := vm.store.UpdateContactStatus(id, status); err != nil {
		return err
	}
	vm.events.Emit(bus.ContactUpdated, id)
	return nil
}

// Contacts returns a snapshot of the contact list.
func (vm *ViewModel) Contacts() []store.Contact {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.contacts
}

// Detail returns the loaded contact page, nil before LoadDetail.
func (vm *ViewModel) Detail() *Detail {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.detail
}

// Pending returns a snapshot of the open reminders and the window used.
func (vm *ViewModel) Pending() ([]store.PendingReminder, int) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.pending, vm.days
}

// Stats returns the last loaded statistics; either may be nil.
func (vm *ViewModel) Stats() (*store.Statistics, *store.ReminderStats) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.stats, vm.reminderStat
}
