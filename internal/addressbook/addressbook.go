// Package addressbook keeps the contacts of the assistant in memory. Contacts are keyed by their
// username, which is matched exactly and case-sensitively.
//
// Operations that can fail on user input return one of ErrInvalidValue, ErrArgumentCount or
// ErrNotFound; Message turns the outcome into the text shown to the user.
package addressbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/contacts-assistant/internal/model"
	"gitlab.com/dirk.krummacker/contacts-assistant/internal/storage"
	pmodel "gitlab.com/dirk.krummacker/contacts-assistant/pkg/model"
)

// AddressBook maps usernames to records and remembers the order in which they were added.
type AddressBook struct {
	contacts map[string]*model.Record
	order    []string
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an AddressBook.
type Option func(*AddressBook)

// WithClock replaces time.Now as the source of today's date.
func WithClock(now func() time.Time) Option {
	return func(b *AddressBook) { b.now = now }
}

// WithLogger sets the logger for diagnostic output.
func WithLogger(logger *slog.Logger) Option {
	return func(b *AddressBook) { b.logger = logger }
}

// New returns an empty address book.
func New(opts ...Option) *AddressBook {
	b := &AddressBook{
		contacts: map[string]*model.Record{},
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Len returns the number of contacts.
func (b *AddressBook) Len() int {
	return len(b.order)
}

// Record returns the record stored for username.
func (b *AddressBook) Record(username string) (*model.Record, bool) {
	r, ok := b.contacts[username]
	return r, ok
}

// lookup returns the record for username or ErrNotFound.
func (b *AddressBook) lookup(username string) (*model.Record, error) {
	r, ok := b.contacts[username]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, username)
	}
	return r, nil
}

// AddContact creates a contact. An existing contact is left unchanged.
func (b *AddressBook) AddContact(username, phone string) (string, error) {
	if username == "" || phone == "" {
		return "", fmt.Errorf("%w: username and phone are required", ErrInvalidValue)
	}
	if _, ok := b.contacts[username]; ok {
		return "Contact already exists. Use 'change' command to update the phone number.", nil
	}
	b.contacts[username] = model.NewRecord(phone)
	b.order = append(b.order, username)
	b.logger.Debug("contact added", "username", username)
	return "Contact added.", nil
}

// ChangeContact overwrites the phone of an existing contact.
func (b *AddressBook) ChangeContact(username, phone string) (string, error) {
	if username == "" || phone == "" {
		return "", fmt.Errorf("%w: username and phone are required", ErrInvalidValue)
	}
	r, ok := b.contacts[username]
	if !ok {
		return "Contact not found.", nil
	}
	r.Phone = phone
	return "Contact updated.", nil
}

// ShowPhone returns the phone number of a contact.
func (b *AddressBook) ShowPhone(username string) (string, error) {
	r, err := b.lookup(username)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s's phone number is: %s", username, r.Phone), nil
}

// ShowAll lists all contacts, one per line, in the order they were added.
func (b *AddressBook) ShowAll() string {
	if len(b.order) == 0 {
		return "No contacts available."
	}
	var sb strings.Builder
	sb.WriteString("All contacts:")
	for _, username := range b.order {
		r := b.contacts[username]
		fmt.Fprintf(&sb, "\n%s: %s", username, r.Phone)
		if r.Birthday != nil {
			fmt.Fprintf(&sb, ", Birthday: %s", r.Birthday)
		}
	}
	return sb.String()
}

// AddBirthday sets the birthday of a contact from DD.MM.YYYY text.
func (b *AddressBook) AddBirthday(username, text string) (string, error) {
	r, err := b.lookup(username)
	if err != nil {
		return "", err
	}
	msg, err := r.AddBirthday(text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return msg, nil
}

// ShowBirthday returns the birthday of a contact. A contact without a birthday counts as not
// found.
func (b *AddressBook) ShowBirthday(username string) (string, error) {
	r, err := b.lookup(username)
	if err != nil {
		return "", err
	}
	if r.Birthday == nil {
		return "", fmt.Errorf("%w: %q has no birthday", ErrNotFound, username)
	}
	return fmt.Sprintf("%s's birthday is on %s", username, r.Birthday), nil
}

// NextWeek returns the first day of the coming week (the next Monday) relative to today.
func (b *AddressBook) NextWeek() time.Time {
	y, m, d := b.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	weekday := (int(today.Weekday()) + 6) % 7 // Monday is 0
	return today.AddDate(0, 0, 7-weekday)
}

// BirthdaysPerWeek returns the usernames whose birthday date is not after NextWeek.
//
// The stored date is compared including its year, so any birthday dated in the past is
// reported. The comparison is kept as is; it does not look at month and day only.
func (b *AddressBook) BirthdaysPerWeek() []string {
	nextWeek := b.NextWeek()
	var upcoming []string
	for _, username := range b.order {
		r := b.contacts[username]
		if r.Birthday != nil && !r.Birthday.Date().After(nextWeek) {
			upcoming = append(upcoming, username)
		}
	}
	return upcoming
}

// Document returns the persisted form of the address book.
func (b *AddressBook) Document() pmodel.Document {
	doc := pmodel.Document{Version: pmodel.DocumentVersion, Contacts: make([]pmodel.Contact, 0, len(b.order))}
	for _, username := range b.order {
		r := b.contacts[username]
		c := pmodel.Contact{Username: username, Phone: r.Phone}
		if r.Birthday != nil {
			d := r.Birthday.Date()
			c.Birthday = &d
		}
		doc.Contacts = append(doc.Contacts, c)
	}
	return doc
}

// Restore replaces all contacts with those of doc. A username that occurs more than once keeps
// its first position and its last values.
func (b *AddressBook) Restore(doc pmodel.Document) {
	b.contacts = make(map[string]*model.Record, len(doc.Contacts))
	b.order = make([]string, 0, len(doc.Contacts))
	for _, c := range doc.Contacts {
		r := model.NewRecord(c.Phone)
		if c.Birthday != nil {
			bd := model.BirthdayFromTime(*c.Birthday)
			r.Birthday = &bd
		}
		if _, ok := b.contacts[c.Username]; !ok {
			b.order = append(b.order, c.Username)
		}
		b.contacts[c.Username] = r
	}
}

// SaveTo writes the whole address book to store.
func (b *AddressBook) SaveTo(ctx context.Context, store storage.Store) error {
	if err := store.Save(ctx, b.Document()); err != nil {
		return err
	}
	b.logger.Info("address book saved", "contacts", len(b.order))
	return nil
}

// LoadFrom replaces the address book with the content of store. If nothing has been saved yet
// the book is left unchanged.
func (b *AddressBook) LoadFrom(ctx context.Context, store storage.Store) (string, error) {
	doc, err := store.Load(ctx)
	if errors.Is(err, storage.ErrNoSavedBook) {
		return "No saved address book found.", nil
	}
	if err != nil {
		return "", err
	}
	b.Restore(doc)
	b.logger.Info("address book loaded", "contacts", len(b.order))
	return "Address book loaded successfully.", nil
}

// SaveToFile writes the address book to filename, overwriting it.
func (b *AddressBook) SaveToFile(filename string) error {
	return b.SaveTo(context.Background(), storage.NewFileStore(filename, b.logger))
}

// LoadFromFile replaces the address book with the content of filename.
func (b *AddressBook) LoadFromFile(filename string) (string, error) {
	return b.LoadFrom(context.Background(), storage.NewFileStore(filename, b.logger))
}
