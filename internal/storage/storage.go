// Package storage persists address books. A Store writes and reads the whole book at once, as a
// pkg/model.Document.
package storage

import (
	"context"
	"errors"

	"gitlab.com/dirk.krummacker/contacts-assistant/pkg/model"
)

// ErrNoSavedBook is returned by Load when nothing has been saved yet.
var ErrNoSavedBook = errors.New("no saved address book")

// ErrUnsupportedVersion is returned by Load when the saved document has an unknown version.
var ErrUnsupportedVersion = errors.New("unsupported address book version")

// Store is a persistence backend for an address book.
type Store interface {
	// Save replaces the stored address book with doc.
	Save(ctx context.Context, doc model.Document) error
	// Load returns the stored address book, or ErrNoSavedBook.
	Load(ctx context.Context) (model.Document, error)
}
