package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gitlab.com/dirk.krummacker/contacts-assistant/pkg/model"
)

// FileStore keeps the address book as an indented JSON document in a single file. The file is
// overwritten on every save.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore returns a store backed by the file at path. A nil logger discards log output.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileStore{path: path, logger: logger.With("store", "file", "path", path)}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes doc to the file, replacing its previous content.
func (s *FileStore) Save(_ context.Context, doc model.Document) error {
	if doc.Version == 0 {
		doc.Version = model.DocumentVersion
	}
	if doc.Contacts == nil {
		doc.Contacts = []model.Contact{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode address book: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write address book: %w", err)
	}
	s.logger.Debug("address book saved", "contacts", len(doc.Contacts))
	return nil
}

// Load reads the document from the file. A missing file yields ErrNoSavedBook.
func (s *FileStore) Load(_ context.Context) (model.Document, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Document{}, ErrNoSavedBook
		}
		return model.Document{}, fmt.Errorf("read address book: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return model.Document{}, fmt.Errorf("decode address book %s: %w", s.path, err)
	}
	if doc.Version != model.DocumentVersion {
		return model.Document{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	s.logger.Debug("address book loaded", "contacts", len(doc.Contacts))
	return doc, nil
}
