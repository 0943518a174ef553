package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-assistant/pkg/model"
)

// DSN builds the MySQL data source name for the given connection parameters. Dates are parsed
// into time.Time values.
func DSN(user, password, host, dbname string) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = dbname
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// OpenMySQL opens a MySQL database handle. No connection is made until the handle is used.
func OpenMySQL(user, password, host, dbname string) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", DSN(user, password, host, dbname))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return sqlDB, nil
}

// SQLStore keeps the address book in the contacts table. The schema lives in
// scripts/database.sql.
type SQLStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// contactRow is a contacts table row. Position preserves the insertion order of the book.
type contactRow struct {
	model.Contact
	Position int `db:"position"`
}

// NewSQLStore wraps the given sql database with sqlx. The database argument can be a real
// database for production use or a mock database within unit tests.
func NewSQLStore(sqlDB *sql.DB, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLStore{db: sqlx.NewDb(sqlDB, "mysql"), logger: logger.With("store", "mysql")}
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Save replaces the content of the contacts table with doc inside a single transaction.
func (s *SQLStore) Save(ctx context.Context, doc model.Document) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("clear contacts: %w", err)
	}
	for i, c := range doc.Contacts {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO contacts (username, position, phone, birthday)
			VALUES (:username, :position, :phone, :birthday)
		`, contactRow{Contact: c, Position: i})
		if err != nil {
			return fmt.Errorf("insert contact %q: %w", c.Username, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("address book saved", "contacts", len(doc.Contacts))
	return nil
}

// Load reads all contacts ordered by position. An empty table yields ErrNoSavedBook.
func (s *SQLStore) Load(ctx context.Context) (model.Document, error) {
	var rows []contactRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT username, position, phone, birthday
		FROM contacts
		ORDER BY position ASC`)
	if err != nil {
		return model.Document{}, fmt.Errorf("select contacts: %w", err)
	}
	if len(rows) == 0 {
		return model.Document{}, ErrNoSavedBook
	}
	doc := model.Document{Version: model.DocumentVersion, Contacts: make([]model.Contact, 0, len(rows))}
	for _, r := range rows {
		doc.Contacts = append(doc.Contacts, r.Contact)
	}
	s.logger.Debug("address book loaded", "contacts", len(doc.Contacts))
	return doc, nil
}
