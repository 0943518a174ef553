package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contacts-assistant/pkg/model"
)

// createMockObjects builds a mock database handle and a mock object for defining our expected SQL
// calls.
func createMockObjects(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return db, mock
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// TestSQLStoreSave saves two contacts. It expects that the table is cleared and both contacts
// are inserted in order within one transaction.
func TestSQLStoreSave(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM contacts").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("erika", 0, "+49 0815 4711", time.Date(1969, time.March, 2, 0, 0, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("rudi", 1, "+49 1234567890", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Run test and compare results
	store := NewSQLStore(db, nil)
	err := store.Save(context.Background(), model.Document{
		Version: model.DocumentVersion,
		Contacts: []model.Contact{
			{Username: "erika", Phone: "+49 0815 4711", Birthday: date(1969, time.March, 2)},
			{Username: "rudi", Phone: "+49 1234567890"},
		},
	})
	assert.NoError(t, err)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSQLStoreSaveFailure lets an insert fail. It expects the error to be returned and the
// transaction to be rolled back.
func TestSQLStoreSaveFailure(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM contacts").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO contacts").
		WillReturnError(errors.New("duplicate entry"))
	mock.ExpectRollback()

	// Run test and compare results
	store := NewSQLStore(db, nil)
	err := store.Save(context.Background(), model.Document{
		Contacts: []model.Contact{{Username: "erika", Phone: "0815"}},
	})
	assert.ErrorContains(t, err, "duplicate entry")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSQLStoreLoad selects the stored contacts. It expects them in position order, with a nil
// birthday where the column is NULL.
func TestSQLStoreLoad(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	rows := mock.NewRows([]string{"username", "position", "phone", "birthday"}).
		AddRow("aaron", 0, "+420 111", time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)).
		AddRow("berta", 1, "+420 222", nil)
	mock.ExpectQuery("SELECT (.+) FROM contacts").
		WillReturnRows(rows)

	// Run test and compare results
	store := NewSQLStore(db, nil)
	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DocumentVersion, doc.Version)
	require.Len(t, doc.Contacts, 2)
	assert.Equal(t, "aaron", doc.Contacts[0].Username)
	assert.Equal(t, "+420 111", doc.Contacts[0].Phone)
	require.NotNil(t, doc.Contacts[0].Birthday)
	assert.Equal(t, "1970-01-01", doc.Contacts[0].Birthday.Format("2006-01-02"))
	assert.Equal(t, "berta", doc.Contacts[1].Username)
	assert.Nil(t, doc.Contacts[1].Birthday)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSQLStoreLoadEmpty selects from an empty table. It expects ErrNoSavedBook.
func TestSQLStoreLoadEmpty(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM contacts").
		WillReturnRows(mock.NewRows([]string{"username", "position", "phone", "birthday"}))

	store := NewSQLStore(db, nil)
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSavedBook)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestDSN checks that the connection parameters end up in the data source name and that dates
// are parsed.
func TestDSN(t *testing.T) {
	dsn := DSN("dirk", "secret", "localhost:3306", "test")
	assert.Contains(t, dsn, "dirk:secret@tcp(localhost:3306)/test")
	assert.Contains(t, dsn, "parseTime=true")
}
