package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// parseLayout accepts days and months with or without a leading zero, e.g. "5.1.1990".
const parseLayout = "2.1.2006"

// displayLayout is the DD.MM.YYYY format used whenever a birthday is shown to the user.
const displayLayout = "02.01.2006"

// ErrDateFormat is returned when a birthday text cannot be parsed.
var ErrDateFormat = errors.New("data format error")

// Birthday is a calendar date without a time component. It is immutable once constructed.
type Birthday struct {
	date time.Time
}

// ParseBirthday constructs a Birthday from text in DD.MM.YYYY format. Day and month values must
// be valid for the given year.
func ParseBirthday(text string) (Birthday, error) {
	t, err := time.Parse(parseLayout, strings.TrimSpace(text))
	if err != nil {
		return Birthday{}, fmt.Errorf("%w: %q: %v", ErrDateFormat, text, err)
	}
	if t.Year() < 1 {
		return Birthday{}, fmt.Errorf("%w: %q: year out of range", ErrDateFormat, text)
	}
	return Birthday{date: t}, nil
}

// BirthdayFromTime returns the Birthday falling on the calendar date of t.
func BirthdayFromTime(t time.Time) Birthday {
	y, m, d := t.Date()
	return Birthday{date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Date returns the birthday as a time at UTC midnight.
func (b Birthday) Date() time.Time {
	return b.date
}

// Equal reports whether both birthdays fall on the same date.
func (b Birthday) Equal(other Birthday) bool {
	return b.date.Equal(other.date)
}

func (b Birthday) String() string {
	return b.date.Format(displayLayout)
}

// Record holds the data for one contact. Records are owned by the address book and mutated in
// place.
type Record struct {
	Phone    string
	Birthday *Birthday
}

// NewRecord creates a record with the given phone and no birthday.
func NewRecord(phone string) *Record {
	return &Record{Phone: phone}
}

// AddBirthday parses text into a Birthday and sets it on the record, replacing any previous one.
// On a parse error the record is left unchanged.
func (r *Record) AddBirthday(text string) (string, error) {
	b, err := ParseBirthday(text)
	if err != nil {
		return "", err
	}
	r.Birthday = &b
	return "Birthday added.", nil
}
