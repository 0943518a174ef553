package model

import "time"

// DocumentVersion is the version of the persisted address book format written by this module.
const DocumentVersion = 1

// Contact is the persisted form of a person that we know.
// The birthday is optional.
type Contact struct {
	Username string     `json:"username"           db:"username"`
	Phone    string     `json:"phone"              db:"phone"`
	Birthday *time.Time `json:"birthday,omitempty" db:"birthday"`
}

// Document is the versioned envelope of a saved address book. Contacts are kept in the order in
// which they were first added.
type Document struct {
	Version  int       `json:"version"`
	Contacts []Contact `json:"contacts"`
}
