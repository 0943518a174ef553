package addressbook

import "errors"

// The error kinds recognized at the address book boundary. Message turns each of them into a
// fixed text for the user.
var (
	ErrInvalidValue  = errors.New("invalid value")
	ErrArgumentCount = errors.New("wrong number of arguments")
	ErrNotFound      = errors.New("contact not found")
)

const (
	invalidValueMessage  = "Please enter valid data."
	argumentCountMessage = "Invalid number of arguments. Please check usage."
	notFoundMessage      = "Contact not found. Please check the name."
)

// Message maps the outcome of an address book operation to the text shown to the user. An error
// that is not one of the recognized kinds is returned unchanged so that the caller can abort.
func Message(result string, err error) (string, error) {
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, ErrInvalidValue):
		return invalidValueMessage, nil
	case errors.Is(err, ErrArgumentCount):
		return argumentCountMessage, nil
	case errors.Is(err, ErrNotFound):
		return notFoundMessage, nil
	default:
		return "", err
	}
}
