package conduit

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// EmailAddress holds a syntactically valid email address.
type EmailAddress struct {
	value string
}

// ParseEmail validates raw as an email address and wraps it. The offending
// input is carried in the rejection message.
func ParseEmail(raw string) (EmailAddress, error) {
	if err := validation.Validate(raw, validation.Required, is.Email); err != nil {
		return EmailAddress{}, validationError(fmt.Sprintf("%s is not a valid email.", raw))
	}

	return EmailAddress{value: raw}, nil
}

func (e EmailAddress) String() string {
	return e.value
}

// IsZero reports whether e is the zero value.
func (e EmailAddress) IsZero() bool {
	return e.value == ""
}
