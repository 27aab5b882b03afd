package conduit

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Username holds a validated username. A valid username is non-empty, at
// most 60 characters long, and contains only ASCII alphanumeric characters
// and underscores. The only way to obtain one is ParseUsername.
type Username struct {
	value string
}

const usernameMaxLength = 60

var usernameCharset = validation.Match(usernamePattern)

// ParseUsername validates raw and returns it as a Username, preserving the
// original casing. Only emptiness is checked against the trimmed input;
// internal whitespace is rejected by the character-set rule, not stripped.
func ParseUsername(raw string) (Username, error) {
	if strings.TrimSpace(raw) == "" {
		return Username{}, validationError("An username cannot be empty.")
	}

	if utf8.RuneCountInString(raw) > usernameMaxLength {
		return Username{}, validationError(fmt.Sprintf("%s is not a valid username.", raw))
	}

	if err := validation.Validate(raw, usernameCharset); err != nil {
		return Username{}, validationError(fmt.Sprintf("%s is not a valid username.", raw))
	}

	return Username{value: raw}, nil
}

func (u Username) String() string {
	return u.value
}

// IsZero reports whether u is the zero value, i.e. not produced by
// ParseUsername.
func (u Username) IsZero() bool {
	return u.value == ""
}
