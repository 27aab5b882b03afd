package conduit

import (
	"fmt"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const bioMaxLength = 140

// NewUser is a registration input that passed domain validation: parsed
// username and email, digested password.
type NewUser struct {
	Username Username
	Email    EmailAddress
	Password PasswordDigest
}

// NewUserFromInput validates the raw registration fields. The password is
// checked for emptiness before the digest is computed.
func NewUserFromInput(username, email, password string) (*NewUser, error) {
	name, err := ParseUsername(username)
	if err != nil {
		return nil, err
	}

	addr, err := ParseEmail(email)
	if err != nil {
		return nil, err
	}

	if password == "" {
		return nil, ErrNoEmptyString
	}

	return &NewUser{
		Username: name,
		Email:    addr,
		Password: ComputePasswordDigest(password),
	}, nil
}

// LoginUser is a login input that passed domain validation.
type LoginUser struct {
	Email    EmailAddress
	Password PasswordDigest
}

// LoginUserFromInput validates the raw login fields.
func LoginUserFromInput(email, password string) (*LoginUser, error) {
	addr, err := ParseEmail(email)
	if err != nil {
		return nil, err
	}

	if password == "" {
		return nil, ErrNoEmptyString
	}

	return &LoginUser{
		Email:    addr,
		Password: ComputePasswordDigest(password),
	}, nil
}

// UpdateUserInput carries the optional raw fields of a profile update.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Bio      *string
	Image    *string
}

// UpdateUser is a profile update that passed domain validation. Zero-value
// fields (nil for Bio/Image) were absent from the input.
type UpdateUser struct {
	Username Username
	Email    EmailAddress
	Password PasswordDigest
	Bio      *string
	Image    *string
}

// IsEmpty reports whether the update carries no field at all.
func (u *UpdateUser) IsEmpty() bool {
	return u.Username.IsZero() &&
		u.Email.IsZero() &&
		u.Password.IsZero() &&
		u.Bio == nil &&
		u.Image == nil
}

// UpdateUserFromInput validates every field that is present; absent fields
// stay zero-valued on the result.
func UpdateUserFromInput(in UpdateUserInput) (*UpdateUser, error) {
	update := &UpdateUser{}

	if in.Username != nil {
		name, err := ParseUsername(*in.Username)
		if err != nil {
			return nil, err
		}
		update.Username = name
	}

	if in.Email != nil {
		addr, err := ParseEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		update.Email = addr
	}

	if in.Password != nil {
		if *in.Password == "" {
			return nil, ErrNoEmptyString
		}
		update.Password = ComputePasswordDigest(*in.Password)
	}

	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > bioMaxLength {
			return nil, validationError("The bio is too long! (140 chars max.)")
		}
		update.Bio = in.Bio
	}

	if in.Image != nil {
		if err := validation.Validate(*in.Image, validation.Required, is.URL); err != nil {
			return nil, validationError(fmt.Sprintf("%s is not a valid URI!", *in.Image))
		}
		update.Image = in.Image
	}

	return update, nil
}
