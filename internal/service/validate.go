package service

import (
	"errors"
	"strings"
)

// MaxProfilePictureSize is the largest accepted upload, in bytes.
const MaxProfilePictureSize = 1024 * 1024

// Validation errors. Their text is shown to the user as-is.
var (
	ErrNameRequired             = errors.New("task name is required")
	ErrCreatedRequired          = errors.New("creation date is required")
	ErrCompletionRequired       = errors.New("completion date is required")
	ErrCompletionBeforeCreation = errors.New("completion date cannot be earlier than creation date")

	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUserNameRequired = errors.New("name is required")
	ErrPasswordMismatch = errors.New("passwords do not match")

	ErrPictureTooLarge = errors.New("image size should be less than 1MB")
)

// Validate checks the task fields before they are sent.
// Checks run in form order and the first failure is returned.
func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.CreatedDate.IsZero() {
		return ErrCreatedRequired
	}
	if in.CompletionDate.IsZero() {
		return ErrCompletionRequired
	}
	if in.CompletionDate.Before(in.CreatedDate) {
		return ErrCompletionBeforeCreation
	}
	return nil
}

// Validate checks the login fields.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return ErrEmailRequired
	}
	if c.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// Validate checks the signup fields.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrUserNameRequired
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrEmailRequired
	}
	if r.Password == "" {
		return ErrPasswordRequired
	}
	if r.Password != r.PasswordConfirmation {
		return ErrPasswordMismatch
	}
	return nil
}

// ValidatePictureSize rejects uploads above MaxProfilePictureSize.
func ValidatePictureSize(size int64) error {
	if size > MaxProfilePictureSize {
		return ErrPictureTooLarge
	}
	return nil
}
