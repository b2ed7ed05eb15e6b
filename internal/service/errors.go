package service

import "errors"

var (
	// ErrInvalidStatus is returned for a status outside the pipeline stages.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidPhone is returned when a phone number cannot be normalised.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrInvalidCredentials is returned when no tenant matches the login phone.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmptyMessage is returned when sending a blank message.
	ErrEmptyMessage = errors.New("message text must not be empty")
	// ErrInvalidURL is returned for a gateway URL without a valid host.
	ErrInvalidURL = errors.New("invalid gateway url")
	// ErrMissingField is returned when a required input field is blank.
	ErrMissingField = errors.New("required field missing")
)
