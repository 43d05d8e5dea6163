package domain

import "errors"

// Sentinel errors shared by repositories, services and the HTTP layer.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the actor has no rights over the target.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrVerification is returned when a payment notification signature does not match.
	ErrVerification = errors.New("signature verification failed")
	// ErrDuplicateCategory is returned when a category name is already taken.
	ErrDuplicateCategory = errors.New("category already exists")
)
