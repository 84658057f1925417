package apperrors

import "errors"

var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrSoldOut is a normal negative outcome, not an infrastructure fault.
	ErrSoldOut = errors.New("no seats available")

	ErrBookingDenied        = errors.New("booking denied")
	ErrForbidden            = errors.New("booking belongs to another user")
	ErrAlreadyCancelled     = errors.New("booking already cancelled")
	ErrPersistenceFailed    = errors.New("persistence failed")
	ErrUserResolutionFailed = errors.New("user could not be resolved")

	ErrFlightExists = errors.New("flight already exists")
	ErrInvalidInput = errors.New("invalid input")
)
