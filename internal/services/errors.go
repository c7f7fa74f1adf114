package services

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRequest     = errors.New("malformed request")
	ErrInvalidBooking       = errors.New("invalid booking")
	ErrPersistence          = errors.New("database error")
	ErrNotification         = errors.New("notification failed")
	ErrNotificationDisabled = fmt.Errorf("%w: RESEND_API_KEY not set", ErrNotification)
	ErrBookingNotFound      = errors.New("booking not found")
	ErrUnauthenticated      = errors.New("authentication required")
)

// ValidationError carries per-field messages for an invalid booking.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ErrInvalidBooking.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidBooking
}
