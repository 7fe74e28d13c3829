package booking

import (
	"errors"
	"fmt"

	"hotelbooking/internal/domain"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// InvalidTransitionError names the current state and the attempted
// target so the admin UI can render a specific message.
type InvalidTransitionError struct {
	From domain.BookingStatus
	To   domain.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
