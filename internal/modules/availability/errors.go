package availability

import "errors"

var (
	ErrInvalidDateRange      = errors.New("invalid date range")
	ErrRoomNoLongerAvailable = errors.New("room no longer available")
	ErrValidation            = errors.New("validation error")
)
