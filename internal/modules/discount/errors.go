package discount

import "errors"

var (
	ErrNotFound   = errors.New("discount not found")
	ErrValidation = errors.New("validation error")
	ErrDuplicate  = errors.New("code already exists")
)
