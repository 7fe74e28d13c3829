package payment

import "errors"

var (
	ErrNotFound       = errors.New("payment not found")
	ErrValidation     = errors.New("validation error")
	ErrInvalidStatus  = errors.New("payment is not in the required status")
	ErrRefundExceeded = errors.New("refund amount exceeds the paid amount")
)
