package domain

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentSuccess  PaymentStatus = "SUCCESS"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type Payment struct {
	ID        int64         `json:"id"`
	BookingID int64         `json:"booking_id" validate:"required"`
	Amount    float64       `json:"amount" validate:"gte=0"`
	Status    PaymentStatus `json:"status"`
	Method    PaymentMethod `json:"method"`
	// RefundOfID links a REFUNDED row to the SUCCESS payment it reverses.
	RefundOfID *int64    `json:"refund_of_id,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
