package domain

import "time"

type EmailKind string

const (
	EmailBookingConfirmed EmailKind = "BOOKING_CONFIRMED"
	EmailBookingCancelled EmailKind = "BOOKING_CANCELLED"
	EmailRefundIssued     EmailKind = "REFUND_ISSUED"
	EmailConfirmation     EmailKind = "BOOKING_CONFIRMATION_COPY"
)

// EmailMessage is an outbox row for an outbound transactional email.
// Delivery is best-effort and owned by whatever drains the outbox.
type EmailMessage struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	AccountID int64     `json:"account_id"`
	Kind      EmailKind `json:"kind"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
