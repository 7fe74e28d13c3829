package domain

import "time"

type BookingStatus string

const (
	BookingCreated             BookingStatus = "CREATED"
	BookingPendingConfirmation BookingStatus = "PENDING_CONFIRMATION"
	BookingConfirmed           BookingStatus = "CONFIRMED"
	BookingCheckedIn           BookingStatus = "CHECKED_IN"
	BookingCheckedOut          BookingStatus = "CHECKED_OUT"
	BookingCompleted           BookingStatus = "COMPLETED"
	BookingCancelled           BookingStatus = "CANCELLED"
)

// Terminal reports whether no further transition is allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingCreated, BookingPendingConfirmation, BookingConfirmed,
		BookingCheckedIn, BookingCheckedOut, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "CARD"
	PaymentMethodCash PaymentMethod = "CASH"
)

type Booking struct {
	ID              int64         `json:"id"`
	Reference       string        `json:"reference"`
	AccountID       int64         `json:"account_id" validate:"required"`
	HotelID         int64         `json:"hotel_id" validate:"required"`
	Status          BookingStatus `json:"status"`
	GuestsCount     int           `json:"guests_count"`
	Subtotal        float64       `json:"subtotal"`
	TaxAmount       float64       `json:"tax_amount"`
	DiscountAmount  float64       `json:"discount_amount"`
	TotalAmount     float64       `json:"total_amount"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	RefundPending   bool          `json:"refund_pending"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	CancelReason    string        `json:"cancel_reason,omitempty"`

	Stays []RoomStay `json:"stays,omitempty"`
}

// RoomStay is one room's allocation within a booking. The set of
// non-released stays of non-cancelled bookings is the availability ledger.
type RoomStay struct {
	ID            int64      `json:"id"`
	BookingID     int64      `json:"booking_id"`
	RoomID        int64      `json:"room_id" validate:"required"`
	RoomTypeID    int64      `json:"room_type_id" validate:"required"`
	CheckIn       time.Time  `json:"check_in" validate:"required"`
	CheckOut      time.Time  `json:"check_out" validate:"required"`
	PricePerNight float64    `json:"price_per_night"`
	NightsCount   int        `json:"nights_count"`
	TotalPrice    float64    `json:"total_price"`
	Capacity      int        `json:"capacity"`
	Overbooked    bool       `json:"overbooked,omitempty"`
	ReleasedAt    *time.Time `json:"released_at,omitempty"`
}

// StatusHistory is an append-only audit record of a booking transition.
type StatusHistory struct {
	ID         int64         `json:"id"`
	BookingID  int64         `json:"booking_id"`
	FromStatus BookingStatus `json:"from_status"`
	ToStatus   BookingStatus `json:"to_status"`
	ActorID    int64         `json:"actor_id"`
	Note       string        `json:"note,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

type BookingNote struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	AuthorID  int64     `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
