package booking

import (
	"time"

	"hotelbooking/internal/domain"
)

type CreateBookingRequest struct {
	AccountID       int64     `json:"account_id" binding:"required"`
	HotelID         int64     `json:"hotel_id" binding:"required"`
	RoomIDs         []int64   `json:"room_ids" binding:"required,min=1"`
	CheckIn         time.Time `json:"check_in" binding:"required"`
	CheckOut        time.Time `json:"check_out" binding:"required"`
	GuestsCount     int       `json:"guests_count" binding:"required,min=1"`
	PaymentMethod   string    `json:"payment_method" binding:"required,oneof=CARD CASH"`
	DiscountCode    string    `json:"discount_code"`
	SpecialRequests string    `json:"special_requests"`

	// Manual admin creation only: bypass the availability check and
	// permit intentional overbooking.
	SkipAvailabilityCheck bool  `json:"skip_availability_check"`
	ActorID               int64 `json:"-"`
}

type UpdateBookingRequest struct {
	SpecialRequests *string    `json:"special_requests"`
	CheckIn         *time.Time `json:"check_in"`
	CheckOut        *time.Time `json:"check_out"`
	ActorID         int64      `json:"-"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AddNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

type BookingDetail struct {
	Booking  *domain.Booking        `json:"booking"`
	Stays    []domain.RoomStay      `json:"stays"`
	Payments []domain.Payment       `json:"payments"`
	History  []domain.StatusHistory `json:"history"`
	Notes    []domain.BookingNote   `json:"notes"`
}

type ListResponse struct {
	Bookings []domain.Booking `json:"bookings"`
	Total    int64            `json:"total"`
}
