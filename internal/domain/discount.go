package domain

import "time"

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFixed   DiscountType = "FIXED"
)

type DiscountStatus string

const (
	DiscountActive   DiscountStatus = "ACTIVE"
	DiscountInactive DiscountStatus = "INACTIVE"
	DiscountExpired  DiscountStatus = "EXPIRED"
	DiscountDisabled DiscountStatus = "DISABLED"
)

type DiscountCode struct {
	ID            int64          `json:"id"`
	Code          string         `json:"code" validate:"required"`
	Description   string         `json:"description,omitempty"`
	DiscountType  DiscountType   `json:"discount_type" validate:"required"`
	DiscountValue float64        `json:"discount_value" validate:"gt=0"`
	MaxDiscount   *float64       `json:"max_discount,omitempty"`
	MinPurchase   *float64       `json:"min_purchase,omitempty"`
	MinNights     *int           `json:"min_nights,omitempty"`
	MaxNights     *int           `json:"max_nights,omitempty"`
	UsageLimit    *int64         `json:"usage_limit,omitempty"`
	PerUserLimit  *int64         `json:"per_user_limit,omitempty"`
	StartDate     time.Time      `json:"start_date" validate:"required"`
	ExpiryDate    time.Time      `json:"expiry_date" validate:"required"`
	// Optional narrower redemption window, must nest inside [StartDate, ExpiryDate].
	ApplicableStartDate *time.Time     `json:"applicable_start_date,omitempty"`
	ApplicableEndDate   *time.Time     `json:"applicable_end_date,omitempty"`
	ApplicableHotels    []int64        `json:"applicable_hotels,omitempty"`
	ApplicableTypes     []int64        `json:"applicable_room_types,omitempty"`
	Status              DiscountStatus `json:"status"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

type PromotionType string

const (
	PromotionProvider PromotionType = "PROVIDER"
	PromotionSystem   PromotionType = "SYSTEM"
	PromotionBoth     PromotionType = "BOTH"
)

// Promotion is a hotel/room-type scoped discount not requiring a redemption code.
type Promotion struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name" validate:"required"`
	Type          PromotionType  `json:"type"`
	DiscountType  DiscountType   `json:"discount_type" validate:"required"`
	DiscountValue float64        `json:"discount_value" validate:"gt=0"`
	MaxDiscount   *float64       `json:"max_discount,omitempty"`
	MinPurchase   *float64       `json:"min_purchase,omitempty"`
	HotelIDs      []int64        `json:"hotel_ids,omitempty"`
	RoomTypeIDs   []int64        `json:"room_type_ids,omitempty"`
	StartDate     time.Time      `json:"start_date" validate:"required"`
	ExpiryDate    time.Time      `json:"expiry_date" validate:"required"`
	Status        DiscountStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// AppliesToHotel reports whether the promotion is scoped to the hotel.
// An empty restriction set means no restriction.
func (p *Promotion) AppliesToHotel(hotelID int64) bool {
	if len(p.HotelIDs) == 0 {
		return true
	}
	for _, id := range p.HotelIDs {
		if id == hotelID {
			return true
		}
	}
	return false
}

func (p *Promotion) AppliesToRoomType(roomTypeID int64) bool {
	if len(p.RoomTypeIDs) == 0 {
		return true
	}
	for _, id := range p.RoomTypeIDs {
		if id == roomTypeID {
			return true
		}
	}
	return false
}

// DiscountUsage is an append-only record that a code or promotion was
// applied to a booking. Usage/per-user limits count these rows.
type DiscountUsage struct {
	ID             int64     `json:"id"`
	BookingID      int64     `json:"booking_id"`
	AccountID      int64     `json:"account_id"`
	DiscountCodeID *int64    `json:"discount_code_id,omitempty"`
	PromotionID    *int64    `json:"promotion_id,omitempty"`
	Amount         float64   `json:"amount"`
	CreatedAt      time.Time `json:"created_at"`
}
