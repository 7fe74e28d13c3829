package domain

import "time"

type Hotel struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	CheckInTime  string    `json:"check_in_time,omitempty"`
	CheckOutTime string    `json:"check_out_time,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RoomType struct {
	ID           int64   `json:"id"`
	HotelID      int64   `json:"hotel_id"`
	Name         string  `json:"name" validate:"required"`
	Capacity     int     `json:"capacity"`
	BasePrice    float64 `json:"base_price" validate:"gte=0"`
	Description  string  `json:"description,omitempty" gorm:"type:text"`
}

type Room struct {
	ID         int64  `json:"id"`
	HotelID    int64  `json:"hotel_id"`
	RoomTypeID int64  `json:"room_type_id"`
	Number     string `json:"number" validate:"required"`
	Floor      int    `json:"floor,omitempty"`
	Active     bool   `json:"active"`
}

// AvailableRoom is a free room together with the nightly price the
// availability checker computed for it (base price plus promotion).
type AvailableRoom struct {
	Room          Room     `json:"room"`
	RoomTypeID    int64    `json:"room_type_id"`
	BasePrice     float64  `json:"base_price"`
	NightlyPrice  float64  `json:"nightly_price"`
	PromotionID   *int64   `json:"promotion_id,omitempty"`
	PromotionName string   `json:"promotion_name,omitempty"`
}

// RoomPolicy holds per-room boolean policy flags; policy summaries are
// aggregated with MAX() across a hotel's rooms.
type RoomPolicy struct {
	ID              int64 `json:"id"`
	RoomID          int64 `json:"room_id"`
	AllowsSmoking   bool  `json:"allows_smoking"`
	AllowsPets      bool  `json:"allows_pets"`
	AllowsChildren  bool  `json:"allows_children"`
	FreeCancel      bool  `json:"free_cancellation"`
	BreakfastIncl   bool  `json:"breakfast_included"`
}

// PolicySummary is the read-only aggregate over a hotel's room policies.
type PolicySummary struct {
	HotelID        int64 `json:"hotel_id"`
	AllowsSmoking  bool  `json:"allows_smoking"`
	AllowsPets     bool  `json:"allows_pets"`
	AllowsChildren bool  `json:"allows_children"`
	FreeCancel     bool  `json:"free_cancellation"`
	BreakfastIncl  bool  `json:"breakfast_included"`
}
