package availability

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
)

// StayRepository is the availability ledger: live room stays per
// room/date-range.
type StayRepository interface {
	FindFreeRooms(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time, limit int) ([]domain.Room, error)
	LockRooms(ctx context.Context, roomIDs []int64) error
	OverlappingRoomIDs(ctx context.Context, roomIDs []int64, checkIn, checkOut time.Time) ([]int64, error)
	Insert(ctx context.Context, stays []domain.RoomStay) ([]domain.RoomStay, error)
	Release(ctx context.Context, roomIDs []int64, checkIn, checkOut time.Time) (int64, error)
}

type RoomTypeReader interface {
	GetRoomType(ctx context.Context, id int64) (*domain.RoomType, error)
}

type PromotionLister interface {
	ActiveAt(ctx context.Context, now time.Time) ([]domain.Promotion, error)
}
