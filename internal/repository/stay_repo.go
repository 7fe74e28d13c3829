package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StayRepository owns the booking_room_stays table, which doubles as the
// room/date-range availability ledger.
type StayRepository struct {
	db *gorm.DB
}

func NewStayRepository(db *gorm.DB) *StayRepository {
	return &StayRepository{db: db}
}

type stayModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	BookingID     int64      `gorm:"column:booking_id"`
	RoomID        int64      `gorm:"column:room_id"`
	RoomTypeID    int64      `gorm:"column:room_type_id"`
	CheckIn       time.Time  `gorm:"column:check_in"`
	CheckOut      time.Time  `gorm:"column:check_out"`
	PricePerNight float64    `gorm:"column:price_per_night"`
	NightsCount   int        `gorm:"column:nights_count"`
	TotalPrice    float64    `gorm:"column:total_price"`
	Capacity      int        `gorm:"column:capacity"`
	Overbooked    bool       `gorm:"column:overbooked"`
	ReleasedAt    *time.Time `gorm:"column:released_at"`
}

func (stayModel) TableName() string { return "booking_room_stays" }

func toDomainStay(m stayModel) domain.RoomStay {
	return domain.RoomStay{
		ID:            m.ID,
		BookingID:     m.BookingID,
		RoomID:        m.RoomID,
		RoomTypeID:    m.RoomTypeID,
		CheckIn:       m.CheckIn,
		CheckOut:      m.CheckOut,
		PricePerNight: m.PricePerNight,
		NightsCount:   m.NightsCount,
		TotalPrice:    m.TotalPrice,
		Capacity:      m.Capacity,
		Overbooked:    m.Overbooked,
		ReleasedAt:    m.ReleasedAt,
	}
}

func toStayModel(s domain.RoomStay) stayModel {
	return stayModel{
		ID:            s.ID,
		BookingID:     s.BookingID,
		RoomID:        s.RoomID,
		RoomTypeID:    s.RoomTypeID,
		CheckIn:       s.CheckIn,
		CheckOut:      s.CheckOut,
		PricePerNight: s.PricePerNight,
		NightsCount:   s.NightsCount,
		TotalPrice:    s.TotalPrice,
		Capacity:      s.Capacity,
		Overbooked:    s.Overbooked,
		ReleasedAt:    s.ReleasedAt,
	}
}

func (r *StayRepository) Insert(ctx context.Context, stays []domain.RoomStay) ([]domain.RoomStay, error) {
	models := make([]stayModel, 0, len(stays))
	for _, s := range stays {
		models = append(models, toStayModel(s))
	}
	if tx := conn(ctx, r.db).Create(&models); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.RoomStay, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainStay(m))
	}
	return out, nil
}

func (r *StayRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.RoomStay, error) {
	var rows []stayModel
	tx := conn(ctx, r.db).Where("booking_id = ?", bookingID).Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.RoomStay, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainStay(m))
	}
	return out, nil
}

// LockRooms takes row locks on the given rooms so concurrent reserve
// attempts for the same rooms serialize. Meaningful only inside a
// transaction; outside one it degrades to a plain read.
func (r *StayRepository) LockRooms(ctx context.Context, roomIDs []int64) error {
	var ids []int64
	tx := conn(ctx, r.db).
		Table("rooms").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", roomIDs).
		Pluck("id", &ids)
	return tx.Error
}

// OverlappingRoomIDs returns the subset of roomIDs that already have a
// live stay intersecting the half-open range [checkIn, checkOut).
func (r *StayRepository) OverlappingRoomIDs(ctx context.Context, roomIDs []int64, checkIn, checkOut time.Time) ([]int64, error) {
	var ids []int64
	q := `
SELECT DISTINCT s.room_id
FROM booking_room_stays s
JOIN bookings b ON b.id = s.booking_id
WHERE s.room_id IN ?
  AND s.released_at IS NULL
  AND b.status <> 'CANCELLED'
  AND s.check_in < ?
  AND s.check_out > ?
`
	tx := conn(ctx, r.db).Raw(q, roomIDs, checkOut, checkIn).Scan(&ids)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return ids, nil
}

// FindFreeRooms returns up to limit active rooms of the given type with
// no live stay intersecting [checkIn, checkOut).
func (r *StayRepository) FindFreeRooms(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time, limit int) ([]domain.Room, error) {
	q := `
SELECT r.id, r.hotel_id, r.room_type_id, r.number, r.floor, r.active
FROM rooms r
WHERE r.room_type_id = ?
  AND r.active
  AND NOT EXISTS (
    SELECT 1
    FROM booking_room_stays s
    JOIN bookings b ON b.id = s.booking_id
    WHERE s.room_id = r.id
      AND s.released_at IS NULL
      AND b.status <> 'CANCELLED'
      AND s.check_in < ?
      AND s.check_out > ?
  )
ORDER BY r.id
LIMIT ?
`
	var rows []domain.Room
	tx := conn(ctx, r.db).Raw(q, roomTypeID, checkOut, checkIn, limit).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// Release frees the given rooms for the range by stamping released_at.
// Already-released stays are untouched, so the call is idempotent.
func (r *StayRepository) Release(ctx context.Context, roomIDs []int64, checkIn, checkOut time.Time) (int64, error) {
	tx := conn(ctx, r.db).Model(&stayModel{}).
		Where("room_id IN ? AND released_at IS NULL AND check_in < ? AND check_out > ?",
			roomIDs, checkOut, checkIn).
		Update("released_at", time.Now().UTC())
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

// ReleaseByBooking frees every live stay of a booking (cancellation path).
func (r *StayRepository) ReleaseByBooking(ctx context.Context, bookingID int64) (int64, error) {
	tx := conn(ctx, r.db).Model(&stayModel{}).
		Where("booking_id = ? AND released_at IS NULL", bookingID).
		Update("released_at", time.Now().UTC())
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
