package repository

import (
	"context"
	"errors"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

// RoomRepository reads reference data: hotels, room types, rooms and
// per-room policies. The booking core never writes through it.
type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	var h domain.Hotel
	tx := conn(ctx, r.db).Table("hotels").First(&h, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return &h, nil
}

func (r *RoomRepository) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var rows []domain.Hotel
	tx := conn(ctx, r.db).Table("hotels").Order("id").Find(&rows)
	return rows, tx.Error
}

func (r *RoomRepository) GetRoomType(ctx context.Context, id int64) (*domain.RoomType, error) {
	var rt domain.RoomType
	tx := conn(ctx, r.db).Table("room_types").First(&rt, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return &rt, nil
}

func (r *RoomRepository) ListRoomTypes(ctx context.Context, hotelID int64) ([]domain.RoomType, error) {
	var rows []domain.RoomType
	tx := conn(ctx, r.db).Table("room_types").Where("hotel_id = ?", hotelID).Order("id").Find(&rows)
	return rows, tx.Error
}

func (r *RoomRepository) GetRoomsByIDs(ctx context.Context, ids []int64) ([]domain.Room, error) {
	var rows []domain.Room
	tx := conn(ctx, r.db).Table("rooms").Where("id IN ?", ids).Order("id").Find(&rows)
	return rows, tx.Error
}

// GetPolicySummary aggregates a hotel's room policy flags: a flag is set
// for the hotel when any of its rooms has it.
func (r *RoomRepository) GetPolicySummary(ctx context.Context, hotelID int64) (*domain.PolicySummary, error) {
	q := `
SELECT
  ? AS hotel_id,
  MAX(p.allows_smoking)  AS allows_smoking,
  MAX(p.allows_pets)     AS allows_pets,
  MAX(p.allows_children) AS allows_children,
  MAX(p.free_cancel)     AS free_cancel,
  MAX(p.breakfast_incl)  AS breakfast_incl
FROM room_policies p
JOIN rooms r ON r.id = p.room_id
WHERE r.hotel_id = ?
`
	var row struct {
		HotelID        int64
		AllowsSmoking  int
		AllowsPets     int
		AllowsChildren int
		FreeCancel     int
		BreakfastIncl  int
	}
	tx := conn(ctx, r.db).Raw(q, hotelID, hotelID).Scan(&row)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &domain.PolicySummary{
		HotelID:        hotelID,
		AllowsSmoking:  row.AllowsSmoking > 0,
		AllowsPets:     row.AllowsPets > 0,
		AllowsChildren: row.AllowsChildren > 0,
		FreeCancel:     row.FreeCancel > 0,
		BreakfastIncl:  row.BreakfastIncl > 0,
	}, nil
}
