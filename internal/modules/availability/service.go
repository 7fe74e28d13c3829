package availability

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/pricing"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const stayOverlapConstraint = "booking_room_stays_no_overlap"

type Service struct {
	stays  StayRepository
	rooms  RoomTypeReader
	promos PromotionLister
	prices *pricing.Engine
	log    *zap.Logger
}

func NewService(stays StayRepository, rooms RoomTypeReader, promos PromotionLister, prices *pricing.Engine, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{stays: stays, rooms: rooms, promos: promos, prices: prices, log: log}
}

// Nights returns the night count of the half-open range [in, out), or
// ErrInvalidDateRange for zero and negative stays.
func Nights(checkIn, checkOut time.Time) (int, error) {
	if !checkOut.After(checkIn) {
		return 0, ErrInvalidDateRange
	}
	n := int(checkOut.Sub(checkIn).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n, nil
}

// FindAvailable returns up to count free rooms of the given type for
// [checkIn, checkOut), each with its promotion-adjusted nightly price.
// Fewer rooms than requested, including none, is a valid result.
func (s *Service) FindAvailable(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time, count int) ([]domain.AvailableRoom, error) {
	if _, err := Nights(checkIn, checkOut); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 1
	}

	rt, err := s.rooms.GetRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.stays.FindFreeRooms(ctx, roomTypeID, checkIn, checkOut, count)
	if err != nil {
		return nil, err
	}

	promos, err := s.promos.ActiveAt(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	out := make([]domain.AvailableRoom, 0, len(rooms))
	for _, room := range rooms {
		nightly, promo := s.prices.NightlyPrice(rt.BasePrice, room.HotelID, roomTypeID, promos, time.Now().UTC())
		ar := domain.AvailableRoom{
			Room:         room,
			RoomTypeID:   roomTypeID,
			BasePrice:    rt.BasePrice,
			NightlyPrice: nightly,
		}
		if promo != nil {
			id := promo.ID
			ar.PromotionID = &id
			ar.PromotionName = promo.Name
		}
		out = append(out, ar)
	}
	return out, nil
}

type ReserveOptions struct {
	// SkipAvailabilityCheck bypasses the overlap check and marks the
	// stays overbooked. Explicit opt-in for manual admin bookings only.
	SkipAvailabilityCheck bool
	ActorID               int64
}

// Reserve inserts the stays, failing with ErrRoomNoLongerAvailable if
// any room is already taken for its range. Call inside a transaction:
// the room row locks plus the re-check close the window between a prior
// FindAvailable and this commit, and the partial overlap constraint in
// the schema backstops both.
func (s *Service) Reserve(ctx context.Context, stays []domain.RoomStay, opts ReserveOptions) ([]domain.RoomStay, error) {
	if len(stays) == 0 {
		return nil, ErrValidation
	}
	roomIDs := make([]int64, 0, len(stays))
	for i := range stays {
		if _, err := Nights(stays[i].CheckIn, stays[i].CheckOut); err != nil {
			return nil, err
		}
		// one reservation covers one date range
		if !stays[i].CheckIn.Equal(stays[0].CheckIn) || !stays[i].CheckOut.Equal(stays[0].CheckOut) {
			return nil, ErrValidation
		}
		roomIDs = append(roomIDs, stays[i].RoomID)
	}

	if opts.SkipAvailabilityCheck {
		s.log.Warn("availability check skipped",
			zap.Int64s("room_ids", roomIDs),
			zap.Int64("actor_id", opts.ActorID))
		for i := range stays {
			stays[i].Overbooked = true
		}
		return s.stays.Insert(ctx, stays)
	}

	if err := s.stays.LockRooms(ctx, roomIDs); err != nil {
		return nil, err
	}

	taken, err := s.stays.OverlappingRoomIDs(ctx, roomIDs, stays[0].CheckIn, stays[0].CheckOut)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, ErrRoomNoLongerAvailable
	}

	inserted, err := s.stays.Insert(ctx, stays)
	if err != nil {
		if isOverlapViolation(err) {
			return nil, ErrRoomNoLongerAvailable
		}
		return nil, err
	}
	return inserted, nil
}

// Release frees the rooms for the range. Releasing an already-free room
// is a no-op.
func (s *Service) Release(ctx context.Context, roomIDs []int64, checkIn, checkOut time.Time) error {
	if _, err := Nights(checkIn, checkOut); err != nil {
		return err
	}
	n, err := s.stays.Release(ctx, roomIDs, checkIn, checkOut)
	if err != nil {
		return err
	}
	s.log.Info("rooms released",
		zap.Int64s("room_ids", roomIDs),
		zap.Int64("stays_released", n))
	return nil
}

func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// 23505 unique_violation, 23P01 exclusion_violation
	if pgErr.Code != "23505" && pgErr.Code != "23P01" {
		return false
	}
	return pgErr.ConstraintName == stayOverlapConstraint || pgErr.ConstraintName == ""
}
