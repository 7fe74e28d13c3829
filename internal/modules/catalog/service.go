package catalog

import (
	"context"

	"hotelbooking/internal/domain"
)

// Reader covers the reference-data reads the catalog exposes. The
// booking core treats all of it as read-only.
type Reader interface {
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	GetHotel(ctx context.Context, id int64) (*domain.Hotel, error)
	ListRoomTypes(ctx context.Context, hotelID int64) ([]domain.RoomType, error)
	GetPolicySummary(ctx context.Context, hotelID int64) (*domain.PolicySummary, error)
}

type Service struct {
	rooms Reader
}

func NewService(rooms Reader) *Service {
	return &Service{rooms: rooms}
}

func (s *Service) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.rooms.ListHotels(ctx)
}

func (s *Service) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	return s.rooms.GetHotel(ctx, id)
}

func (s *Service) ListRoomTypes(ctx context.Context, hotelID int64) ([]domain.RoomType, error) {
	return s.rooms.ListRoomTypes(ctx, hotelID)
}

func (s *Service) HotelPolicies(ctx context.Context, hotelID int64) (*domain.PolicySummary, error) {
	if _, err := s.rooms.GetHotel(ctx, hotelID); err != nil {
		return nil, err
	}
	return s.rooms.GetPolicySummary(ctx, hotelID)
}
