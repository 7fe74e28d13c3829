package availability

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/pricing"
)

type MockStayRepository struct {
	mock.Mock
}

func (m *MockStayRepository) FindFreeRooms(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time, limit int) ([]domain.Room, error) {
	args := m.Called(ctx, roomTypeID, checkIn, checkOut, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockStayRepository) LockRooms(ctx context.Context, roomIDs []int64) error {
	args := m.Called(ctx, roomIDs)
	return args.Error(0)
}

func (m *MockStayRepository) OverlappingRoomIDs(ctx context.Context, roomIDs []int64, checkIn, checkOut time.Time) ([]int64, error) {
	args := m.Called(ctx, roomIDs, checkIn, checkOut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStayRepository) Insert(ctx context.Context, stays []domain.RoomStay) ([]domain.RoomStay, error) {
	args := m.Called(ctx, stays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RoomStay), args.Error(1)
}

func (m *MockStayRepository) Release(ctx context.Context, roomIDs []int64, checkIn, checkOut time.Time) (int64, error) {
	args := m.Called(ctx, roomIDs, checkIn, checkOut)
	return args.Get(0).(int64), args.Error(1)
}

type MockRoomTypeReader struct {
	mock.Mock
}

func (m *MockRoomTypeReader) GetRoomType(ctx context.Context, id int64) (*domain.RoomType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomType), args.Error(1)
}

type MockPromotionLister struct {
	mock.Mock
}

func (m *MockPromotionLister) ActiveAt(ctx context.Context, now time.Time) ([]domain.Promotion, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Promotion), args.Error(1)
}

func newTestService(stays *MockStayRepository, rooms *MockRoomTypeReader, promos *MockPromotionLister) *Service {
	return NewService(stays, rooms, promos, pricing.NewEngine(0.1), nil)
}

var (
	checkIn  = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	checkOut = time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
)

func TestNights(t *testing.T) {
	n, err := Nights(checkIn, checkOut)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNights_ZeroNightStay(t *testing.T) {
	_, err := Nights(checkIn, checkIn)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestNights_Inverted(t *testing.T) {
	_, err := Nights(checkOut, checkIn)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestFindAvailable_Success(t *testing.T) {
	stays := new(MockStayRepository)
	rooms := new(MockRoomTypeReader)
	promos := new(MockPromotionLister)

	rooms.On("GetRoomType", mock.Anything, int64(7)).Return(&domain.RoomType{ID: 7, HotelID: 3, BasePrice: 2000, Capacity: 2}, nil)
	stays.On("FindFreeRooms", mock.Anything, int64(7), checkIn, checkOut, 2).Return([]domain.Room{
		{ID: 11, HotelID: 3, RoomTypeID: 7},
		{ID: 12, HotelID: 3, RoomTypeID: 7},
	}, nil)
	promos.On("ActiveAt", mock.Anything, mock.Anything).Return([]domain.Promotion{}, nil)

	service := newTestService(stays, rooms, promos)
	out, err := service.FindAvailable(context.Background(), 7, checkIn, checkOut, 2)

	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 2000.0, out[0].NightlyPrice)
	assert.Nil(t, out[0].PromotionID)
}

func TestFindAvailable_InvalidRangeFailsBeforeQuerying(t *testing.T) {
	stays := new(MockStayRepository)
	rooms := new(MockRoomTypeReader)
	promos := new(MockPromotionLister)

	service := newTestService(stays, rooms, promos)
	_, err := service.FindAvailable(context.Background(), 7, checkIn, checkIn, 1)

	assert.ErrorIs(t, err, ErrInvalidDateRange)
	stays.AssertNotCalled(t, "FindFreeRooms", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFindAvailable_NoRoomsIsNotAnError(t *testing.T) {
	stays := new(MockStayRepository)
	rooms := new(MockRoomTypeReader)
	promos := new(MockPromotionLister)

	rooms.On("GetRoomType", mock.Anything, int64(7)).Return(&domain.RoomType{ID: 7, HotelID: 3, BasePrice: 2000}, nil)
	stays.On("FindFreeRooms", mock.Anything, int64(7), checkIn, checkOut, 1).Return([]domain.Room{}, nil)
	promos.On("ActiveAt", mock.Anything, mock.Anything).Return([]domain.Promotion{}, nil)

	service := newTestService(stays, rooms, promos)
	out, err := service.FindAvailable(context.Background(), 7, checkIn, checkOut, 1)

	assert.NoError(t, err)
	assert.Empty(t, out)
}

func testStays() []domain.RoomStay {
	return []domain.RoomStay{
		{BookingID: 1, RoomID: 11, RoomTypeID: 7, CheckIn: checkIn, CheckOut: checkOut, PricePerNight: 2000, NightsCount: 3},
	}
}

func TestReserve_Success(t *testing.T) {
	stays := new(MockStayRepository)
	rooms := new(MockRoomTypeReader)
	promos := new(MockPromotionLister)

	stays.On("LockRooms", mock.Anything, []int64{11}).Return(nil)
	stays.On("OverlappingRoomIDs", mock.Anything, []int64{11}, checkIn, checkOut).Return([]int64{}, nil)
	stays.On("Insert", mock.Anything, mock.Anything).Return(testStays(), nil)

	service := newTestService(stays, rooms, promos)
	out, err := service.Reserve(context.Background(), testStays(), ReserveOptions{})

	assert.NoError(t, err)
	assert.Len(t, out, 1)
	stays.AssertExpectations(t)
}

func TestReserve_RoomTaken(t *testing.T) {
	stays := new(MockStayRepository)
	rooms := new(MockRoomTypeReader)
	promos := new(MockPromotionLister)

	stays.On("LockRooms", mock.Anything, []int64{11}).Return(nil)
	stays.On("OverlappingRoomIDs", mock.Anything, []int64{11}, checkIn, checkOut).Return([]int64{11}, nil)

	service := newTestService(stays, rooms, promos)
	_, err := service.Reserve(context.Background(), testStays(), ReserveOptions{})

	assert.ErrorIs(t, err, ErrRoomNoLongerAvailable)
	stays.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestReserve_ConstraintRace(t *testing.T) {
	stays := new(MockStayRepository)
	rooms := new(MockRoomTypeReader)
	promos := new(MockPromotionLister)

	// the overlap check passes but a concurrent insert wins the race and
	// the exclusion constraint fires
	stays.On("LockRooms", mock.Anything, []int64{11}).Return(nil)
	stays.On("OverlappingRoomIDs", mock.Anything, []int64{11}, checkIn, checkOut).Return([]int64{}, nil)
	stays.On("Insert", mock.Anything, mock.Anything).Return(nil, &pgconn.PgError{
		Code:           "23P01",
		ConstraintName: "booking_room_stays_no_overlap",
	})

	service := newTestService(stays, rooms, promos)
	_, err := service.Reserve(context.Background(), testStays(), ReserveOptions{})

	assert.ErrorIs(t, err, ErrRoomNoLongerAvailable)
}

func TestReserve_SkipCheckMarksOverbooked(t *testing.T) {
	stays := new(MockStayRepository)
	rooms := new(MockRoomTypeReader)
	promos := new(MockPromotionLister)

	stays.On("Insert", mock.Anything, mock.MatchedBy(func(ss []domain.RoomStay) bool {
		return len(ss) == 1 && ss[0].Overbooked
	})).Return(testStays(), nil)

	service := newTestService(stays, rooms, promos)
	_, err := service.Reserve(context.Background(), testStays(), ReserveOptions{SkipAvailabilityCheck: true, ActorID: 2})

	assert.NoError(t, err)
	stays.AssertNotCalled(t, "LockRooms", mock.Anything, mock.Anything)
	stays.AssertNotCalled(t, "OverlappingRoomIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReserve_MixedDateRangesRejected(t *testing.T) {
	stays := new(MockStayRepository)
	rooms := new(MockRoomTypeReader)
	promos := new(MockPromotionLister)

	mixed := []domain.RoomStay{
		{RoomID: 11, CheckIn: checkIn, CheckOut: checkOut},
		{RoomID: 12, CheckIn: checkIn.AddDate(0, 0, 1), CheckOut: checkOut},
	}

	service := newTestService(stays, rooms, promos)
	_, err := service.Reserve(context.Background(), mixed, ReserveOptions{})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestReserve_Empty(t *testing.T) {
	service := newTestService(new(MockStayRepository), new(MockRoomTypeReader), new(MockPromotionLister))
	_, err := service.Reserve(context.Background(), nil, ReserveOptions{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRelease_Idempotent(t *testing.T) {
	stays := new(MockStayRepository)
	rooms := new(MockRoomTypeReader)
	promos := new(MockPromotionLister)

	// nothing matched: already released
	stays.On("Release", mock.Anything, []int64{11}, checkIn, checkOut).Return(int64(0), nil)

	service := newTestService(stays, rooms, promos)
	err := service.Release(context.Background(), []int64{11}, checkIn, checkOut)

	assert.NoError(t, err)
}

func TestRelease_InvalidRange(t *testing.T) {
	service := newTestService(new(MockStayRepository), new(MockRoomTypeReader), new(MockPromotionLister))
	err := service.Release(context.Background(), []int64{11}, checkOut, checkIn)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
