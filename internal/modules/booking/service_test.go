package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/availability"
	"hotelbooking/internal/modules/pricing"
	"hotelbooking/internal/repository"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) MarkCancelled(ctx context.Context, id int64, from domain.BookingStatus, reason string, refundPending bool) (bool, error) {
	args := m.Called(ctx, id, from, reason, refundPending)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) UpdateDetails(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

type MockReserver struct {
	mock.Mock
}

func (m *MockReserver) Reserve(ctx context.Context, stays []domain.RoomStay, opts availability.ReserveOptions) ([]domain.RoomStay, error) {
	args := m.Called(ctx, stays, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RoomStay), args.Error(1)
}

type MockStayReader struct {
	mock.Mock
}

func (m *MockStayReader) ListByBooking(ctx context.Context, bookingID int64) ([]domain.RoomStay, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RoomStay), args.Error(1)
}

func (m *MockStayReader) ReleaseByBooking(ctx context.Context, bookingID int64) (int64, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRoomReader struct {
	mock.Mock
}

func (m *MockRoomReader) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *MockRoomReader) GetRoomType(ctx context.Context, id int64) (*domain.RoomType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomType), args.Error(1)
}

func (m *MockRoomReader) GetRoomsByIDs(ctx context.Context, ids []int64) ([]domain.Room, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

type MockDiscountReader struct {
	mock.Mock
}

func (m *MockDiscountReader) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiscountCode), args.Error(1)
}

func (m *MockDiscountReader) GetByID(ctx context.Context, id int64) (*domain.DiscountCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiscountCode), args.Error(1)
}

func (m *MockDiscountReader) LockCode(ctx context.Context, codeID int64) error {
	args := m.Called(ctx, codeID)
	return args.Error(0)
}

func (m *MockDiscountReader) CountUsage(ctx context.Context, codeID int64) (int64, error) {
	args := m.Called(ctx, codeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDiscountReader) CountUsageByAccount(ctx context.Context, codeID, accountID int64) (int64, error) {
	args := m.Called(ctx, codeID, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDiscountReader) CreateUsage(ctx context.Context, u *domain.DiscountUsage) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockDiscountReader) GetUsageByBooking(ctx context.Context, bookingID int64) (*domain.DiscountUsage, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiscountUsage), args.Error(1)
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

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, h *domain.StatusHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.StatusHistory, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.StatusHistory), args.Error(1)
}

func (m *MockHistoryRepository) AddNote(ctx context.Context, n *domain.BookingNote) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListNotes(ctx context.Context, bookingID int64) ([]domain.BookingNote, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.BookingNote), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) BookingConfirmed(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockNotificationSender) BookingCancelled(ctx context.Context, b *domain.Booking, reason string) error {
	args := m.Called(ctx, b, reason)
	return args.Error(0)
}

func (m *MockNotificationSender) ConfirmationEmail(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// fakeTx runs the function directly; transactional behavior belongs to
// the repository layer.
type fakeTx struct{}

func (fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	bookings  *MockBookingRepository
	stays     *MockStayReader
	reserver  *MockReserver
	rooms     *MockRoomReader
	discounts *MockDiscountReader
	promos    *MockPromotionLister
	payments  *MockPaymentRepository
	history   *MockHistoryRepository
	notifs    *MockNotificationSender
	service   *Service
}

func newFixture() *fixture {
	f := &fixture{
		bookings:  new(MockBookingRepository),
		stays:     new(MockStayReader),
		reserver:  new(MockReserver),
		rooms:     new(MockRoomReader),
		discounts: new(MockDiscountReader),
		promos:    new(MockPromotionLister),
		payments:  new(MockPaymentRepository),
		history:   new(MockHistoryRepository),
		notifs:    new(MockNotificationSender),
	}
	f.service = NewService(
		f.bookings, f.stays, f.reserver, f.rooms, f.discounts, f.promos,
		f.payments, f.history, pricing.NewEngine(0.1), f.notifs, fakeTx{}, nil,
	)
	return f
}

var (
	checkIn  = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	checkOut = time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC)
)

func validRequest() CreateBookingRequest {
	return CreateBookingRequest{
		AccountID:     8,
		HotelID:       3,
		RoomIDs:       []int64{11},
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		GuestsCount:   2,
		PaymentMethod: "CARD",
	}
}

func (f *fixture) expectRoomLookups() {
	f.rooms.On("GetHotel", mock.Anything, int64(3)).Return(&domain.Hotel{ID: 3, Name: "Grand"}, nil)
	f.rooms.On("GetRoomsByIDs", mock.Anything, []int64{11}).Return([]domain.Room{{ID: 11, HotelID: 3, RoomTypeID: 7}}, nil)
	f.rooms.On("GetRoomType", mock.Anything, int64(7)).Return(&domain.RoomType{ID: 7, HotelID: 3, BasePrice: 1500, Capacity: 2}, nil)
}

func TestService_CreateBooking_Success(t *testing.T) {
	f := newFixture()
	f.expectRoomLookups()
	f.promos.On("ActiveAt", mock.Anything, mock.Anything).Return([]domain.Promotion{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.reserver.On("Reserve", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RoomStay{{ID: 1, BookingID: 999, RoomID: 11}}, nil)
	f.payments.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.BookingID == 999 && p.Status == domain.PaymentPending && p.Amount == 3300.0
	})).Return(nil)

	b, err := f.service.CreateBooking(context.Background(), validRequest())

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCreated, b.Status)
	assert.Equal(t, 3000.0, b.Subtotal)
	assert.Equal(t, 300.0, b.TaxAmount)
	assert.Equal(t, 3300.0, b.TotalAmount)
	assert.NotEmpty(t, b.Reference)
	f.payments.AssertExpectations(t)
}

func TestService_CreateBooking_InvalidDates(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.CheckOut = req.CheckIn

	_, err := f.service.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, availability.ErrInvalidDateRange)
}

func TestService_CreateBooking_RoomFromAnotherHotel(t *testing.T) {
	f := newFixture()
	f.rooms.On("GetHotel", mock.Anything, int64(3)).Return(&domain.Hotel{ID: 3}, nil)
	f.rooms.On("GetRoomsByIDs", mock.Anything, []int64{11}).Return([]domain.Room{{ID: 11, HotelID: 4, RoomTypeID: 7}}, nil)

	_, err := f.service.CreateBooking(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateBooking_UnknownDiscountCode(t *testing.T) {
	f := newFixture()
	f.expectRoomLookups()
	f.discounts.On("GetByCode", mock.Anything, "NOPE").Return(nil, repository.ErrNotFound)

	req := validRequest()
	req.DiscountCode = "NOPE"

	_, err := f.service.CreateBooking(context.Background(), req)

	assert.ErrorIs(t, err, pricing.ErrDiscountIneligible)
}

func TestService_CreateBooking_RoomRace(t *testing.T) {
	f := newFixture()
	f.expectRoomLookups()
	f.promos.On("ActiveAt", mock.Anything, mock.Anything).Return([]domain.Promotion{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.reserver.On("Reserve", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, availability.ErrRoomNoLongerAvailable)

	_, err := f.service.CreateBooking(context.Background(), validRequest())

	assert.ErrorIs(t, err, availability.ErrRoomNoLongerAvailable)
	f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_UsageLimitRecheckFails(t *testing.T) {
	f := newFixture()
	f.expectRoomLookups()

	limit := int64(1)
	code := &domain.DiscountCode{
		ID:            42,
		Code:          "ONCE",
		DiscountType:  domain.DiscountPercent,
		DiscountValue: 10,
		UsageLimit:    &limit,
		StartDate:     checkIn.AddDate(0, -1, 0),
		ExpiryDate:    checkIn.AddDate(1, 0, 0),
		Status:        domain.DiscountActive,
	}
	f.discounts.On("GetByCode", mock.Anything, "ONCE").Return(code, nil)
	// free at quote time, taken by the re-check inside the transaction
	f.discounts.On("CountUsage", mock.Anything, int64(42)).Return(int64(0), nil).Once()
	f.discounts.On("CountUsageByAccount", mock.Anything, int64(42), int64(8)).Return(int64(0), nil).Once()
	f.promos.On("ActiveAt", mock.Anything, mock.Anything).Return([]domain.Promotion{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.reserver.On("Reserve", mock.Anything, mock.Anything, mock.Anything).Return([]domain.RoomStay{}, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.discounts.On("LockCode", mock.Anything, int64(42)).Return(nil)
	f.discounts.On("CountUsage", mock.Anything, int64(42)).Return(int64(1), nil).Once()
	f.discounts.On("CountUsageByAccount", mock.Anything, int64(42), int64(8)).Return(int64(0), nil).Once()

	req := validRequest()
	req.DiscountCode = "ONCE"

	_, err := f.service.CreateBooking(context.Background(), req)

	assert.ErrorIs(t, err, pricing.ErrDiscountIneligible)
	f.discounts.AssertNotCalled(t, "CreateUsage", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_LocksCodeBeforeRecordingUsage(t *testing.T) {
	f := newFixture()
	f.expectRoomLookups()

	limit := int64(1)
	code := &domain.DiscountCode{
		ID:            42,
		Code:          "ONCE",
		DiscountType:  domain.DiscountPercent,
		DiscountValue: 10,
		UsageLimit:    &limit,
		StartDate:     checkIn.AddDate(0, -1, 0),
		ExpiryDate:    checkIn.AddDate(1, 0, 0),
		Status:        domain.DiscountActive,
	}
	f.discounts.On("GetByCode", mock.Anything, "ONCE").Return(code, nil)
	f.discounts.On("CountUsage", mock.Anything, int64(42)).Return(int64(0), nil)
	f.discounts.On("CountUsageByAccount", mock.Anything, int64(42), int64(8)).Return(int64(0), nil)
	f.promos.On("ActiveAt", mock.Anything, mock.Anything).Return([]domain.Promotion{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.reserver.On("Reserve", mock.Anything, mock.Anything, mock.Anything).Return([]domain.RoomStay{}, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)

	var locked bool
	f.discounts.On("LockCode", mock.Anything, int64(42)).Run(func(mock.Arguments) {
		locked = true
	}).Return(nil)
	f.discounts.On("CreateUsage", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		assert.True(t, locked, "usage row written without holding the code lock")
	}).Return(nil)

	req := validRequest()
	req.DiscountCode = "ONCE"

	_, err := f.service.CreateBooking(context.Background(), req)

	assert.NoError(t, err)
	f.discounts.AssertCalled(t, "LockCode", mock.Anything, int64(42))
}

func TestService_CreateBooking_LockCodeFailureAborts(t *testing.T) {
	f := newFixture()
	f.expectRoomLookups()

	code := &domain.DiscountCode{
		ID:            42,
		Code:          "ONCE",
		DiscountType:  domain.DiscountPercent,
		DiscountValue: 10,
		StartDate:     checkIn.AddDate(0, -1, 0),
		ExpiryDate:    checkIn.AddDate(1, 0, 0),
		Status:        domain.DiscountActive,
	}
	f.discounts.On("GetByCode", mock.Anything, "ONCE").Return(code, nil)
	f.discounts.On("CountUsage", mock.Anything, int64(42)).Return(int64(0), nil)
	f.discounts.On("CountUsageByAccount", mock.Anything, int64(42), int64(8)).Return(int64(0), nil)
	f.promos.On("ActiveAt", mock.Anything, mock.Anything).Return([]domain.Promotion{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.reserver.On("Reserve", mock.Anything, mock.Anything, mock.Anything).Return([]domain.RoomStay{}, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.discounts.On("LockCode", mock.Anything, int64(42)).Return(context.DeadlineExceeded)

	req := validRequest()
	req.DiscountCode = "ONCE"

	_, err := f.service.CreateBooking(context.Background(), req)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	f.discounts.AssertNotCalled(t, "CreateUsage", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_ManualSkipsConfirmationStep(t *testing.T) {
	f := newFixture()
	f.expectRoomLookups()
	f.promos.On("ActiveAt", mock.Anything, mock.Anything).Return([]domain.Promotion{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.reserver.On("Reserve", mock.Anything, mock.Anything, mock.MatchedBy(func(o availability.ReserveOptions) bool {
		return o.SkipAvailabilityCheck && o.ActorID == 2
	})).Return([]domain.RoomStay{{Overbooked: true}}, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.history.On("Append", mock.Anything, mock.MatchedBy(func(h *domain.StatusHistory) bool {
		return h.ToStatus == domain.BookingPendingConfirmation && h.ActorID == 2
	})).Return(nil)

	req := validRequest()
	req.SkipAvailabilityCheck = true
	req.ActorID = 2

	b, err := f.service.CreateBooking(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPendingConfirmation, b.Status)
	f.history.AssertExpectations(t)
}

func TestService_Lifecycle_FullSequence(t *testing.T) {
	f := newFixture()

	steps := []struct {
		from domain.BookingStatus
		call func() (*domain.Booking, error)
		to   domain.BookingStatus
	}{
		{domain.BookingCreated, func() (*domain.Booking, error) { return f.service.Submit(context.Background(), 1, 2) }, domain.BookingPendingConfirmation},
		{domain.BookingPendingConfirmation, func() (*domain.Booking, error) { return f.service.Confirm(context.Background(), 1, 2) }, domain.BookingConfirmed},
		{domain.BookingConfirmed, func() (*domain.Booking, error) { return f.service.CheckIn(context.Background(), 1, 2) }, domain.BookingCheckedIn},
		{domain.BookingCheckedIn, func() (*domain.Booking, error) { return f.service.CheckOut(context.Background(), 1, 2) }, domain.BookingCheckedOut},
		{domain.BookingCheckedOut, func() (*domain.Booking, error) { return f.service.Complete(context.Background(), 1, 2) }, domain.BookingCompleted},
	}

	f.notifs.On("BookingConfirmed", mock.Anything, mock.Anything).Return(nil)
	for _, st := range steps {
		f.bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{ID: 1, Status: st.from}, nil).Once()
		f.bookings.On("UpdateStatus", mock.Anything, int64(1), st.from, st.to).Return(true, nil).Once()
		f.history.On("Append", mock.Anything, mock.MatchedBy(func(h *domain.StatusHistory) bool {
			return h.FromStatus == st.from && h.ToStatus == st.to
		})).Return(nil).Once()
	}

	for _, st := range steps {
		b, err := st.call()
		assert.NoError(t, err)
		assert.Equal(t, st.to, b.Status)
	}
	f.bookings.AssertExpectations(t)
	f.history.AssertExpectations(t)
}

func TestService_Confirm_OutOfOrder(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingCreated}, nil)

	_, err := f.service.Confirm(context.Background(), 1, 2)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Advance_LosesConcurrentRace(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingCheckedIn}, nil)
	// another transition got there first: the conditional update matches
	// zero rows
	f.bookings.On("UpdateStatus", mock.Anything, int64(1), domain.BookingCheckedIn, domain.BookingCheckedOut).Return(false, nil)

	_, err := f.service.CheckOut(context.Background(), 1, 2)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestService_Cancel_ReleasesStaysAndFlagsRefund(t *testing.T) {
	f := newFixture()
	confirmed := &domain.Booking{ID: 1, Status: domain.BookingConfirmed}
	cancelled := &domain.Booking{ID: 1, Status: domain.BookingCancelled, RefundPending: true}

	f.bookings.On("GetByID", mock.Anything, int64(1)).Return(confirmed, nil).Once()
	f.payments.On("ListByBooking", mock.Anything, int64(1)).Return([]domain.Payment{
		{ID: 5, BookingID: 1, Status: domain.PaymentSuccess, Amount: 3300},
	}, nil)
	f.bookings.On("MarkCancelled", mock.Anything, int64(1), domain.BookingConfirmed, "guest request", true).Return(true, nil)
	f.stays.On("ReleaseByBooking", mock.Anything, int64(1)).Return(int64(1), nil)
	f.history.On("Append", mock.Anything, mock.MatchedBy(func(h *domain.StatusHistory) bool {
		return h.ToStatus == domain.BookingCancelled && h.Note == "guest request"
	})).Return(nil)
	f.notifs.On("BookingCancelled", mock.Anything, mock.Anything, "guest request").Return(nil)
	f.bookings.On("GetByID", mock.Anything, int64(1)).Return(cancelled, nil).Once()

	b, err := f.service.Cancel(context.Background(), 1, 2, "guest request")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	assert.True(t, b.RefundPending)
	f.stays.AssertExpectations(t)
	f.bookings.AssertExpectations(t)
}

func TestService_Cancel_RequiresReason(t *testing.T) {
	f := newFixture()
	_, err := f.service.Cancel(context.Background(), 1, 2, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Cancel_TerminalBooking(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingCompleted}, nil)

	_, err := f.service.Cancel(context.Background(), 1, 2, "too late")

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Cancel_NoSuccessfulPaymentNoRefundFlag(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingCreated}, nil)
	f.payments.On("ListByBooking", mock.Anything, int64(1)).Return([]domain.Payment{
		{ID: 5, Status: domain.PaymentPending},
	}, nil)
	f.bookings.On("MarkCancelled", mock.Anything, int64(1), domain.BookingCreated, "changed plans", false).Return(true, nil)
	f.stays.On("ReleaseByBooking", mock.Anything, int64(1)).Return(int64(1), nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.notifs.On("BookingCancelled", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.Cancel(context.Background(), 1, 2, "changed plans")

	assert.NoError(t, err)
	f.bookings.AssertExpectations(t)
}

func TestService_UpdateBooking_SpecialRequestsOnly(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingConfirmed}, nil)
	f.bookings.On("UpdateDetails", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.SpecialRequests == "late arrival"
	})).Return(nil)

	sr := "late arrival"
	b, err := f.service.UpdateBooking(context.Background(), 1, UpdateBookingRequest{SpecialRequests: &sr})

	assert.NoError(t, err)
	assert.Equal(t, "late arrival", b.SpecialRequests)
	f.reserver.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateBooking_DateChangeReprices(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{
		ID: 1, AccountID: 8, HotelID: 3, Status: domain.BookingConfirmed,
	}, nil)
	f.stays.On("ListByBooking", mock.Anything, int64(1)).Return([]domain.RoomStay{
		{ID: 10, BookingID: 1, RoomID: 11, RoomTypeID: 7, CheckIn: checkIn, CheckOut: checkOut, PricePerNight: 1500, NightsCount: 2, Capacity: 2},
	}, nil)
	f.discounts.On("GetUsageByBooking", mock.Anything, int64(1)).Return(nil, repository.ErrNotFound)
	f.promos.On("ActiveAt", mock.Anything, mock.Anything).Return([]domain.Promotion{}, nil)
	f.stays.On("ReleaseByBooking", mock.Anything, int64(1)).Return(int64(1), nil)
	f.reserver.On("Reserve", mock.Anything, mock.MatchedBy(func(ss []domain.RoomStay) bool {
		return len(ss) == 1 && ss[0].NightsCount == 4 && ss[0].TotalPrice == 6000.0
	}), mock.Anything).Return([]domain.RoomStay{}, nil)
	f.bookings.On("UpdateDetails", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Subtotal == 6000.0 && b.TotalAmount == 6600.0
	})).Return(nil)
	f.history.On("AddNote", mock.Anything, mock.Anything).Return(nil)

	newIn := checkIn
	newOut := checkIn.AddDate(0, 0, 4)
	b, err := f.service.UpdateBooking(context.Background(), 1, UpdateBookingRequest{CheckIn: &newIn, CheckOut: &newOut, ActorID: 2})

	assert.NoError(t, err)
	assert.Equal(t, 6600.0, b.TotalAmount)
	f.reserver.AssertExpectations(t)
}

func TestService_UpdateBooking_OneDateOnly(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingConfirmed}, nil)

	newIn := checkIn
	_, err := f.service.UpdateBooking(context.Background(), 1, UpdateBookingRequest{CheckIn: &newIn})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_UpdateBooking_Terminal(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingCancelled}, nil)

	sr := "anything"
	_, err := f.service.UpdateBooking(context.Background(), 1, UpdateBookingRequest{SpecialRequests: &sr})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_GetBooking_NotFound(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	_, err := f.service.GetBooking(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_AddInternalNote(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingConfirmed}, nil)
	f.history.On("AddNote", mock.Anything, mock.MatchedBy(func(n *domain.BookingNote) bool {
		return n.BookingID == 1 && n.AuthorID == 2 && n.Text == "VIP guest"
	})).Return(nil)

	n, err := f.service.AddInternalNote(context.Background(), 1, 2, "VIP guest")

	assert.NoError(t, err)
	assert.Equal(t, "VIP guest", n.Text)
}

func TestService_AddInternalNote_Empty(t *testing.T) {
	f := newFixture()
	_, err := f.service.AddInternalNote(context.Background(), 1, 2, "")
	assert.ErrorIs(t, err, ErrValidation)
}
