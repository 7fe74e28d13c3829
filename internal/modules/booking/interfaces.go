package booking

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/availability"
	"hotelbooking/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, int64, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error)
	MarkCancelled(ctx context.Context, id int64, from domain.BookingStatus, reason string, refundPending bool) (bool, error)
	UpdateDetails(ctx context.Context, b *domain.Booking) error
}

// Reserver is the availability checker's write surface. Releasing
// happens per booking through StayReader, so only Reserve lives here.
type Reserver interface {
	Reserve(ctx context.Context, stays []domain.RoomStay, opts availability.ReserveOptions) ([]domain.RoomStay, error)
}

type StayReader interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.RoomStay, error)
	ReleaseByBooking(ctx context.Context, bookingID int64) (int64, error)
}

type RoomReader interface {
	GetHotel(ctx context.Context, id int64) (*domain.Hotel, error)
	GetRoomType(ctx context.Context, id int64) (*domain.RoomType, error)
	GetRoomsByIDs(ctx context.Context, ids []int64) ([]domain.Room, error)
}

type DiscountReader interface {
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	GetByID(ctx context.Context, id int64) (*domain.DiscountCode, error)
	LockCode(ctx context.Context, codeID int64) error
	CountUsage(ctx context.Context, codeID int64) (int64, error)
	CountUsageByAccount(ctx context.Context, codeID, accountID int64) (int64, error)
	CreateUsage(ctx context.Context, u *domain.DiscountUsage) error
	GetUsageByBooking(ctx context.Context, bookingID int64) (*domain.DiscountUsage, error)
}

type PromotionLister interface {
	ActiveAt(ctx context.Context, now time.Time) ([]domain.Promotion, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, h *domain.StatusHistory) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.StatusHistory, error)
	AddNote(ctx context.Context, n *domain.BookingNote) error
	ListNotes(ctx context.Context, bookingID int64) ([]domain.BookingNote, error)
}

// NotificationSender delivers side-channel notifications. Calls are
// fire-and-forget: errors are the sender's problem, not the caller's.
type NotificationSender interface {
	BookingConfirmed(ctx context.Context, b *domain.Booking) error
	BookingCancelled(ctx context.Context, b *domain.Booking, reason string) error
	ConfirmationEmail(ctx context.Context, b *domain.Booking) error
}

type Tx interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
