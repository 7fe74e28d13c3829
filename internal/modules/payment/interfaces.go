package payment

import (
	"context"

	"hotelbooking/internal/domain"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.PaymentStatus, reason string) (bool, error)
	SumRefunded(ctx context.Context, paymentID int64) (float64, error)
}

type BookingWriter interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	UpdateRefundPending(ctx context.Context, id int64, pending bool) error
}

type NotificationSender interface {
	RefundIssued(ctx context.Context, b *domain.Booking, amount float64) error
}

type Tx interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
