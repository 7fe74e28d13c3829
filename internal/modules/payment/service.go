package payment

import (
	"context"
	"errors"
	"math"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"

	"go.uber.org/zap"
)

type Service struct {
	payments PaymentRepository
	bookings BookingWriter
	notifs   NotificationSender
	tx       Tx
	log      *zap.Logger
}

func NewService(payments PaymentRepository, bookings BookingWriter, notifs NotificationSender, tx Tx, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{payments: payments, bookings: bookings, notifs: notifs, tx: tx, log: log}
}

// ConfirmCash marks a pending payment as collected at the desk and
// syncs the booking's payment status.
func (s *Service) ConfirmCash(ctx context.Context, paymentID, actorID int64) (*domain.Payment, error) {
	return s.settle(ctx, paymentID, domain.PaymentSuccess, "cash payment confirmed")
}

// MarkFailed records a failed charge.
func (s *Service) MarkFailed(ctx context.Context, paymentID int64, reason string) (*domain.Payment, error) {
	return s.settle(ctx, paymentID, domain.PaymentFailed, reason)
}

func (s *Service) settle(ctx context.Context, paymentID int64, to domain.PaymentStatus, reason string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Status != domain.PaymentPending {
		return nil, ErrInvalidStatus
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.payments.UpdateStatus(ctx, paymentID, domain.PaymentPending, to, reason)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidStatus
		}
		return s.bookings.UpdatePaymentStatus(ctx, p.BookingID, to)
	})
	if err != nil {
		return nil, err
	}

	p.Status = to
	p.Reason = reason
	return p, nil
}

// Refund reverses up to the remaining amount of a successful payment by
// creating a REFUNDED row linked to the original. A full refund also
// flips the original payment and the booking to REFUNDED and clears the
// refund-pending flag set at cancellation.
func (s *Service) Refund(ctx context.Context, paymentID int64, amount float64, reason string, actorID int64) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, ErrValidation
	}

	orig, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if orig.Status != domain.PaymentSuccess {
		return nil, ErrInvalidStatus
	}

	refunded, err := s.payments.SumRefunded(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	remaining := math.Round((orig.Amount-refunded)*100) / 100
	if amount > remaining {
		return nil, ErrRefundExceeded
	}

	refund := &domain.Payment{
		BookingID:  orig.BookingID,
		Amount:     amount,
		Status:     domain.PaymentRefunded,
		Method:     orig.Method,
		RefundOfID: &orig.ID,
		Reason:     reason,
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.payments.Create(ctx, refund); err != nil {
			return err
		}
		if amount == remaining {
			if _, err := s.payments.UpdateStatus(ctx, orig.ID, domain.PaymentSuccess, domain.PaymentRefunded, reason); err != nil {
				return err
			}
			if err := s.bookings.UpdatePaymentStatus(ctx, orig.BookingID, domain.PaymentRefunded); err != nil {
				return err
			}
		}
		return s.bookings.UpdateRefundPending(ctx, orig.BookingID, false)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("refund issued",
		zap.Int64("payment_id", orig.ID),
		zap.Int64("booking_id", orig.BookingID),
		zap.Float64("amount", amount),
		zap.Int64("actor_id", actorID))

	if s.notifs != nil {
		b, berr := s.bookings.GetByID(ctx, orig.BookingID)
		if berr == nil {
			if nerr := s.notifs.RefundIssued(ctx, b, amount); nerr != nil {
				s.log.Error("refund notification failed",
					zap.Int64("booking_id", orig.BookingID), zap.Error(nerr))
			}
		}
	}

	return refund, nil
}

func (s *Service) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	return s.payments.ListByBooking(ctx, bookingID)
}
