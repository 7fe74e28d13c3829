package notification

import (
	"context"
	"fmt"

	"hotelbooking/internal/domain"

	"go.uber.org/zap"
)

type Outbox interface {
	Enqueue(ctx context.Context, msg *domain.EmailMessage) error
}

// Service records outbound transactional emails in the outbox table.
// Actual delivery is owned by whatever drains the outbox; from the
// booking core's point of view every notification is fire-and-forget.
type Service struct {
	outbox Outbox
	log    *zap.Logger
}

func NewService(outbox Outbox, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{outbox: outbox, log: log}
}

func (s *Service) BookingConfirmed(ctx context.Context, b *domain.Booking) error {
	return s.enqueue(ctx, b, domain.EmailBookingConfirmed,
		fmt.Sprintf("Booking %s confirmed", b.Reference),
		fmt.Sprintf("Your booking %s has been confirmed. Total: %.2f", b.Reference, b.TotalAmount))
}

func (s *Service) BookingCancelled(ctx context.Context, b *domain.Booking, reason string) error {
	return s.enqueue(ctx, b, domain.EmailBookingCancelled,
		fmt.Sprintf("Booking %s cancelled", b.Reference),
		fmt.Sprintf("Your booking %s has been cancelled. Reason: %s", b.Reference, reason))
}

func (s *Service) RefundIssued(ctx context.Context, b *domain.Booking, amount float64) error {
	return s.enqueue(ctx, b, domain.EmailRefundIssued,
		fmt.Sprintf("Refund for booking %s", b.Reference),
		fmt.Sprintf("A refund of %.2f has been issued for booking %s", amount, b.Reference))
}

func (s *Service) ConfirmationEmail(ctx context.Context, b *domain.Booking) error {
	return s.enqueue(ctx, b, domain.EmailConfirmation,
		fmt.Sprintf("Your booking %s", b.Reference),
		fmt.Sprintf("Booking %s: status %s, total %.2f", b.Reference, b.Status, b.TotalAmount))
}

func (s *Service) enqueue(ctx context.Context, b *domain.Booking, kind domain.EmailKind, subject, body string) error {
	msg := &domain.EmailMessage{
		BookingID: b.ID,
		AccountID: b.AccountID,
		Kind:      kind,
		Subject:   subject,
		Body:      body,
	}
	if err := s.outbox.Enqueue(ctx, msg); err != nil {
		s.log.Error("failed to enqueue email",
			zap.Int64("booking_id", b.ID),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return err
	}
	s.log.Info("email enqueued",
		zap.Int64("booking_id", b.ID),
		zap.String("kind", string(kind)))
	return nil
}
