package booking

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/availability"
	"hotelbooking/internal/modules/pricing"
	"hotelbooking/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// forward is the happy-path transition table. CANCELLED is reachable
// from any non-terminal state through Cancel.
var forward = map[domain.BookingStatus]domain.BookingStatus{
	domain.BookingCreated:             domain.BookingPendingConfirmation,
	domain.BookingPendingConfirmation: domain.BookingConfirmed,
	domain.BookingConfirmed:           domain.BookingCheckedIn,
	domain.BookingCheckedIn:           domain.BookingCheckedOut,
	domain.BookingCheckedOut:          domain.BookingCompleted,
}

type Service struct {
	bookings  BookingRepository
	stays     StayReader
	reserver  Reserver
	rooms     RoomReader
	discounts DiscountReader
	promos    PromotionLister
	payments  PaymentRepository
	history   HistoryRepository
	prices    *pricing.Engine
	notifs    NotificationSender
	tx        Tx
	log       *zap.Logger
}

func NewService(
	bookings BookingRepository,
	stays StayReader,
	reserver Reserver,
	rooms RoomReader,
	discounts DiscountReader,
	promos PromotionLister,
	payments PaymentRepository,
	history HistoryRepository,
	prices *pricing.Engine,
	notifs NotificationSender,
	tx Tx,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		bookings:  bookings,
		stays:     stays,
		reserver:  reserver,
		rooms:     rooms,
		discounts: discounts,
		promos:    promos,
		payments:  payments,
		history:   history,
		prices:    prices,
		notifs:    notifs,
		tx:        tx,
		log:       log,
	}
}

// CreateBooking prices and reserves a new booking in one transaction.
// The discount usage re-check runs inside the transaction so two
// concurrent redemptions cannot both pass a usage_limit of one.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	nights, err := availability.Nights(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if req.AccountID <= 0 || req.HotelID <= 0 || len(req.RoomIDs) == 0 || req.GuestsCount <= 0 {
		return nil, ErrValidation
	}

	if _, err := s.rooms.GetHotel(ctx, req.HotelID); err != nil {
		return nil, err
	}

	rooms, err := s.rooms.GetRoomsByIDs(ctx, req.RoomIDs)
	if err != nil {
		return nil, err
	}
	if len(rooms) != len(req.RoomIDs) {
		return nil, ErrValidation
	}
	for _, r := range rooms {
		if r.HotelID != req.HotelID {
			return nil, ErrValidation
		}
	}

	types := make(map[int64]*domain.RoomType, len(rooms))
	items := make([]pricing.LineItem, 0, len(rooms))
	for _, r := range rooms {
		rt, ok := types[r.RoomTypeID]
		if !ok {
			rt, err = s.rooms.GetRoomType(ctx, r.RoomTypeID)
			if err != nil {
				return nil, err
			}
			types[r.RoomTypeID] = rt
		}
		items = append(items, pricing.LineItem{
			RoomID:        r.ID,
			RoomTypeID:    r.RoomTypeID,
			PricePerNight: rt.BasePrice,
			Nights:        nights,
		})
	}

	now := time.Now().UTC()
	in := pricing.Input{
		Items:     items,
		HotelID:   req.HotelID,
		AccountID: req.AccountID,
		Now:       now,
	}

	var code *domain.DiscountCode
	if req.DiscountCode != "" {
		code, err = s.discounts.GetByCode(ctx, req.DiscountCode)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &pricing.IneligibleError{Code: req.DiscountCode, Reason: pricing.ReasonUnknownCode}
			}
			return nil, err
		}
		in.Code = code
		if in.CodeUsage, err = s.usageSnapshot(ctx, code, req.AccountID); err != nil {
			return nil, err
		}
	}

	if in.Promotions, err = s.promos.ActiveAt(ctx, now); err != nil {
		return nil, err
	}

	quote, err := s.prices.Quote(in)
	if err != nil {
		return nil, err
	}

	status := domain.BookingCreated
	if req.SkipAvailabilityCheck || req.ActorID > 0 {
		// manual admin bookings skip the customer confirmation step
		status = domain.BookingPendingConfirmation
	}

	b := &domain.Booking{
		Reference:       uuid.NewString(),
		AccountID:       req.AccountID,
		HotelID:         req.HotelID,
		Status:          status,
		GuestsCount:     req.GuestsCount,
		Subtotal:        quote.Subtotal,
		TaxAmount:       quote.TaxAmount,
		DiscountAmount:  quote.DiscountAmount,
		TotalAmount:     quote.TotalAmount,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		PaymentStatus:   domain.PaymentPending,
		SpecialRequests: req.SpecialRequests,
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.bookings.Create(ctx, b); err != nil {
			return err
		}

		stays := make([]domain.RoomStay, 0, len(items))
		for _, it := range items {
			stays = append(stays, domain.RoomStay{
				BookingID:     b.ID,
				RoomID:        it.RoomID,
				RoomTypeID:    it.RoomTypeID,
				CheckIn:       req.CheckIn,
				CheckOut:      req.CheckOut,
				PricePerNight: it.PricePerNight,
				NightsCount:   it.Nights,
				TotalPrice:    it.PricePerNight * float64(it.Nights),
				Capacity:      types[it.RoomTypeID].Capacity,
			})
		}
		reserved, err := s.reserver.Reserve(ctx, stays, availability.ReserveOptions{
			SkipAvailabilityCheck: req.SkipAvailabilityCheck,
			ActorID:               req.ActorID,
		})
		if err != nil {
			return err
		}
		b.Stays = reserved

		p := &domain.Payment{
			BookingID: b.ID,
			Amount:    b.TotalAmount,
			Status:    domain.PaymentPending,
			Method:    b.PaymentMethod,
		}
		if err := s.payments.Create(ctx, p); err != nil {
			return err
		}

		if quote.AppliedCodeID != nil {
			// serialize concurrent redemptions on the code row before
			// re-counting, otherwise two transactions can both pass a
			// usage_limit of 1
			if err := s.discounts.LockCode(ctx, *quote.AppliedCodeID); err != nil {
				return err
			}
			snap, err := s.usageSnapshot(ctx, code, req.AccountID)
			if err != nil {
				return err
			}
			if code.UsageLimit != nil && snap.Total >= *code.UsageLimit {
				return &pricing.IneligibleError{Code: code.Code, Reason: pricing.ReasonUsageExhausted}
			}
			if code.PerUserLimit != nil && snap.ByAccount >= *code.PerUserLimit {
				return &pricing.IneligibleError{Code: code.Code, Reason: pricing.ReasonPerUserLimit}
			}
			if err := s.discounts.CreateUsage(ctx, &domain.DiscountUsage{
				BookingID:      b.ID,
				AccountID:      req.AccountID,
				DiscountCodeID: quote.AppliedCodeID,
				Amount:         quote.DiscountAmount,
			}); err != nil {
				return err
			}
		}
		if quote.AppliedPromotionID != nil {
			if err := s.discounts.CreateUsage(ctx, &domain.DiscountUsage{
				BookingID:   b.ID,
				AccountID:   req.AccountID,
				PromotionID: quote.AppliedPromotionID,
				Amount:      quote.DiscountAmount,
			}); err != nil {
				return err
			}
		}

		if status != domain.BookingCreated {
			return s.history.Append(ctx, &domain.StatusHistory{
				BookingID:  b.ID,
				FromStatus: domain.BookingCreated,
				ToStatus:   status,
				ActorID:    req.ActorID,
				Note:       "manual booking",
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.String("reference", b.Reference),
		zap.String("status", string(b.Status)),
		zap.Float64("total_amount", b.TotalAmount))
	return b, nil
}

func (s *Service) usageSnapshot(ctx context.Context, code *domain.DiscountCode, accountID int64) (pricing.UsageSnapshot, error) {
	total, err := s.discounts.CountUsage(ctx, code.ID)
	if err != nil {
		return pricing.UsageSnapshot{}, err
	}
	byAccount, err := s.discounts.CountUsageByAccount(ctx, code.ID, accountID)
	if err != nil {
		return pricing.UsageSnapshot{}, err
	}
	return pricing.UsageSnapshot{Total: total, ByAccount: byAccount}, nil
}

// Submit moves a customer booking into the admin confirmation queue.
func (s *Service) Submit(ctx context.Context, id, actorID int64) (*domain.Booking, error) {
	return s.advance(ctx, id, domain.BookingPendingConfirmation, actorID, "")
}

func (s *Service) Confirm(ctx context.Context, id, actorID int64) (*domain.Booking, error) {
	b, err := s.advance(ctx, id, domain.BookingConfirmed, actorID, "")
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		if nerr := s.notifs.BookingConfirmed(ctx, b); nerr != nil {
			s.log.Error("booking confirmation notification failed",
				zap.Int64("booking_id", b.ID), zap.Error(nerr))
		}
	}
	return b, nil
}

func (s *Service) CheckIn(ctx context.Context, id, actorID int64) (*domain.Booking, error) {
	return s.advance(ctx, id, domain.BookingCheckedIn, actorID, "")
}

func (s *Service) CheckOut(ctx context.Context, id, actorID int64) (*domain.Booking, error) {
	return s.advance(ctx, id, domain.BookingCheckedOut, actorID, "")
}

func (s *Service) Complete(ctx context.Context, id, actorID int64) (*domain.Booking, error) {
	return s.advance(ctx, id, domain.BookingCompleted, actorID, "")
}

// UpdateStatus dispatches an admin status change to the matching
// operation, keeping the transition table the single source of truth.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, actorID int64, note string) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, ErrValidation
	}
	if status == domain.BookingCancelled {
		return s.Cancel(ctx, id, actorID, note)
	}
	b, err := s.advance(ctx, id, status, actorID, note)
	if err != nil {
		return nil, err
	}
	if status == domain.BookingConfirmed && s.notifs != nil {
		if nerr := s.notifs.BookingConfirmed(ctx, b); nerr != nil {
			s.log.Error("booking confirmation notification failed",
				zap.Int64("booking_id", b.ID), zap.Error(nerr))
		}
	}
	return b, nil
}

// advance performs one forward transition. The UPDATE is conditional on
// the current status, so a concurrent transition loses cleanly instead
// of double-applying.
func (s *Service) advance(ctx context.Context, id int64, to domain.BookingStatus, actorID int64, note string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if forward[b.Status] != to {
		return nil, &InvalidTransitionError{From: b.Status, To: to}
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.bookings.UpdateStatus(ctx, id, b.Status, to)
		if err != nil {
			return err
		}
		if !ok {
			return &InvalidTransitionError{From: b.Status, To: to}
		}
		return s.history.Append(ctx, &domain.StatusHistory{
			BookingID:  id,
			FromStatus: b.Status,
			ToStatus:   to,
			ActorID:    actorID,
			Note:       note,
		})
	})
	if err != nil {
		return nil, err
	}

	b.Status = to
	return b, nil
}

// Cancel moves a booking to CANCELLED from any non-terminal state,
// releases its room stays, and flags a successful payment as a refund
// candidate. The payment itself is never silently refunded.
func (s *Service) Cancel(ctx context.Context, id, actorID int64, reason string) (*domain.Booking, error) {
	if reason == "" {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, &InvalidTransitionError{From: b.Status, To: domain.BookingCancelled}
	}

	payments, err := s.payments.ListByBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	refundPending := false
	for _, p := range payments {
		if p.Status == domain.PaymentSuccess {
			refundPending = true
			break
		}
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.bookings.MarkCancelled(ctx, id, b.Status, reason, refundPending)
		if err != nil {
			return err
		}
		if !ok {
			return &InvalidTransitionError{From: b.Status, To: domain.BookingCancelled}
		}
		if _, err := s.stays.ReleaseByBooking(ctx, id); err != nil {
			return err
		}
		return s.history.Append(ctx, &domain.StatusHistory{
			BookingID:  id,
			FromStatus: b.Status,
			ToStatus:   domain.BookingCancelled,
			ActorID:    actorID,
			Note:       reason,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if nerr := s.notifs.BookingCancelled(ctx, b, reason); nerr != nil {
			s.log.Error("booking cancellation notification failed",
				zap.Int64("booking_id", b.ID), zap.Error(nerr))
		}
	}

	return s.bookings.GetByID(ctx, id)
}

// UpdateBooking applies controlled edits. A date change releases the
// old stays, reserves the same rooms for the new range and re-runs the
// pricing computation against the originally applied discount.
func (s *Service) UpdateBooking(ctx context.Context, id int64, req UpdateBookingRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, &InvalidTransitionError{From: b.Status, To: b.Status}
	}

	if req.SpecialRequests != nil {
		b.SpecialRequests = *req.SpecialRequests
	}

	if req.CheckIn == nil && req.CheckOut == nil {
		if err := s.bookings.UpdateDetails(ctx, b); err != nil {
			return nil, err
		}
		return b, nil
	}
	if req.CheckIn == nil || req.CheckOut == nil {
		return nil, ErrValidation
	}

	nights, err := availability.Nights(*req.CheckIn, *req.CheckOut)
	if err != nil {
		return nil, err
	}

	oldStays, err := s.stays.ListByBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	live := make([]domain.RoomStay, 0, len(oldStays))
	for _, st := range oldStays {
		if st.ReleasedAt == nil {
			live = append(live, st)
		}
	}
	if len(live) == 0 {
		return nil, ErrValidation
	}

	now := time.Now().UTC()
	items := make([]pricing.LineItem, 0, len(live))
	for _, st := range live {
		items = append(items, pricing.LineItem{
			RoomID:        st.RoomID,
			RoomTypeID:    st.RoomTypeID,
			PricePerNight: st.PricePerNight,
			Nights:        nights,
		})
	}
	in := pricing.Input{Items: items, HotelID: b.HotelID, AccountID: b.AccountID, Now: now}

	// re-apply the discount the booking was created with, if any
	usage, err := s.discounts.GetUsageByBooking(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if usage != nil && usage.DiscountCodeID != nil {
		code, err := s.discounts.GetByID(ctx, *usage.DiscountCodeID)
		if err != nil {
			return nil, err
		}
		snap, err := s.usageSnapshot(ctx, code, b.AccountID)
		if err != nil {
			return nil, err
		}
		// this booking's own redemption does not count against it
		if snap.Total > 0 {
			snap.Total--
		}
		if snap.ByAccount > 0 {
			snap.ByAccount--
		}
		in.Code = code
		in.CodeUsage = snap
	}
	if in.Promotions, err = s.promos.ActiveAt(ctx, now); err != nil {
		return nil, err
	}

	quote, err := s.prices.Quote(in)
	if err != nil {
		return nil, err
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.stays.ReleaseByBooking(ctx, id); err != nil {
			return err
		}
		stays := make([]domain.RoomStay, 0, len(live))
		for _, st := range live {
			stays = append(stays, domain.RoomStay{
				BookingID:     id,
				RoomID:        st.RoomID,
				RoomTypeID:    st.RoomTypeID,
				CheckIn:       *req.CheckIn,
				CheckOut:      *req.CheckOut,
				PricePerNight: st.PricePerNight,
				NightsCount:   nights,
				TotalPrice:    st.PricePerNight * float64(nights),
				Capacity:      st.Capacity,
			})
		}
		if _, err := s.reserver.Reserve(ctx, stays, availability.ReserveOptions{ActorID: req.ActorID}); err != nil {
			return err
		}

		b.Subtotal = quote.Subtotal
		b.TaxAmount = quote.TaxAmount
		b.DiscountAmount = quote.DiscountAmount
		b.TotalAmount = quote.TotalAmount
		if err := s.bookings.UpdateDetails(ctx, b); err != nil {
			return err
		}
		return s.history.AddNote(ctx, &domain.BookingNote{
			BookingID: id,
			AuthorID:  req.ActorID,
			Text:      "stay dates changed to " + req.CheckIn.Format("2006-01-02") + " / " + req.CheckOut.Format("2006-01-02"),
		})
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) AddInternalNote(ctx context.Context, id, authorID int64, text string) (*domain.BookingNote, error) {
	if text == "" {
		return nil, ErrValidation
	}
	if _, err := s.bookings.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	n := &domain.BookingNote{BookingID: id, AuthorID: authorID, Text: text}
	if err := s.history.AddNote(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) GetBooking(ctx context.Context, id int64) (*BookingDetail, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	stays, err := s.stays.ListByBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.history.ListByBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.history.ListNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookingDetail{Booking: b, Stays: stays, Payments: payments, History: history, Notes: notes}, nil
}

func (s *Service) ListBookings(ctx context.Context, f repository.BookingFilter) (*ListResponse, error) {
	bookings, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Bookings: bookings, Total: total}, nil
}

// SendConfirmationEmail re-sends the booking confirmation on admin
// request. Best-effort like every other notification.
func (s *Service) SendConfirmationEmail(ctx context.Context, id int64) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if s.notifs == nil {
		return nil
	}
	if err := s.notifs.ConfirmationEmail(ctx, b); err != nil {
		s.log.Error("confirmation email failed", zap.Int64("booking_id", id), zap.Error(err))
	}
	return nil
}
