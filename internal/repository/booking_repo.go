package repository

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	Reference       string     `gorm:"column:reference;uniqueIndex"`
	AccountID       int64      `gorm:"column:account_id"`
	HotelID         int64      `gorm:"column:hotel_id"`
	Status          string     `gorm:"column:status"`
	GuestsCount     int        `gorm:"column:guests_count"`
	Subtotal        float64    `gorm:"column:subtotal"`
	TaxAmount       float64    `gorm:"column:tax_amount"`
	DiscountAmount  float64    `gorm:"column:discount_amount"`
	TotalAmount     float64    `gorm:"column:total_amount"`
	PaymentMethod   string     `gorm:"column:payment_method"`
	PaymentStatus   string     `gorm:"column:payment_status"`
	RefundPending   bool       `gorm:"column:refund_pending"`
	SpecialRequests *string    `gorm:"column:special_requests"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	CancelledAt     *time.Time `gorm:"column:cancelled_at"`
	CancelReason    *string    `gorm:"column:cancel_reason"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:             m.ID,
		Reference:      m.Reference,
		AccountID:      m.AccountID,
		HotelID:        m.HotelID,
		Status:         domain.BookingStatus(m.Status),
		GuestsCount:    m.GuestsCount,
		Subtotal:       m.Subtotal,
		TaxAmount:      m.TaxAmount,
		DiscountAmount: m.DiscountAmount,
		TotalAmount:    m.TotalAmount,
		PaymentMethod:  domain.PaymentMethod(m.PaymentMethod),
		PaymentStatus:  domain.PaymentStatus(m.PaymentStatus),
		RefundPending:  m.RefundPending,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		CancelledAt:    m.CancelledAt,
	}
	if m.SpecialRequests != nil {
		b.SpecialRequests = *m.SpecialRequests
	}
	if m.CancelReason != nil {
		b.CancelReason = *m.CancelReason
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	m := bookingModel{
		ID:             b.ID,
		Reference:      b.Reference,
		AccountID:      b.AccountID,
		HotelID:        b.HotelID,
		Status:         string(b.Status),
		GuestsCount:    b.GuestsCount,
		Subtotal:       b.Subtotal,
		TaxAmount:      b.TaxAmount,
		DiscountAmount: b.DiscountAmount,
		TotalAmount:    b.TotalAmount,
		PaymentMethod:  string(b.PaymentMethod),
		PaymentStatus:  string(b.PaymentStatus),
		RefundPending:  b.RefundPending,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		CancelledAt:    b.CancelledAt,
	}
	if b.SpecialRequests != "" {
		v := b.SpecialRequests
		m.SpecialRequests = &v
	}
	if b.CancelReason != "" {
		v := b.CancelReason
		m.CancelReason = &v
	}
	return m
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if tx := conn(ctx, r.db).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := conn(ctx, r.db).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

type BookingFilter struct {
	Status  string
	HotelID int64
	Limit   int
	Offset  int
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, int64, error) {
	q := conn(ctx, r.db).Model(&bookingModel{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.HotelID > 0 {
		q = q.Where("hotel_id = ?", f.HotelID)
	}

	var total int64
	if tx := q.Count(&total); tx.Error != nil {
		return nil, 0, tx.Error
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []bookingModel
	tx := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&rows)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, total, nil
}

// UpdateStatus moves a booking to status only if it is still in from,
// so two concurrent admin actions cannot both win the same transition.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	tx := conn(ctx, r.db).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *BookingRepository) MarkCancelled(ctx context.Context, id int64, from domain.BookingStatus, reason string, refundPending bool) (bool, error) {
	now := time.Now().UTC()
	tx := conn(ctx, r.db).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":         string(domain.BookingCancelled),
			"cancel_reason":  reason,
			"cancelled_at":   now,
			"refund_pending": refundPending,
			"updated_at":     now,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	tx := conn(ctx, r.db).Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"payment_status": string(status), "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) UpdateRefundPending(ctx context.Context, id int64, pending bool) error {
	tx := conn(ctx, r.db).Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"refund_pending": pending, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateDetails rewrites the editable fields after a controlled edit
// (special requests or a re-priced date change).
func (r *BookingRepository) UpdateDetails(ctx context.Context, b *domain.Booking) error {
	tx := conn(ctx, r.db).Model(&bookingModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"special_requests": b.SpecialRequests,
			"subtotal":         b.Subtotal,
			"tax_amount":       b.TaxAmount,
			"discount_amount":  b.DiscountAmount,
			"total_amount":     b.TotalAmount,
			"updated_at":       time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
