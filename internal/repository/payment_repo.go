package repository

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	BookingID  int64     `gorm:"column:booking_id"`
	Amount     float64   `gorm:"column:amount"`
	Status     string    `gorm:"column:status"`
	Method     string    `gorm:"column:method"`
	RefundOfID *int64    `gorm:"column:refund_of_id"`
	Reason     *string   `gorm:"column:reason"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

func toDomainPayment(m paymentModel) *domain.Payment {
	p := &domain.Payment{
		ID:         m.ID,
		BookingID:  m.BookingID,
		Amount:     m.Amount,
		Status:     domain.PaymentStatus(m.Status),
		Method:     domain.PaymentMethod(m.Method),
		RefundOfID: m.RefundOfID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Reason != nil {
		p.Reason = *m.Reason
	}
	return p
}

func toPaymentModel(p *domain.Payment) paymentModel {
	m := paymentModel{
		ID:         p.ID,
		BookingID:  p.BookingID,
		Amount:     p.Amount,
		Status:     string(p.Status),
		Method:     string(p.Method),
		RefundOfID: p.RefundOfID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Reason != "" {
		v := p.Reason
		m.Reason = &v
	}
	return m
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	m := toPaymentModel(p)
	if tx := conn(ctx, r.db).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPayment(m)
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var m paymentModel
	tx := conn(ctx, r.db).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	var rows []paymentModel
	tx := conn(ctx, r.db).Where("booking_id = ?", bookingID).Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPayment(m))
	}
	return out, nil
}

// UpdateStatus moves a payment to status only from the expected prior
// status, so a retried admin action cannot double-apply.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.PaymentStatus, reason string) (bool, error) {
	updates := map[string]any{"status": string(to), "updated_at": time.Now().UTC()}
	if reason != "" {
		updates["reason"] = reason
	}
	tx := conn(ctx, r.db).Model(&paymentModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// SumRefunded returns the total amount already refunded against a
// SUCCESS payment.
func (r *PaymentRepository) SumRefunded(ctx context.Context, paymentID int64) (float64, error) {
	var total float64
	tx := conn(ctx, r.db).Model(&paymentModel{}).
		Where("refund_of_id = ? AND status = ?", paymentID, string(domain.PaymentRefunded)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return total, nil
}
