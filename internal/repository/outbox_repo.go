package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

type emailModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	BookingID int64     `gorm:"column:booking_id"`
	AccountID int64     `gorm:"column:account_id"`
	Kind      string    `gorm:"column:kind"`
	Subject   string    `gorm:"column:subject"`
	Body      string    `gorm:"column:body"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (emailModel) TableName() string { return "email_outbox" }

func (r *OutboxRepository) Enqueue(ctx context.Context, msg *domain.EmailMessage) error {
	m := emailModel{
		BookingID: msg.BookingID,
		AccountID: msg.AccountID,
		Kind:      string(msg.Kind),
		Subject:   msg.Subject,
		Body:      msg.Body,
	}
	if tx := conn(ctx, r.db).Create(&m); tx.Error != nil {
		return tx.Error
	}
	msg.ID = m.ID
	msg.CreatedAt = m.CreatedAt
	return nil
}
