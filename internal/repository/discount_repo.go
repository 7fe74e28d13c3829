package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

type discountCodeModel struct {
	ID                  int64      `gorm:"column:id;primaryKey"`
	Code                string     `gorm:"column:code;uniqueIndex"`
	Description         *string    `gorm:"column:description"`
	DiscountType        string     `gorm:"column:discount_type"`
	DiscountValue       float64    `gorm:"column:discount_value"`
	MaxDiscount         *float64   `gorm:"column:max_discount"`
	MinPurchase         *float64   `gorm:"column:min_purchase"`
	MinNights           *int       `gorm:"column:min_nights"`
	MaxNights           *int       `gorm:"column:max_nights"`
	UsageLimit          *int64     `gorm:"column:usage_limit"`
	PerUserLimit        *int64     `gorm:"column:per_user_limit"`
	StartDate           time.Time  `gorm:"column:start_date"`
	ExpiryDate          time.Time  `gorm:"column:expiry_date"`
	ApplicableStartDate *time.Time `gorm:"column:applicable_start_date"`
	ApplicableEndDate   *time.Time `gorm:"column:applicable_end_date"`
	ApplicableHotels    *string    `gorm:"column:applicable_hotels"`
	ApplicableTypes     *string    `gorm:"column:applicable_room_types"`
	Status              string     `gorm:"column:status"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (discountCodeModel) TableName() string { return "discount_codes" }

func idsToColumn(ids []int64) *string {
	if len(ids) == 0 {
		return nil
	}
	raw, _ := json.Marshal(ids)
	s := string(raw)
	return &s
}

func idsFromColumn(col *string) []int64 {
	if col == nil || *col == "" {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(*col), &ids); err != nil {
		return nil
	}
	return ids
}

func toDomainDiscountCode(m discountCodeModel) *domain.DiscountCode {
	d := &domain.DiscountCode{
		ID:                  m.ID,
		Code:                m.Code,
		DiscountType:        domain.DiscountType(m.DiscountType),
		DiscountValue:       m.DiscountValue,
		MaxDiscount:         m.MaxDiscount,
		MinPurchase:         m.MinPurchase,
		MinNights:           m.MinNights,
		MaxNights:           m.MaxNights,
		UsageLimit:          m.UsageLimit,
		PerUserLimit:        m.PerUserLimit,
		StartDate:           m.StartDate,
		ExpiryDate:          m.ExpiryDate,
		ApplicableStartDate: m.ApplicableStartDate,
		ApplicableEndDate:   m.ApplicableEndDate,
		ApplicableHotels:    idsFromColumn(m.ApplicableHotels),
		ApplicableTypes:     idsFromColumn(m.ApplicableTypes),
		Status:              domain.DiscountStatus(m.Status),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	if m.Description != nil {
		d.Description = *m.Description
	}
	return d
}

func toDiscountCodeModel(d *domain.DiscountCode) discountCodeModel {
	m := discountCodeModel{
		ID:                  d.ID,
		Code:                d.Code,
		DiscountType:        string(d.DiscountType),
		DiscountValue:       d.DiscountValue,
		MaxDiscount:         d.MaxDiscount,
		MinPurchase:         d.MinPurchase,
		MinNights:           d.MinNights,
		MaxNights:           d.MaxNights,
		UsageLimit:          d.UsageLimit,
		PerUserLimit:        d.PerUserLimit,
		StartDate:           d.StartDate,
		ExpiryDate:          d.ExpiryDate,
		ApplicableStartDate: d.ApplicableStartDate,
		ApplicableEndDate:   d.ApplicableEndDate,
		ApplicableHotels:    idsToColumn(d.ApplicableHotels),
		ApplicableTypes:     idsToColumn(d.ApplicableTypes),
		Status:              string(d.Status),
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
	if d.Description != "" {
		v := d.Description
		m.Description = &v
	}
	return m
}

func (r *DiscountRepository) Create(ctx context.Context, d *domain.DiscountCode) error {
	m := toDiscountCodeModel(d)
	if tx := conn(ctx, r.db).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*d = *toDomainDiscountCode(m)
	return nil
}

func (r *DiscountRepository) Update(ctx context.Context, d *domain.DiscountCode) error {
	m := toDiscountCodeModel(d)
	tx := conn(ctx, r.db).Model(&discountCodeModel{}).Where("id = ?", d.ID).Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DiscountRepository) GetByID(ctx context.Context, id int64) (*domain.DiscountCode, error) {
	var m discountCodeModel
	tx := conn(ctx, r.db).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainDiscountCode(m), nil
}

func (r *DiscountRepository) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	var m discountCodeModel
	tx := conn(ctx, r.db).Where("code = ?", code).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainDiscountCode(m), nil
}

func (r *DiscountRepository) List(ctx context.Context, limit, offset int) ([]domain.DiscountCode, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []discountCodeModel
	tx := conn(ctx, r.db).Order("id DESC").Limit(limit).Offset(offset).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.DiscountCode, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainDiscountCode(m))
	}
	return out, nil
}

func (r *DiscountRepository) SetStatus(ctx context.Context, id int64, status domain.DiscountStatus) error {
	tx := conn(ctx, r.db).Model(&discountCodeModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type usageModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	BookingID      int64     `gorm:"column:booking_id"`
	AccountID      int64     `gorm:"column:account_id"`
	DiscountCodeID *int64    `gorm:"column:discount_code_id"`
	PromotionID    *int64    `gorm:"column:promotion_id"`
	Amount         float64   `gorm:"column:amount"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (usageModel) TableName() string { return "discount_usages" }

// LockCode row-locks a discount code for the rest of the current
// transaction. A second redeemer blocks here until the first commits,
// so its usage re-count sees the committed row.
func (r *DiscountRepository) LockCode(ctx context.Context, codeID int64) error {
	var id int64
	tx := conn(ctx, r.db).
		Table("discount_codes").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", codeID).
		Pluck("id", &id)
	return tx.Error
}

func (r *DiscountRepository) CountUsage(ctx context.Context, codeID int64) (int64, error) {
	var n int64
	tx := conn(ctx, r.db).Model(&usageModel{}).
		Where("discount_code_id = ?", codeID).
		Count(&n)
	return n, tx.Error
}

func (r *DiscountRepository) CountUsageByAccount(ctx context.Context, codeID, accountID int64) (int64, error) {
	var n int64
	tx := conn(ctx, r.db).Model(&usageModel{}).
		Where("discount_code_id = ? AND account_id = ?", codeID, accountID).
		Count(&n)
	return n, tx.Error
}

func (r *DiscountRepository) CreateUsage(ctx context.Context, u *domain.DiscountUsage) error {
	m := usageModel{
		BookingID:      u.BookingID,
		AccountID:      u.AccountID,
		DiscountCodeID: u.DiscountCodeID,
		PromotionID:    u.PromotionID,
		Amount:         u.Amount,
	}
	if tx := conn(ctx, r.db).Create(&m); tx.Error != nil {
		return tx.Error
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	return nil
}

// GetUsageByBooking returns the usage record created with a booking, or
// ErrNotFound when the booking was priced without a code or promotion.
func (r *DiscountRepository) GetUsageByBooking(ctx context.Context, bookingID int64) (*domain.DiscountUsage, error) {
	var m usageModel
	tx := conn(ctx, r.db).Where("booking_id = ?", bookingID).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return &domain.DiscountUsage{
		ID:             m.ID,
		BookingID:      m.BookingID,
		AccountID:      m.AccountID,
		DiscountCodeID: m.DiscountCodeID,
		PromotionID:    m.PromotionID,
		Amount:         m.Amount,
		CreatedAt:      m.CreatedAt,
	}, nil
}

func (r *DiscountRepository) ListUsage(ctx context.Context, codeID int64, limit, offset int) ([]domain.DiscountUsage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []usageModel
	tx := conn(ctx, r.db).
		Where("discount_code_id = ?", codeID).
		Order("id DESC").Limit(limit).Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.DiscountUsage, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.DiscountUsage{
			ID:             m.ID,
			BookingID:      m.BookingID,
			AccountID:      m.AccountID,
			DiscountCodeID: m.DiscountCodeID,
			PromotionID:    m.PromotionID,
			Amount:         m.Amount,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out, nil
}
