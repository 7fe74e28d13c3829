package repository

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

type PromotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

type promotionModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	Name          string    `gorm:"column:name"`
	Type          string    `gorm:"column:type"`
	DiscountType  string    `gorm:"column:discount_type"`
	DiscountValue float64   `gorm:"column:discount_value"`
	MaxDiscount   *float64  `gorm:"column:max_discount"`
	MinPurchase   *float64  `gorm:"column:min_purchase"`
	HotelIDs      *string   `gorm:"column:hotel_ids"`
	RoomTypeIDs   *string   `gorm:"column:room_type_ids"`
	StartDate     time.Time `gorm:"column:start_date"`
	ExpiryDate    time.Time `gorm:"column:expiry_date"`
	Status        string    `gorm:"column:status"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (promotionModel) TableName() string { return "promotions" }

func toDomainPromotion(m promotionModel) *domain.Promotion {
	return &domain.Promotion{
		ID:            m.ID,
		Name:          m.Name,
		Type:          domain.PromotionType(m.Type),
		DiscountType:  domain.DiscountType(m.DiscountType),
		DiscountValue: m.DiscountValue,
		MaxDiscount:   m.MaxDiscount,
		MinPurchase:   m.MinPurchase,
		HotelIDs:      idsFromColumn(m.HotelIDs),
		RoomTypeIDs:   idsFromColumn(m.RoomTypeIDs),
		StartDate:     m.StartDate,
		ExpiryDate:    m.ExpiryDate,
		Status:        domain.DiscountStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toPromotionModel(p *domain.Promotion) promotionModel {
	return promotionModel{
		ID:            p.ID,
		Name:          p.Name,
		Type:          string(p.Type),
		DiscountType:  string(p.DiscountType),
		DiscountValue: p.DiscountValue,
		MaxDiscount:   p.MaxDiscount,
		MinPurchase:   p.MinPurchase,
		HotelIDs:      idsToColumn(p.HotelIDs),
		RoomTypeIDs:   idsToColumn(p.RoomTypeIDs),
		StartDate:     p.StartDate,
		ExpiryDate:    p.ExpiryDate,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (r *PromotionRepository) Create(ctx context.Context, p *domain.Promotion) error {
	m := toPromotionModel(p)
	if tx := conn(ctx, r.db).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPromotion(m)
	return nil
}

func (r *PromotionRepository) Update(ctx context.Context, p *domain.Promotion) error {
	m := toPromotionModel(p)
	tx := conn(ctx, r.db).Model(&promotionModel{}).Where("id = ?", p.ID).Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PromotionRepository) GetByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	var m promotionModel
	tx := conn(ctx, r.db).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainPromotion(m), nil
}

func (r *PromotionRepository) List(ctx context.Context, limit, offset int) ([]domain.Promotion, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []promotionModel
	tx := conn(ctx, r.db).Order("id DESC").Limit(limit).Offset(offset).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Promotion, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPromotion(m))
	}
	return out, nil
}

func (r *PromotionRepository) SetStatus(ctx context.Context, id int64, status domain.DiscountStatus) error {
	tx := conn(ctx, r.db).Model(&promotionModel{}).
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

// ActiveAt returns promotions whose validity window contains now. Scope
// filtering against a hotel or room type happens in the pricing engine.
func (r *PromotionRepository) ActiveAt(ctx context.Context, now time.Time) ([]domain.Promotion, error) {
	var rows []promotionModel
	tx := conn(ctx, r.db).
		Where("status = ? AND start_date <= ? AND expiry_date >= ?", string(domain.DiscountActive), now, now).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Promotion, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPromotion(m))
	}
	return out, nil
}
