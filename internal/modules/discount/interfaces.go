package discount

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
)

type CodeRepository interface {
	Create(ctx context.Context, d *domain.DiscountCode) error
	Update(ctx context.Context, d *domain.DiscountCode) error
	GetByID(ctx context.Context, id int64) (*domain.DiscountCode, error)
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	List(ctx context.Context, limit, offset int) ([]domain.DiscountCode, error)
	SetStatus(ctx context.Context, id int64, status domain.DiscountStatus) error
	ListUsage(ctx context.Context, codeID int64, limit, offset int) ([]domain.DiscountUsage, error)
	CountUsage(ctx context.Context, codeID int64) (int64, error)
}

type PromotionRepository interface {
	Create(ctx context.Context, p *domain.Promotion) error
	Update(ctx context.Context, p *domain.Promotion) error
	GetByID(ctx context.Context, id int64) (*domain.Promotion, error)
	List(ctx context.Context, limit, offset int) ([]domain.Promotion, error)
	SetStatus(ctx context.Context, id int64, status domain.DiscountStatus) error
	ActiveAt(ctx context.Context, now time.Time) ([]domain.Promotion, error)
}
