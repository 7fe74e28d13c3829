package discount

import (
	"context"
	"errors"
	"strings"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"
)

type Service struct {
	codes  CodeRepository
	promos PromotionRepository
}

func NewService(codes CodeRepository, promos PromotionRepository) *Service {
	return &Service{codes: codes, promos: promos}
}

func (s *Service) CreateCode(ctx context.Context, d *domain.DiscountCode) (*domain.DiscountCode, error) {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	if err := validateCode(d); err != nil {
		return nil, err
	}
	if existing, err := s.codes.GetByCode(ctx, d.Code); err == nil && existing != nil {
		return nil, ErrDuplicate
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if d.Status == "" {
		d.Status = domain.DiscountActive
	}
	if err := s.codes.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) UpdateCode(ctx context.Context, d *domain.DiscountCode) (*domain.DiscountCode, error) {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	if err := validateCode(d); err != nil {
		return nil, err
	}
	if err := s.codes.Update(ctx, d); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.codes.GetByID(ctx, d.ID)
}

// GetCode reports EXPIRED for codes past their validity window without
// rewriting the stored status.
func (s *Service) GetCode(ctx context.Context, id int64) (*domain.DiscountCode, error) {
	d, err := s.codes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	deriveExpiry(d)
	return d, nil
}

func (s *Service) ListCodes(ctx context.Context, limit, offset int) ([]domain.DiscountCode, error) {
	codes, err := s.codes.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range codes {
		deriveExpiry(&codes[i])
	}
	return codes, nil
}

func (s *Service) SetCodeStatus(ctx context.Context, id int64, status domain.DiscountStatus) error {
	switch status {
	case domain.DiscountActive, domain.DiscountInactive, domain.DiscountDisabled:
	default:
		return ErrValidation
	}
	if err := s.codes.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

type UsageReport struct {
	Usages []domain.DiscountUsage `json:"usages"`
	Total  int64                  `json:"total"`
}

func (s *Service) CodeUsage(ctx context.Context, codeID int64, limit, offset int) (*UsageReport, error) {
	if _, err := s.codes.GetByID(ctx, codeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	usages, err := s.codes.ListUsage(ctx, codeID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.codes.CountUsage(ctx, codeID)
	if err != nil {
		return nil, err
	}
	return &UsageReport{Usages: usages, Total: total}, nil
}

func (s *Service) CreatePromotion(ctx context.Context, p *domain.Promotion) (*domain.Promotion, error) {
	if err := validatePromotion(p); err != nil {
		return nil, err
	}
	if p.Status == "" {
		p.Status = domain.DiscountActive
	}
	if p.Type == "" {
		p.Type = domain.PromotionSystem
	}
	if err := s.promos.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdatePromotion(ctx context.Context, p *domain.Promotion) (*domain.Promotion, error) {
	if err := validatePromotion(p); err != nil {
		return nil, err
	}
	if err := s.promos.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.promos.GetByID(ctx, p.ID)
}

func (s *Service) GetPromotion(ctx context.Context, id int64) (*domain.Promotion, error) {
	p, err := s.promos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) ListPromotions(ctx context.Context, limit, offset int) ([]domain.Promotion, error) {
	return s.promos.List(ctx, limit, offset)
}

func (s *Service) SetPromotionStatus(ctx context.Context, id int64, status domain.DiscountStatus) error {
	switch status {
	case domain.DiscountActive, domain.DiscountInactive, domain.DiscountDisabled:
	default:
		return ErrValidation
	}
	if err := s.promos.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validateCode(d *domain.DiscountCode) error {
	if d.Code == "" || d.DiscountValue <= 0 {
		return ErrValidation
	}
	switch d.DiscountType {
	case domain.DiscountPercent:
		if d.DiscountValue > 100 {
			return ErrValidation
		}
	case domain.DiscountFixed:
	default:
		return ErrValidation
	}
	if !d.ExpiryDate.After(d.StartDate) {
		return ErrValidation
	}
	// the applicable window, when set, must nest inside the validity window
	if d.ApplicableStartDate != nil || d.ApplicableEndDate != nil {
		if d.ApplicableStartDate == nil || d.ApplicableEndDate == nil {
			return ErrValidation
		}
		if d.ApplicableEndDate.Before(*d.ApplicableStartDate) {
			return ErrValidation
		}
		if d.ApplicableStartDate.Before(d.StartDate) || d.ApplicableEndDate.After(d.ExpiryDate) {
			return ErrValidation
		}
	}
	if d.MaxDiscount != nil && *d.MaxDiscount <= 0 {
		return ErrValidation
	}
	if d.MinPurchase != nil && *d.MinPurchase < 0 {
		return ErrValidation
	}
	if d.MinNights != nil && d.MaxNights != nil && *d.MaxNights < *d.MinNights {
		return ErrValidation
	}
	if d.UsageLimit != nil && *d.UsageLimit <= 0 {
		return ErrValidation
	}
	if d.PerUserLimit != nil && *d.PerUserLimit <= 0 {
		return ErrValidation
	}
	return nil
}

func validatePromotion(p *domain.Promotion) error {
	if p.Name == "" || p.DiscountValue <= 0 {
		return ErrValidation
	}
	switch p.DiscountType {
	case domain.DiscountPercent:
		if p.DiscountValue > 100 {
			return ErrValidation
		}
	case domain.DiscountFixed:
	default:
		return ErrValidation
	}
	switch p.Type {
	case "", domain.PromotionProvider, domain.PromotionSystem, domain.PromotionBoth:
	default:
		return ErrValidation
	}
	if !p.ExpiryDate.After(p.StartDate) {
		return ErrValidation
	}
	return nil
}

func deriveExpiry(d *domain.DiscountCode) {
	if d.Status == domain.DiscountActive && time.Now().UTC().After(d.ExpiryDate) {
		d.Status = domain.DiscountExpired
	}
}
