package discount

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"
)

type MockCodeRepository struct {
	mock.Mock
}

func (m *MockCodeRepository) Create(ctx context.Context, d *domain.DiscountCode) error {
	args := m.Called(ctx, d)
	if d != nil {
		d.ID = 42
	}
	return args.Error(0)
}

func (m *MockCodeRepository) Update(ctx context.Context, d *domain.DiscountCode) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockCodeRepository) GetByID(ctx context.Context, id int64) (*domain.DiscountCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiscountCode), args.Error(1)
}

func (m *MockCodeRepository) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiscountCode), args.Error(1)
}

func (m *MockCodeRepository) List(ctx context.Context, limit, offset int) ([]domain.DiscountCode, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.DiscountCode), args.Error(1)
}

func (m *MockCodeRepository) SetStatus(ctx context.Context, id int64, status domain.DiscountStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCodeRepository) ListUsage(ctx context.Context, codeID int64, limit, offset int) ([]domain.DiscountUsage, error) {
	args := m.Called(ctx, codeID, limit, offset)
	return args.Get(0).([]domain.DiscountUsage), args.Error(1)
}

func (m *MockCodeRepository) CountUsage(ctx context.Context, codeID int64) (int64, error) {
	args := m.Called(ctx, codeID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) Create(ctx context.Context, p *domain.Promotion) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPromotionRepository) Update(ctx context.Context, p *domain.Promotion) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPromotionRepository) GetByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) List(ctx context.Context, limit, offset int) ([]domain.Promotion, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) SetStatus(ctx context.Context, id int64, status domain.DiscountStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPromotionRepository) ActiveAt(ctx context.Context, now time.Time) ([]domain.Promotion, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Promotion), args.Error(1)
}

func validNewCode() *domain.DiscountCode {
	return &domain.DiscountCode{
		Code:          "summer25",
		DiscountType:  domain.DiscountPercent,
		DiscountValue: 25,
		StartDate:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestService_CreateCode_NormalizesAndDefaults(t *testing.T) {
	codes := new(MockCodeRepository)
	codes.On("GetByCode", mock.Anything, "SUMMER25").Return(nil, repository.ErrNotFound)
	codes.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(codes, new(MockPromotionRepository))
	d, err := service.CreateCode(context.Background(), validNewCode())

	assert.NoError(t, err)
	assert.Equal(t, "SUMMER25", d.Code)
	assert.Equal(t, domain.DiscountActive, d.Status)
}

func TestService_CreateCode_Duplicate(t *testing.T) {
	codes := new(MockCodeRepository)
	codes.On("GetByCode", mock.Anything, "SUMMER25").Return(&domain.DiscountCode{ID: 1, Code: "SUMMER25"}, nil)

	service := NewService(codes, new(MockPromotionRepository))
	_, err := service.CreateCode(context.Background(), validNewCode())

	assert.ErrorIs(t, err, ErrDuplicate)
	codes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateCode_PercentOverHundred(t *testing.T) {
	service := NewService(new(MockCodeRepository), new(MockPromotionRepository))

	d := validNewCode()
	d.DiscountValue = 150

	_, err := service.CreateCode(context.Background(), d)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateCode_ExpiryBeforeStart(t *testing.T) {
	service := NewService(new(MockCodeRepository), new(MockPromotionRepository))

	d := validNewCode()
	d.ExpiryDate = d.StartDate.AddDate(0, -1, 0)

	_, err := service.CreateCode(context.Background(), d)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateCode_ApplicableWindowMustNest(t *testing.T) {
	service := NewService(new(MockCodeRepository), new(MockPromotionRepository))

	d := validNewCode()
	start := d.StartDate.AddDate(0, 0, -5) // before the validity window opens
	end := d.ExpiryDate.AddDate(0, 0, -1)
	d.ApplicableStartDate = &start
	d.ApplicableEndDate = &end

	_, err := service.CreateCode(context.Background(), d)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateCode_ApplicableWindowNeedsBothEnds(t *testing.T) {
	service := NewService(new(MockCodeRepository), new(MockPromotionRepository))

	d := validNewCode()
	start := d.StartDate.AddDate(0, 0, 5)
	d.ApplicableStartDate = &start

	_, err := service.CreateCode(context.Background(), d)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateCode_NonPositiveUsageLimit(t *testing.T) {
	service := NewService(new(MockCodeRepository), new(MockPromotionRepository))

	d := validNewCode()
	limit := int64(0)
	d.UsageLimit = &limit

	_, err := service.CreateCode(context.Background(), d)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_GetCode_DerivesExpired(t *testing.T) {
	codes := new(MockCodeRepository)
	codes.On("GetByID", mock.Anything, int64(42)).Return(&domain.DiscountCode{
		ID:         42,
		Code:       "OLD",
		Status:     domain.DiscountActive,
		StartDate:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
	}, nil)

	service := NewService(codes, new(MockPromotionRepository))
	d, err := service.GetCode(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, domain.DiscountExpired, d.Status)
}

func TestService_SetCodeStatus_RejectsExpired(t *testing.T) {
	service := NewService(new(MockCodeRepository), new(MockPromotionRepository))

	// EXPIRED is derived, never stored
	err := service.SetCodeStatus(context.Background(), 42, domain.DiscountExpired)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CodeUsage(t *testing.T) {
	codes := new(MockCodeRepository)
	codes.On("GetByID", mock.Anything, int64(42)).Return(&domain.DiscountCode{ID: 42}, nil)
	codes.On("ListUsage", mock.Anything, int64(42), 20, 0).Return([]domain.DiscountUsage{
		{ID: 1, BookingID: 9, AccountID: 8, Amount: 300},
	}, nil)
	codes.On("CountUsage", mock.Anything, int64(42)).Return(int64(7), nil)

	service := NewService(codes, new(MockPromotionRepository))
	report, err := service.CodeUsage(context.Background(), 42, 20, 0)

	assert.NoError(t, err)
	assert.Len(t, report.Usages, 1)
	assert.Equal(t, int64(7), report.Total)
}

func TestService_CreatePromotion_Defaults(t *testing.T) {
	promos := new(MockPromotionRepository)
	promos.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(new(MockCodeRepository), promos)
	p, err := service.CreatePromotion(context.Background(), &domain.Promotion{
		Name:          "Weekend Deal",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 500,
		StartDate:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.DiscountActive, p.Status)
	assert.Equal(t, domain.PromotionSystem, p.Type)
}

func TestService_CreatePromotion_BadType(t *testing.T) {
	service := NewService(new(MockCodeRepository), new(MockPromotionRepository))

	_, err := service.CreatePromotion(context.Background(), &domain.Promotion{
		Name:          "Weekend Deal",
		Type:          "WEIRD",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 500,
		StartDate:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_UpdatePromotion_NotFound(t *testing.T) {
	promos := new(MockPromotionRepository)
	promos.On("Update", mock.Anything, mock.Anything).Return(repository.ErrNotFound)

	service := NewService(new(MockCodeRepository), promos)
	_, err := service.UpdatePromotion(context.Background(), &domain.Promotion{
		ID:            9,
		Name:          "Gone",
		DiscountType:  domain.DiscountPercent,
		DiscountValue: 10,
		StartDate:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrNotFound)
}
