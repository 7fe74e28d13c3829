package pricing

import (
	"math"
	"time"

	"hotelbooking/internal/domain"
)

type LineItem struct {
	RoomID        int64
	RoomTypeID    int64
	PricePerNight float64
	Nights        int
}

// UsageSnapshot is the usage-count state the quote is computed against.
// The engine never increments counters; recording usage is an explicit
// step performed at booking commit.
type UsageSnapshot struct {
	Total     int64
	ByAccount int64
}

type Input struct {
	Items      []LineItem
	HotelID    int64
	AccountID  int64
	Code       *domain.DiscountCode
	CodeUsage  UsageSnapshot
	Promotions []domain.Promotion
	Now        time.Time
}

type Quote struct {
	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"tax_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalAmount    float64 `json:"total_amount"`

	AppliedCodeID      *int64 `json:"applied_code_id,omitempty"`
	AppliedPromotionID *int64 `json:"applied_promotion_id,omitempty"`
}

// Engine computes booking totals. Quote is pure: the same input always
// yields the same output.
type Engine struct {
	taxRate float64
}

func NewEngine(taxRate float64) *Engine {
	return &Engine{taxRate: taxRate}
}

// Quote computes subtotal, tax, discount and total for the line items.
// If a discount code is present and ineligible, Quote returns an
// *IneligibleError; the caller decides whether to reject the booking or
// retry without the code. When both the code and a promotion would
// apply, at most one does: the greater discount wins, ties go to the
// code. total = max(0, subtotal + tax - discount).
func (e *Engine) Quote(in Input) (*Quote, error) {
	var subtotal float64
	var nights int
	for _, it := range in.Items {
		subtotal += it.PricePerNight * float64(it.Nights)
		nights += it.Nights
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * e.taxRate)

	q := &Quote{Subtotal: subtotal, TaxAmount: tax}

	var codeAmount float64
	if in.Code != nil {
		if err := e.checkEligibility(in.Code, in, subtotal, nights); err != nil {
			return nil, err
		}
		codeAmount = discountAmount(in.Code.DiscountType, in.Code.DiscountValue, in.Code.MaxDiscount, subtotal)
	}

	bestPromo, promoAmount := e.bestPromotion(in, subtotal)

	switch {
	case in.Code != nil && codeAmount >= promoAmount:
		q.DiscountAmount = codeAmount
		id := in.Code.ID
		q.AppliedCodeID = &id
	case bestPromo != nil && promoAmount > 0:
		q.DiscountAmount = promoAmount
		id := bestPromo.ID
		q.AppliedPromotionID = &id
	}

	q.TotalAmount = round2(math.Max(0, subtotal+tax-q.DiscountAmount))
	return q, nil
}

func (e *Engine) checkEligibility(code *domain.DiscountCode, in Input, subtotal float64, nights int) error {
	fail := func(r IneligibleReason) error {
		return &IneligibleError{Code: code.Code, Reason: r}
	}

	if code.Status != domain.DiscountActive {
		return fail(ReasonInactive)
	}
	if in.Now.Before(code.StartDate) {
		return fail(ReasonNotStarted)
	}
	if in.Now.After(code.ExpiryDate) {
		return fail(ReasonExpired)
	}
	if code.ApplicableStartDate != nil && in.Now.Before(*code.ApplicableStartDate) {
		return fail(ReasonOutsideWindow)
	}
	if code.ApplicableEndDate != nil && in.Now.After(*code.ApplicableEndDate) {
		return fail(ReasonOutsideWindow)
	}
	if code.MinPurchase != nil && subtotal < *code.MinPurchase {
		return fail(ReasonBelowMinPurchase)
	}
	if code.MinNights != nil && nights < *code.MinNights {
		return fail(ReasonNightsOutOfRange)
	}
	if code.MaxNights != nil && nights > *code.MaxNights {
		return fail(ReasonNightsOutOfRange)
	}
	if len(code.ApplicableHotels) > 0 && !containsID(code.ApplicableHotels, in.HotelID) {
		return fail(ReasonHotelNotApplicable)
	}
	if len(code.ApplicableTypes) > 0 && !intersectsTypes(code.ApplicableTypes, in.Items) {
		return fail(ReasonTypeNotApplicable)
	}
	if code.UsageLimit != nil && in.CodeUsage.Total >= *code.UsageLimit {
		return fail(ReasonUsageExhausted)
	}
	if code.PerUserLimit != nil && in.CodeUsage.ByAccount >= *code.PerUserLimit {
		return fail(ReasonPerUserLimit)
	}
	return nil
}

// bestPromotion picks the eligible promotion with the largest computed
// amount. Ineligible promotions are skipped silently: unlike a code the
// customer typed in, nobody asked for them.
func (e *Engine) bestPromotion(in Input, subtotal float64) (*domain.Promotion, float64) {
	var best *domain.Promotion
	var bestAmount float64
	for i := range in.Promotions {
		p := &in.Promotions[i]
		if p.Status != domain.DiscountActive {
			continue
		}
		if in.Now.Before(p.StartDate) || in.Now.After(p.ExpiryDate) {
			continue
		}
		if !p.AppliesToHotel(in.HotelID) {
			continue
		}
		if !promotionCoversItems(p, in.Items) {
			continue
		}
		if p.MinPurchase != nil && subtotal < *p.MinPurchase {
			continue
		}
		amount := discountAmount(p.DiscountType, p.DiscountValue, p.MaxDiscount, subtotal)
		if amount > bestAmount {
			best = p
			bestAmount = amount
		}
	}
	return best, bestAmount
}

// NightlyPrice returns the per-night price for a room type after the
// best applicable promotion, for availability listings.
func (e *Engine) NightlyPrice(base float64, hotelID, roomTypeID int64, promotions []domain.Promotion, now time.Time) (float64, *domain.Promotion) {
	var best *domain.Promotion
	var bestAmount float64
	for i := range promotions {
		p := &promotions[i]
		if p.Status != domain.DiscountActive {
			continue
		}
		if now.Before(p.StartDate) || now.After(p.ExpiryDate) {
			continue
		}
		if !p.AppliesToHotel(hotelID) || !p.AppliesToRoomType(roomTypeID) {
			continue
		}
		amount := discountAmount(p.DiscountType, p.DiscountValue, p.MaxDiscount, base)
		if amount > bestAmount {
			best = p
			bestAmount = amount
		}
	}
	return round2(base - bestAmount), best
}

func discountAmount(t domain.DiscountType, value float64, maxDiscount *float64, subtotal float64) float64 {
	var amount float64
	switch t {
	case domain.DiscountPercent:
		amount = subtotal * value / 100
		if maxDiscount != nil && amount > *maxDiscount {
			amount = *maxDiscount
		}
	case domain.DiscountFixed:
		amount = value
	}
	if amount > subtotal {
		amount = subtotal
	}
	return round2(amount)
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func intersectsTypes(ids []int64, items []LineItem) bool {
	for _, it := range items {
		if containsID(ids, it.RoomTypeID) {
			return true
		}
	}
	return false
}

func promotionCoversItems(p *domain.Promotion, items []LineItem) bool {
	if len(p.RoomTypeIDs) == 0 {
		return true
	}
	for _, it := range items {
		if p.AppliesToRoomType(it.RoomTypeID) {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
