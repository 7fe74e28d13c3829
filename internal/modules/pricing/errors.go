package pricing

import (
	"errors"
	"fmt"
)

var ErrDiscountIneligible = errors.New("discount ineligible")

type IneligibleReason string

const (
	ReasonInactive           IneligibleReason = "inactive"
	ReasonNotStarted         IneligibleReason = "not_started"
	ReasonExpired            IneligibleReason = "expired"
	ReasonOutsideWindow      IneligibleReason = "outside_applicable_window"
	ReasonBelowMinPurchase   IneligibleReason = "below_min_purchase"
	ReasonNightsOutOfRange   IneligibleReason = "nights_out_of_range"
	ReasonHotelNotApplicable IneligibleReason = "hotel_not_applicable"
	ReasonTypeNotApplicable  IneligibleReason = "room_type_not_applicable"
	ReasonUsageExhausted     IneligibleReason = "usage_exhausted"
	ReasonPerUserLimit       IneligibleReason = "per_user_limit_reached"
	ReasonUnknownCode        IneligibleReason = "unknown_code"
)

// IneligibleError reports why a discount code failed an eligibility
// predicate. It matches ErrDiscountIneligible under errors.Is so outer
// layers can branch without inspecting the reason.
type IneligibleError struct {
	Code   string
	Reason IneligibleReason
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("discount code %q ineligible: %s", e.Code, e.Reason)
}

func (e *IneligibleError) Is(target error) bool {
	return target == ErrDiscountIneligible
}
