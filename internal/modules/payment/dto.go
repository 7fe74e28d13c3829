package payment

type RefundRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason" binding:"required"`
}

type MarkFailedRequest struct {
	Reason string `json:"reason" binding:"required"`
}
