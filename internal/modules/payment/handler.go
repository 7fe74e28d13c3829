package payment

import (
	"errors"
	"net/http"
	"strconv"

	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/:id/payments", h.ListByBooking)
	rg.POST("/payments/:id/confirm-cash", h.ConfirmCash)
	rg.POST("/payments/:id/fail", h.MarkFailed)
	rg.POST("/payments/:id/refund", h.Refund)
}

func (h *Handler) ListByBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	payments, err := h.service.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list payments")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) ConfirmCash(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment id")
		return
	}
	p, err := h.service.ConfirmCash(c.Request.Context(), id, c.GetInt64("admin_id"))
	if err != nil {
		writePaymentError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) MarkFailed(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment id")
		return
	}
	var req MarkFailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Failure reason is required")
		return
	}
	p, err := h.service.MarkFailed(c.Request.Context(), id, req.Reason)
	if err != nil {
		writePaymentError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) Refund(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment id")
		return
	}
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Refund amount and reason are required")
		return
	}
	p, err := h.service.Refund(c.Request.Context(), id, req.Amount, req.Reason, c.GetInt64("admin_id"))
	if err != nil {
		writePaymentError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"payment": p})
}

func writePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusConflict, "INVALID_PAYMENT_STATUS", "Payment is not in the required status")
	case errors.Is(err, ErrRefundExceeded):
		response.Error(c, http.StatusUnprocessableEntity, "REFUND_EXCEEDED", "Refund amount exceeds the paid amount")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment request")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, try again")
	}
}
