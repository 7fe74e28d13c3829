package booking

import (
	"errors"
	"net/http"
	"strconv"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/availability"
	"hotelbooking/internal/modules/pricing"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings", h.CreateBooking)
	rg.PATCH("/bookings/:id", h.UpdateBooking)
	rg.PATCH("/bookings/:id/status", h.UpdateStatus)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.POST("/bookings/:id/notes", h.AddNote)
	rg.POST("/bookings/:id/send-confirmation", h.SendConfirmation)
}

func (h *Handler) ListBookings(c *gin.Context) {
	hotelID, _ := strconv.ParseInt(c.Query("hotel_id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	out, err := h.service.ListBookings(c.Request.Context(), repository.BookingFilter{
		Status:  c.Query("status"),
		HotelID: hotelID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	detail, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.ActorID = c.GetInt64("admin_id")

	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.ActorID = c.GetInt64("admin_id")

	b, err := h.service.UpdateBooking(c.Request.Context(), id, req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), id, domain.BookingStatus(req.Status), c.GetInt64("admin_id"), req.Note)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, c.GetInt64("admin_id"), req.Reason)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) AddNote(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Note text is required")
		return
	}

	n, err := h.service.AddInternalNote(c.Request.Context(), id, c.GetInt64("admin_id"), req.Text)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"note": n})
}

func (h *Handler) SendConfirmation(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	if err := h.service.SendConfirmationEmail(c.Request.Context(), id); err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": true})
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func writeBookingError(c *gin.Context, err error) {
	var ineligible *pricing.IneligibleError
	var transition *InvalidTransitionError

	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.As(err, &transition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", transition.Error())
	case errors.Is(err, availability.ErrInvalidDateRange):
		response.Error(c, http.StatusBadRequest, "INVALID_DATE_RANGE", "Check-out must be after check-in")
	case errors.Is(err, availability.ErrRoomNoLongerAvailable):
		response.Error(c, http.StatusConflict, "ROOM_NO_LONGER_AVAILABLE", "Room is no longer available for the selected dates")
	case errors.As(err, &ineligible):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "DISCOUNT_INELIGIBLE",
			ineligible.Error(), gin.H{"reason": ineligible.Reason})
	case errors.Is(err, ErrValidation), errors.Is(err, availability.ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Referenced entity not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, try again")
	}
}
