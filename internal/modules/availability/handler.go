package availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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
	rg.GET("/room-types/:id/available-rooms", h.AvailableRooms)
}

func (h *Handler) AvailableRooms(c *gin.Context) {
	roomTypeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room type id")
		return
	}
	checkIn, err1 := time.Parse("2006-01-02", c.Query("check_in"))
	checkOut, err2 := time.Parse("2006-01-02", c.Query("check_out"))
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_in and check_out must be YYYY-MM-DD dates")
		return
	}
	count, _ := strconv.Atoi(c.DefaultQuery("count", "1"))

	rooms, err := h.service.FindAvailable(c.Request.Context(), roomTypeID, checkIn, checkOut, count)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDateRange):
			response.Error(c, http.StatusBadRequest, "INVALID_DATE_RANGE", "Check-out must be after check-in")
		case errors.Is(err, repository.ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room type not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check availability")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}
