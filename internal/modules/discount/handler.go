package discount

import (
	"errors"
	"net/http"
	"strconv"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/discount-codes", h.ListCodes)
	rg.POST("/discount-codes", h.CreateCode)
	rg.GET("/discount-codes/:id", h.GetCode)
	rg.PUT("/discount-codes/:id", h.UpdateCode)
	rg.PATCH("/discount-codes/:id/status", h.SetCodeStatus)
	rg.GET("/discount-codes/:id/usage", h.CodeUsage)

	rg.GET("/promotions", h.ListPromotions)
	rg.POST("/promotions", h.CreatePromotion)
	rg.GET("/promotions/:id", h.GetPromotion)
	rg.PUT("/promotions/:id", h.UpdatePromotion)
	rg.PATCH("/promotions/:id/status", h.SetPromotionStatus)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) ListCodes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	codes, err := h.service.ListCodes(c.Request.Context(), limit, offset)
	if err != nil {
		writeDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"discount_codes": codes})
}

func (h *Handler) CreateCode(c *gin.Context) {
	var d domain.DiscountCode
	if err := c.ShouldBindJSON(&d); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&d); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid discount definition", errs)
		return
	}
	created, err := h.service.CreateCode(c.Request.Context(), &d)
	if err != nil {
		writeDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"discount_code": created})
}

func (h *Handler) GetCode(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}
	d, err := h.service.GetCode(c.Request.Context(), id)
	if err != nil {
		writeDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"discount_code": d})
}

func (h *Handler) UpdateCode(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}
	var d domain.DiscountCode
	if err := c.ShouldBindJSON(&d); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	d.ID = id
	updated, err := h.service.UpdateCode(c.Request.Context(), &d)
	if err != nil {
		writeDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"discount_code": updated})
}

func (h *Handler) SetCodeStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Status is required")
		return
	}
	if err := h.service.SetCodeStatus(c.Request.Context(), id, domain.DiscountStatus(req.Status)); err != nil {
		writeDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) CodeUsage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	report, err := h.service.CodeUsage(c.Request.Context(), id, limit, offset)
	if err != nil {
		writeDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

func (h *Handler) ListPromotions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	promos, err := h.service.ListPromotions(c.Request.Context(), limit, offset)
	if err != nil {
		writeDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promotions": promos})
}

func (h *Handler) CreatePromotion(c *gin.Context) {
	var p domain.Promotion
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&p); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid promotion definition", errs)
		return
	}
	created, err := h.service.CreatePromotion(c.Request.Context(), &p)
	if err != nil {
		writeDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"promotion": created})
}

func (h *Handler) GetPromotion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}
	p, err := h.service.GetPromotion(c.Request.Context(), id)
	if err != nil {
		writeDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promotion": p})
}

func (h *Handler) UpdatePromotion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}
	var p domain.Promotion
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	p.ID = id
	updated, err := h.service.UpdatePromotion(c.Request.Context(), &p)
	if err != nil {
		writeDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promotion": updated})
}

func (h *Handler) SetPromotionStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Status is required")
		return
	}
	if err := h.service.SetPromotionStatus(c.Request.Context(), id, domain.DiscountStatus(req.Status)); err != nil {
		writeDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func writeDiscountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Discount not found")
	case errors.Is(err, ErrDuplicate):
		response.Error(c, http.StatusConflict, "DUPLICATE_CODE", "A code with this name already exists")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid discount definition")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, try again")
	}
}
