package handlers

import (
	"net/http"

	"transport_backend/internal/services"
	"transport_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	*BaseHandler
	bookingService services.BookingService
}

func NewBookingHandler(base *BaseHandler, bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		BaseHandler:    base,
		bookingService: bookingService,
	}
}

func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/my-bookings", h.ListMyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.DELETE("/bookings/:id", h.DeleteBooking)
}

// CreateBooking godoc
// @Summary Создать заказ
// @Description После создания все верифицированные водители получают уведомление
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookingRequest true "Заказ"
// @Success 201 {object} dto.DataResponse
// @Router /api/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	customerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), h.GetDB(c), customerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, "Booking created successfully.", booking)
}

func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	customerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, err := h.bookingService.ListMyBookings(c.Request.Context(), h.GetDB(c), customerID, ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondList(c, "Bookings fetched successfully.", page)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	customerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), h.GetDB(c), customerID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Booking fetched successfully.", booking)
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	customerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.bookingService.DeleteBooking(c.Request.Context(), h.GetDB(c), customerID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Booking deleted successfully.")
}
