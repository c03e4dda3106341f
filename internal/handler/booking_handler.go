package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hotel-yunuen/service-reservation/internal/application"
	"github.com/hotel-yunuen/service-reservation/internal/platform/auth"
	"github.com/hotel-yunuen/service-reservation/internal/platform/middleware"
	"github.com/hotel-yunuen/service-reservation/internal/platform/response"
)

// BookingHandler handles HTTP requests for guest bookings.
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware(jwtManager))
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/invoice", h.Invoice)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/pay", h.PayBooking)
	}
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateBooking(c.Request.Context(), claims.UserID, claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto)
}

// ListBookings handles GET /api/v1/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	page, limit := pageParams(c)

	dto, err := h.service.ListBookings(c.Request.Context(), userID, c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto, dto.Total, page, limit)
}

// GetBooking handles GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	h.owned(c, h.service.GetBooking)
}

// Invoice handles GET /api/v1/bookings/:id/invoice
func (h *BookingHandler) Invoice(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	bookingID, ok := paramID(c, "id", "booking")
	if !ok {
		return
	}

	dto, err := h.service.Invoice(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.owned(c, h.service.CancelBooking)
}

// PayBooking handles POST /api/v1/bookings/:id/pay
func (h *BookingHandler) PayBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	bookingID, ok := paramID(c, "id", "booking")
	if !ok {
		return
	}

	dto, err := h.service.PayBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

func (h *BookingHandler) owned(c *gin.Context, call ownedCall) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	bookingID, ok := paramID(c, "id", "booking")
	if !ok {
		return
	}

	dto, err := call(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}
