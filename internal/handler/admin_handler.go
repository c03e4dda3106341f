package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/application"
	"github.com/hotel-yunuen/service-reservation/internal/platform/auth"
	"github.com/hotel-yunuen/service-reservation/internal/platform/middleware"
	"github.com/hotel-yunuen/service-reservation/internal/platform/response"
)

// AdminHandler handles admin HTTP requests for the catalogue, bookings,
// review moderation and statistics.
type AdminHandler struct {
	hotels   HotelService
	rooms    RoomService
	bookings BookingService
	reviews  ReviewService
	stats    StatisticsService
}

// AdminDeps groups the services behind the admin routes.
type AdminDeps struct {
	Hotels   HotelService
	Rooms    RoomService
	Bookings BookingService
	Reviews  ReviewService
	Stats    StatisticsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(deps AdminDeps) *AdminHandler {
	return &AdminHandler{
		hotels:   deps.Hotels,
		rooms:    deps.Rooms,
		bookings: deps.Bookings,
		reviews:  deps.Reviews,
		stats:    deps.Stats,
	}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/admin")
	admin.Use(authMW, adminRole)
	{
		admin.POST("/hotels", h.CreateHotel)
		admin.POST("/room-types", h.CreateRoomType)
		admin.POST("/rooms", h.CreateRoom)
		admin.PATCH("/rooms/:id/status", h.SetRoomStatus)

		admin.GET("/bookings", h.ListBookings)
		admin.POST("/bookings/:id/mark-paid", h.runBookingAction(h.bookings.MarkPaid))
		admin.POST("/bookings/:id/confirm", h.runBookingAction(h.bookings.ConfirmBooking))
		admin.POST("/bookings/:id/refund", h.runBookingAction(h.bookings.RefundBooking))

		admin.POST("/reviews/:id/activate", h.SetReviewActive(true))
		admin.POST("/reviews/:id/deactivate", h.SetReviewActive(false))
		admin.POST("/reviews/:id/respond", h.RespondReview)

		admin.POST("/statistics/refresh", h.RefreshStatistics)
	}
}

// CreateHotel handles POST /api/v1/admin/hotels.
func (h *AdminHandler) CreateHotel(c *gin.Context) {
	var req application.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.hotels.CreateHotel(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto)
}

// CreateRoomType handles POST /api/v1/admin/room-types.
func (h *AdminHandler) CreateRoomType(c *gin.Context) {
	var req application.CreateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.rooms.CreateRoomType(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto)
}

// CreateRoom handles POST /api/v1/admin/rooms.
func (h *AdminHandler) CreateRoom(c *gin.Context) {
	var req application.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.rooms.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto)
}

type roomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetRoomStatus handles PATCH /api/v1/admin/rooms/:id/status.
func (h *AdminHandler) SetRoomStatus(c *gin.Context) {
	id, ok := paramID(c, "id", "room")
	if !ok {
		return
	}
	var req roomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.rooms.SetRoomStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := pageParams(c)

	bookings, total, err := h.bookings.ListAllBookings(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, bookings, total, page, limit)
}

func (h *AdminHandler) runBookingAction(action bookingAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id", "booking")
		if !ok {
			return
		}

		dto, err := action(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, dto)
	}
}

// SetReviewActive handles POST /api/v1/admin/reviews/:id/{activate,deactivate}.
func (h *AdminHandler) SetReviewActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id", "review")
		if !ok {
			return
		}

		dto, err := h.reviews.SetActive(c.Request.Context(), id, active)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, dto)
	}
}

type respondRequest struct {
	Response string `json:"response" binding:"required"`
}

// RespondReview handles POST /api/v1/admin/reviews/:id/respond.
func (h *AdminHandler) RespondReview(c *gin.Context) {
	id, ok := paramID(c, "id", "review")
	if !ok {
		return
	}
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.reviews.Respond(c.Request.Context(), id, req.Response)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

type refreshStatisticsRequest struct {
	HotelID *uuid.UUID `json:"hotel_id"`
}

// RefreshStatistics handles POST /api/v1/admin/statistics/refresh. An empty
// body refreshes every hotel.
func (h *AdminHandler) RefreshStatistics(c *gin.Context) {
	var req refreshStatisticsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	n, err := h.stats.RefreshAll(c.Request.Context(), req.HotelID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"refreshed": n})
}
