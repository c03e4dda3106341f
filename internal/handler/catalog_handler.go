package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/application"
	"github.com/hotel-yunuen/service-reservation/internal/platform/response"
)

// CatalogHandler serves the public hotel and room catalogue.
type CatalogHandler struct {
	hotels HotelService
	rooms  RoomService
	stats  StatisticsService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(hotels HotelService, rooms RoomService, stats StatisticsService) *CatalogHandler {
	return &CatalogHandler{hotels: hotels, rooms: rooms, stats: stats}
}

// RegisterRoutes registers the public catalogue routes.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/home", h.Home)
	r.GET("/rates", h.Rates)

	hotels := r.Group("/hotels")
	{
		hotels.GET("", h.ListHotels)
		hotels.GET("/:slug", h.GetHotel)
		hotels.GET("/:slug/statistics", h.HotelStatistics)
	}

	roomTypes := r.Group("/room-types")
	{
		roomTypes.GET("", h.ListRoomTypes)
		roomTypes.GET("/check-availability", h.CheckAvailability)
		roomTypes.GET("/:id", h.GetRoomType)
	}
}

// Home handles GET /api/v1/home
func (h *CatalogHandler) Home(c *gin.Context) {
	dto, err := h.hotels.Home(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Rates handles GET /api/v1/rates
func (h *CatalogHandler) Rates(c *gin.Context) {
	dto, err := h.hotels.Rates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// ListHotels handles GET /api/v1/hotels
func (h *CatalogHandler) ListHotels(c *gin.Context) {
	dto, err := h.hotels.ListHotels(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// GetHotel handles GET /api/v1/hotels/:slug
func (h *CatalogHandler) GetHotel(c *gin.Context) {
	dto, err := h.hotels.GetHotel(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// HotelStatistics handles GET /api/v1/hotels/:slug/statistics
func (h *CatalogHandler) HotelStatistics(c *gin.Context) {
	st, err := h.stats.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, st)
}

// ListRoomTypes handles GET /api/v1/room-types
func (h *CatalogHandler) ListRoomTypes(c *gin.Context) {
	var q application.RoomTypeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.rooms.ListRoomTypes(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// GetRoomType handles GET /api/v1/room-types/:id with optional
// check_in/check_out query dates.
func (h *CatalogHandler) GetRoomType(c *gin.Context) {
	id, ok := paramID(c, "id", "room type")
	if !ok {
		return
	}
	stay, err := application.ParseStay(c.Query("check_in"), c.Query("check_out"))
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.rooms.GetRoomType(c.Request.Context(), id, stay)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// CheckAvailability handles GET /api/v1/room-types/check-availability
func (h *CatalogHandler) CheckAvailability(c *gin.Context) {
	roomTypeID, err := uuid.Parse(c.Query("room_type_id"))
	if err != nil {
		response.BadRequest(c, "invalid room type ID")
		return
	}

	dto, err := h.rooms.CheckAvailability(c.Request.Context(), roomTypeID, c.Query("check_in"), c.Query("check_out"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
