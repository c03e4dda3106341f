package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hotel-yunuen/service-reservation/internal/application"
	"github.com/hotel-yunuen/service-reservation/internal/platform/auth"
	"github.com/hotel-yunuen/service-reservation/internal/platform/middleware"
	"github.com/hotel-yunuen/service-reservation/internal/platform/response"
)

// ReviewHandler handles HTTP requests for guest reviews.
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers the review routes. Reading is public, writing
// requires a token.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	reviews := r.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.GET("/:id", h.GetReview)
		reviews.POST("", authMW, h.CreateReview)
		reviews.POST("/:id/helpful", authMW, h.ToggleHelpful)
	}

	r.GET("/hotels/:slug/reviews", h.HotelReviews)
}

// CreateReview handles POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto)
}

// ListReviews handles GET /api/v1/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	page, limit := pageParams(c)

	reviews, total, err := h.service.ListReviews(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, reviews, total, page, limit)
}

// GetReview handles GET /api/v1/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := paramID(c, "id", "review")
	if !ok {
		return
	}

	dto, err := h.service.GetReview(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// HotelReviews handles GET /api/v1/hotels/:slug/reviews
func (h *ReviewHandler) HotelReviews(c *gin.Context) {
	var q application.HotelReviewsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q.Page, q.Limit = pageParams(c)

	dto, err := h.service.HotelReviews(c.Request.Context(), c.Param("slug"), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto, dto.Total, q.Page, q.Limit)
}

// ToggleHelpful handles POST /api/v1/reviews/:id/helpful
func (h *ReviewHandler) ToggleHelpful(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := paramID(c, "id", "review")
	if !ok {
		return
	}

	dto, err := h.service.ToggleHelpful(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}
