package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/application"
	"github.com/hotel-yunuen/service-reservation/internal/platform/auth"
	"github.com/hotel-yunuen/service-reservation/internal/platform/middleware"
	"github.com/hotel-yunuen/service-reservation/internal/platform/response"
)

// CouponHandler handles HTTP requests for coupon operations.
type CouponHandler struct {
	service CouponService
	limiter middleware.Limiter
	logger  *zap.Logger
}

// NewCouponHandler creates a new CouponHandler. A nil limiter disables
// rate limiting of validation attempts.
func NewCouponHandler(service CouponService, limiter middleware.Limiter, logger *zap.Logger) *CouponHandler {
	return &CouponHandler{service: service, limiter: limiter, logger: logger}
}

// RegisterRoutes registers all coupon routes.
func (h *CouponHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	coupons := r.Group("/coupons")
	coupons.Use(authMW)
	{
		coupons.POST("/validate", middleware.RateLimitMiddleware(h.limiter, "coupon-validate", h.logger), h.ValidateCoupon)
		coupons.GET("/active", h.GetActiveCoupons)
	}

	admin := r.Group("/admin/coupons")
	admin.Use(authMW, middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("", h.CreateCoupon)
		admin.POST("/:id/deactivate", h.DeactivateCoupon)
	}
}

// CreateCoupon handles POST /api/v1/admin/coupons.
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateCoupon(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ValidateCoupon handles POST /api/v1/coupons/validate.
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req application.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ValidateCoupon(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetActiveCoupons handles GET /api/v1/coupons/active.
func (h *CouponHandler) GetActiveCoupons(c *gin.Context) {
	result, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeactivateCoupon handles POST /api/v1/admin/coupons/:id/deactivate.
func (h *CouponHandler) DeactivateCoupon(c *gin.Context) {
	id, ok := paramID(c, "id", "coupon")
	if !ok {
		return
	}

	result, err := h.service.Deactivate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
